package service

import (
	"errors"

	"github.com/news-portal-api/internal/apperr"
	"github.com/news-portal-api/internal/repository"
	"github.com/news-portal-api/internal/validation"
)

// translate maps repository sentinels and validation failures onto the
// apperr taxonomy. Anything else is an opaque upstream failure.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindInvalidInput, "validation failed", verrs)
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Conflict(what + " already exists")
	case errors.Is(err, repository.ErrReferenced):
		return apperr.Conflict(what + " is still referenced")
	}
	return apperr.Upstream("failed to access "+what, err)
}

func invalid(field, message string) error {
	return translate(validation.Errors{{Field: field, Message: message}}, "")
}
