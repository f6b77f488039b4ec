package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// maxSlugAttempts bounds the -N suffix search before falling back to a random suffix.
const maxSlugAttempts = 100

// uniqueSlug derives a URL slug from text and appends -1, -2, ... until exists
// reports it free. excludeID lets an entity keep its own slug on update.
func uniqueSlug(ctx context.Context, text, fallbackPrefix, excludeID string, exists func(ctx context.Context, slug, excludeID string) (bool, error)) (string, error) {
	base := slug.Make(text)
	if base == "" {
		base = fallbackPrefix + "-" + uuid.NewString()[:8]
	}

	candidate := base
	for i := 1; i <= maxSlugAttempts; i++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + uuid.NewString()[:8], nil
}
