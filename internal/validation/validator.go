package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"github.com/news-portal-api/internal/auth"
	"github.com/news-portal-api/internal/models"
)

var (
	folderRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

	articleStatuses = []interface{}{
		models.ArticleStatusDraft,
		models.ArticleStatusPublished,
		models.ArticleStatusArchived,
		models.ArticleStatusScheduled,
	}
	roles      = []interface{}{models.RoleSuperAdmin, models.RoleAdmin, models.RoleEditorial}
	mediaTypes = []interface{}{models.MediaImage, models.MediaVideo, models.MediaDocument}
)

const (
	maxTitleLength    = 200
	maxNameLength     = 100
	maxExcerptLength  = 500
	maxTagLength      = 50
	maxTags           = 20
	maxFolderLength   = 50
	maxCaptionLength  = 300
	maxBioLength      = 500
	maxPhoneLength    = 20
	minUserNameLength = 2
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is a list of field validation errors.
type Errors []ValidationError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return strings.Join(parts, "; ")
}

// Validator validates request payloads.
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateArticle validates an article payload. On create the bilingual title,
// bilingual content and category are required.
func (v *Validator) ValidateArticle(in *models.ArticleInput, create bool) error {
	return convert(validation.ValidateStruct(in,
		validation.Field(&in.Title,
			validation.When(create, validation.Required.Error("title is required")),
			validation.By(localized(create, maxTitleLength)),
		),
		validation.Field(&in.Content,
			validation.When(create, validation.Required.Error("content is required")),
			validation.By(localized(create, 0)),
		),
		validation.Field(&in.Excerpt, validation.By(localized(false, maxExcerptLength))),
		validation.Field(&in.CategoryID,
			validation.When(create, validation.Required.Error("category is required")),
			is.UUID.Error("invalid category ID"),
		),
		validation.Field(&in.Status, validation.In(articleStatuses...).Error("invalid status")),
		validation.Field(&in.FeaturedImage, is.URL.Error("invalid featured image URL")),
		validation.Field(&in.Tags,
			validation.Length(0, maxTags).Error(fmt.Sprintf("at most %d tags are allowed", maxTags)),
			validation.Each(validation.Required.Error("tag must not be empty"), validation.RuneLength(0, maxTagLength)),
		),
	))
}

// ValidateCategory validates a category payload.
func (v *Validator) ValidateCategory(in *models.CategoryInput, create bool) error {
	return convert(validation.ValidateStruct(in,
		validation.Field(&in.Name,
			validation.When(create, validation.Required.Error("name is required")),
			validation.By(localized(create, maxNameLength)),
		),
		validation.Field(&in.Description, validation.By(localized(false, maxExcerptLength))),
		validation.Field(&in.ParentID, is.UUID.Error("invalid parent category ID")),
		validation.Field(&in.Image, is.URL.Error("invalid image URL")),
		validation.Field(&in.Order, validation.Min(0).Error("order must not be negative")),
	))
}

// ValidateAdvertisement validates an advertisement payload. The schedule is
// checked when both dates are present; partial updates re-check it via
// ValidateAdSchedule after merging.
func (v *Validator) ValidateAdvertisement(in *models.AdvertisementInput, create bool) error {
	err := validation.ValidateStruct(in,
		validation.Field(&in.Name,
			validation.When(create, validation.Required.Error("advertisement name is required")),
			validation.RuneLength(0, maxNameLength).Error(fmt.Sprintf("name cannot exceed %d characters", maxNameLength)),
		),
		validation.Field(&in.Title, validation.By(localized(false, maxTitleLength))),
		validation.Field(&in.Description, validation.By(localized(false, maxExcerptLength))),
		validation.Field(&in.Type,
			validation.When(create, validation.Required.Error("advertisement type is required")),
			validation.In(models.ValidAdTypes...).Error("invalid advertisement type"),
		),
		validation.Field(&in.Position,
			validation.When(create, validation.Required.Error("position is required")),
			validation.In(models.ValidAdPositions...).Error("invalid position"),
		),
		validation.Field(&in.ImageURL,
			validation.When(create, validation.Required.Error("image URL is required")),
			is.URL.Error("invalid image URL"),
		),
		validation.Field(&in.LinkURL,
			validation.When(create, validation.Required.Error("link URL is required")),
			is.URL.Error("invalid link URL"),
		),
		validation.Field(&in.StartDate, validation.When(create, validation.Required.Error("start date is required"))),
		validation.Field(&in.EndDate, validation.When(create, validation.Required.Error("end date is required"))),
		validation.Field(&in.Priority, validation.Min(0).Error("priority must not be negative")),
		validation.Field(&in.DisplayPages, validation.Each(validation.In(models.ValidDisplayPages...).Error("invalid display page"))),
	)
	if err != nil {
		return convert(err)
	}
	if in.StartDate != nil && in.EndDate != nil {
		return v.ValidateAdSchedule(*in.StartDate, *in.EndDate)
	}
	return nil
}

// ValidateAdSchedule checks that an advertisement ends after it starts.
func (v *Validator) ValidateAdSchedule(start, end time.Time) error {
	if !end.After(start) {
		return Errors{{Field: "endDate", Message: "end date must be after start date"}}
	}
	return nil
}

// ValidateMedia validates a media registration.
func (v *Validator) ValidateMedia(in *models.MediaInput) error {
	return convert(validation.ValidateStruct(in,
		validation.Field(&in.Filename, validation.Required.Error("filename is required")),
		validation.Field(&in.MimeType, validation.Required.Error("mime type is required")),
		validation.Field(&in.Type, validation.In(mediaTypes...).Error("invalid media type")),
		validation.Field(&in.Size, validation.Min(int64(0)).Error("size must not be negative")),
		validation.Field(&in.Folder, validation.RuneLength(0, maxFolderLength), validation.Match(folderRegex).Error("invalid folder name")),
		validation.Field(&in.Tags, validation.Length(0, maxTags), validation.Each(validation.RuneLength(1, maxTagLength))),
		validation.Field(&in.Alt, validation.By(localized(false, maxCaptionLength))),
		validation.Field(&in.Caption, validation.By(localized(false, maxCaptionLength))),
	))
}

// ValidateMediaUpdate validates a media metadata change.
func (v *Validator) ValidateMediaUpdate(in *models.MediaUpdate) error {
	return convert(validation.ValidateStruct(in,
		validation.Field(&in.Folder, validation.RuneLength(0, maxFolderLength), validation.Match(folderRegex).Error("invalid folder name")),
		validation.Field(&in.Tags, validation.Length(0, maxTags), validation.Each(validation.RuneLength(1, maxTagLength))),
		validation.Field(&in.Alt, validation.By(localized(false, maxCaptionLength))),
		validation.Field(&in.Caption, validation.By(localized(false, maxCaptionLength))),
	))
}

// ValidateUser validates an admin user payload. Name, email and password are
// required on create.
func (v *Validator) ValidateUser(in *models.UserInput, create bool) error {
	return convert(validation.ValidateStruct(in,
		validation.Field(&in.Name,
			validation.When(create, validation.Required.Error("name is required")),
			validation.RuneLength(minUserNameLength, maxNameLength).Error("name must be between 2 and 100 characters"),
		),
		validation.Field(&in.Email,
			validation.When(create, validation.Required.Error("email is required")),
			is.EmailFormat.Error("please provide a valid email"),
		),
		validation.Field(&in.Password,
			validation.When(create, validation.Required.Error("password is required")),
			validation.RuneLength(auth.MinPasswordLength, 0).Error(fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength)),
		),
		validation.Field(&in.Role, validation.In(roles...).Error("invalid role")),
		validation.Field(&in.Phone, validation.RuneLength(0, maxPhoneLength)),
		validation.Field(&in.Bio, validation.RuneLength(0, maxBioLength)),
		validation.Field(&in.Avatar, is.URL.Error("invalid avatar URL")),
	))
}

// ValidateProfile validates the values of a self-service profile update.
// Which fields a role may change is decided by the policy package.
func (v *Validator) ValidateProfile(update models.ProfileUpdate) error {
	rules := map[string][]validation.Rule{
		"name":   {validation.Required, validation.RuneLength(minUserNameLength, maxNameLength)},
		"email":  {validation.Required, is.EmailFormat.Error("please provide a valid email")},
		"phone":  {validation.RuneLength(0, maxPhoneLength)},
		"bio":    {validation.RuneLength(0, maxBioLength)},
		"avatar": {is.URL.Error("invalid avatar URL")},
	}
	errs := validation.Errors{}
	for field, value := range update {
		if r, ok := rules[field]; ok {
			errs[field] = validation.Validate(strings.TrimSpace(value), r...)
		}
	}
	return convert(errs.Filter())
}

// ValidateLogin validates login credentials.
func (v *Validator) ValidateLogin(email, password string) error {
	return convert(validation.Errors{
		"email":    validation.Validate(email, validation.Required.Error("email is required"), is.EmailFormat.Error("please provide a valid email")),
		"password": validation.Validate(password, validation.Required.Error("password is required")),
	}.Filter())
}

// ValidatePasswordChange validates a password change request.
func (v *Validator) ValidatePasswordChange(current, next string) error {
	return convert(validation.Errors{
		"currentPassword": validation.Validate(current, validation.Required.Error("current password is required")),
		"newPassword": validation.Validate(next,
			validation.Required.Error("new password is required"),
			validation.RuneLength(auth.MinPasswordLength, 0).Error(fmt.Sprintf("password must be at least %d characters", auth.MinPasswordLength)),
		),
	}.Filter())
}

// ValidateID checks that id is a UUID.
func (v *Validator) ValidateID(field, id string) error {
	if !isValidUUID(id) {
		return Errors{{Field: field, Message: "invalid " + field}}
	}
	return nil
}

// isValidUUID checks if a string is a valid UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// localized validates a *models.Localized. When required, both halves must be
// non-blank; maxLen > 0 bounds each half in runes.
func localized(required bool, maxLen int) validation.RuleFunc {
	return func(value interface{}) error {
		l, _ := value.(*models.Localized)
		if l == nil {
			return nil
		}
		t := l.Trimmed()
		errs := validation.Errors{}
		check := func(key, text, lang string) {
			switch {
			case required && text == "":
				errs[key] = validation.NewError("validation_required", lang+" text is required")
			case maxLen > 0 && utf8.RuneCountInString(text) > maxLen:
				errs[key] = validation.NewError("validation_length_too_long", fmt.Sprintf("cannot exceed %d characters", maxLen))
			}
		}
		check("en", t.En, "English")
		check("bn", t.Bn, "Bangla")
		if len(errs) == 0 {
			return nil
		}
		return errs
	}
}

// convert flattens ozzo validation errors into Errors with dotted field paths.
// Internal rule errors are returned unchanged.
func convert(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "request", Message: err.Error()}}
	}
	var out Errors
	flatten("", verrs, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func flatten(prefix string, errs validation.Errors, out *Errors) {
	for key, err := range errs {
		if err == nil {
			continue
		}
		field := key
		if prefix != "" {
			field = prefix + "." + key
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(field, nested, out)
			continue
		}
		*out = append(*out, ValidationError{Field: field, Message: err.Error()})
	}
}
