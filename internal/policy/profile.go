package policy

import (
	"fmt"
	"sort"

	"github.com/news-portal-api/internal/models"
)

var baseProfileFields = []string{"name", "phone", "bio", "avatar"}

// ProfileFields returns the fields role may change on its own user record.
// Only super admins may change their email through the profile path.
func ProfileFields(role models.Role) map[string]bool {
	fields := make(map[string]bool, len(baseProfileFields)+1)
	for _, f := range baseProfileFields {
		fields[f] = true
	}
	if role == models.RoleSuperAdmin {
		fields["email"] = true
	}
	return fields
}

// CheckProfileUpdate returns an error naming every disallowed field in
// requested. A non-nil error means nothing may be applied.
func CheckProfileUpdate(role models.Role, requested []string) error {
	allowed := ProfileFields(role)
	var rejected []string
	for _, f := range requested {
		if !allowed[f] {
			rejected = append(rejected, f)
		}
	}
	if len(rejected) == 0 {
		return nil
	}
	sort.Strings(rejected)
	return fmt.Errorf("fields not allowed in profile update: %v", rejected)
}
