package policy

import (
	"fmt"
	"sort"

	"github.com/news-portal-api/internal/models"
)

// Capability is a permission token checked by route guards and services.
type Capability string

const (
	CreateArticle    Capability = "create_article"
	EditArticle      Capability = "edit_article"
	DeleteArticle    Capability = "delete_article"
	PublishArticle   Capability = "publish_article"
	CreateUser       Capability = "create_user"
	EditUser         Capability = "edit_user"
	DeleteUser       Capability = "delete_user"
	ManageCategories Capability = "manage_categories"
	ManageAds        Capability = "manage_ads"
	UploadMedia      Capability = "upload_media"
	DeleteMedia      Capability = "delete_media"
	ManageSettings   Capability = "manage_settings"
)

// AllCapabilities is the closed set of capability tokens.
var AllCapabilities = []Capability{
	CreateArticle, EditArticle, DeleteArticle, PublishArticle,
	CreateUser, EditUser, DeleteUser,
	ManageCategories, ManageAds,
	UploadMedia, DeleteMedia,
	ManageSettings,
}

// permissionTable maps each role to its explicit capabilities. super_admin
// implicitly holds every capability and is listed with an empty set.
var permissionTable = map[models.Role]map[Capability]bool{
	models.RoleSuperAdmin: {},
	models.RoleAdmin: {
		CreateArticle:    true,
		EditArticle:      true,
		DeleteArticle:    true,
		PublishArticle:   true,
		ManageCategories: true,
		ManageAds:        true,
		UploadMedia:      true,
		DeleteMedia:      true,
	},
	models.RoleEditorial: {
		CreateArticle: true,
		EditArticle:   true,
		UploadMedia:   true,
		DeleteMedia:   true,
	},
}

// CheckPermission reports whether role holds capability. Unknown roles and
// unknown capabilities are denied.
func CheckPermission(role models.Role, capability Capability) bool {
	if !isCapability(capability) {
		return false
	}
	caps, ok := permissionTable[role]
	if !ok {
		return false
	}
	if role == models.RoleSuperAdmin {
		return true
	}
	return caps[capability]
}

// Can reports whether p holds capability. A nil principal holds nothing.
func Can(p *Principal, capability Capability) bool {
	return p != nil && CheckPermission(p.Role, capability)
}

// ValidatePermissionTable checks that every role has an entry, that no entry
// names an unknown capability and that every capability is reachable by at
// least one role. It runs once at startup.
func ValidatePermissionTable() error {
	return validateTable(permissionTable)
}

func validateTable(table map[models.Role]map[Capability]bool) error {
	for role := range models.ValidRoles {
		if _, ok := table[role]; !ok {
			return fmt.Errorf("permission table: role %q has no entry", role)
		}
	}

	reachable := make(map[Capability]bool, len(AllCapabilities))
	for role, caps := range table {
		if !models.ValidRoles[role] {
			return fmt.Errorf("permission table: unknown role %q", role)
		}
		for capability := range caps {
			if !isCapability(capability) {
				return fmt.Errorf("permission table: role %q lists unknown capability %q", role, capability)
			}
			reachable[capability] = true
		}
		if role == models.RoleSuperAdmin {
			for _, capability := range AllCapabilities {
				reachable[capability] = true
			}
		}
	}

	var missing []string
	for _, capability := range AllCapabilities {
		if !reachable[capability] {
			missing = append(missing, string(capability))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("permission table: unreachable capabilities %v", missing)
	}
	return nil
}

// CapabilitiesOf lists the capabilities held by role in declaration order.
func CapabilitiesOf(role models.Role) []Capability {
	var caps []Capability
	for _, capability := range AllCapabilities {
		if CheckPermission(role, capability) {
			caps = append(caps, capability)
		}
	}
	return caps
}

func isCapability(c Capability) bool {
	for _, known := range AllCapabilities {
		if known == c {
			return true
		}
	}
	return false
}
