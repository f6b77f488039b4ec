package policy

// ResourceKind names an owned entity type.
type ResourceKind string

const (
	ResourceArticle ResourceKind = "article"
	ResourceMedia   ResourceKind = "media"
)

// Action is a mutation on an owned resource.
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource identifies the owner of an entity being mutated.
type Resource struct {
	Kind    ResourceKind
	OwnerID string
}

// CanMutate reports whether p may apply action to res. Admins may mutate
// anything; other principals only what they own. Editorial users may never
// delete articles, even their own.
func CanMutate(p *Principal, res Resource, action Action) bool {
	if p == nil {
		return false
	}
	if p.IsAdmin() {
		return true
	}
	if res.Kind == ResourceArticle && action == ActionDelete {
		return false
	}
	return p.Owns(res.OwnerID)
}
