package policy

import (
	"context"

	"github.com/TwigBush/uma-go/internal/uma"
)

// ACL authorizes from a fixed subject -> resource-ID allow list, typically
// loaded from configuration. A subject is authorized only when every
// resource on the ticket appears in its entry.
type ACL struct {
	Grants map[string][]string
}

func NewACL(grants map[string][]string) *ACL {
	return &ACL{Grants: grants}
}

func (a *ACL) Name() string { return "acl" }

func (a *ACL) IsAuthorized(ctx context.Context, subject string, resources []uma.Resource) (bool, error) {
	allowed, ok := a.Grants[subject]
	if !ok {
		return false, nil
	}
	set := make(map[string]struct{}, len(allowed))
	for _, id := range allowed {
		set[id] = struct{}{}
	}
	for _, res := range resources {
		if _, ok := set[res.ID]; !ok {
			return false, nil
		}
	}
	return true, nil
}
