// Package subject derives the canonical authenticated subject from the
// resolved subject string of a claims token.
package subject

import (
	"strings"

	"github.com/TwigBush/uma-go/internal/uma"
)

// Resolver applies the deployment's subject naming conventions.
type Resolver struct {
	// EmailUserName is true when @-delimited email local parts are treated
	// as usernames, so a single @ belongs to the username rather than
	// separating a tenant domain.
	EmailUserName bool

	// DefaultUserStore is used when the subject carries no user-store
	// domain prefix.
	DefaultUserStore string
}

func NewResolver(emailUserName bool) *Resolver {
	return &Resolver{EmailUserName: emailUserName, DefaultUserStore: "PRIMARY"}
}

// Resolve builds the authenticated subject for subjectString, falling back
// to appTenantDomain when no tenant domain can be derived from the subject
// itself.
func (r *Resolver) Resolve(subjectString, appTenantDomain string) uma.AuthenticatedSubject {
	tenant := r.TenantDomain(subjectString)
	if tenant == "" {
		tenant = appTenantDomain
	}
	return uma.AuthenticatedSubject{
		Username:        subjectString,
		TenantDomain:    tenant,
		UserStoreDomain: r.userStoreDomain(subjectString),
	}
}

// TenantDomain extracts the tenant domain from a subject string, or returns
// empty when none is derivable. The two branches are deliberately
// asymmetric:
//
//   - email-username convention off: any @ separates the tenant, taken
//     after the last @.
//   - email-username convention on: the first @ is part of the username, so
//     a tenant is only present when the subject holds two or more @s.
func (r *Resolver) TenantDomain(subjectString string) string {
	first := strings.Index(subjectString, "@")
	last := strings.LastIndex(subjectString, "@")

	if first >= 0 && !r.EmailUserName {
		return subjectString[last+1:]
	}
	if r.EmailUserName && first >= 0 && first != last {
		return subjectString[last+1:]
	}
	return ""
}

// userStoreDomain extracts the DOMAIN prefix of a DOMAIN/user style
// subject, defaulting when absent.
func (r *Resolver) userStoreDomain(subjectString string) string {
	if i := strings.Index(subjectString, "/"); i > 0 {
		return strings.ToUpper(subjectString[:i])
	}
	return r.DefaultUserStore
}
