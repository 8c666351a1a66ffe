// Package tenant carries tenant-domain context through a request and
// enforces tenant consistency in tenant-qualified deployments.
package tenant

import (
	"context"

	"github.com/TwigBush/uma-go/internal/uma"
)

type ctxKey int

const domainKey ctxKey = 1

// WithDomain returns a context carrying the given tenant domain.
func WithDomain(ctx context.Context, domain string) context.Context {
	return context.WithValue(ctx, domainKey, domain)
}

// DomainFrom returns the tenant domain carried on ctx, or empty.
func DomainFrom(ctx context.Context) string {
	if v := ctx.Value(domainKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RunScoped activates domain for the duration of fn. The activation lives
// on the derived context handed to fn, so it ends on every return path and
// never leaks across requests.
func RunScoped(ctx context.Context, domain string, fn func(context.Context) error) error {
	return fn(WithDomain(ctx, domain))
}

// Resolver exposes the deployment's tenant addressing mode and the tenant
// resolved from the active request context.
type Resolver interface {
	// Qualified reports whether tenant-qualified addressing is enabled.
	Qualified() bool
	// FromContext returns the tenant domain of the active request.
	FromContext(ctx context.Context) string
}

// StaticResolver resolves the context tenant from the request context when
// present, falling back to a fixed domain.
type StaticResolver struct {
	QualifiedMode bool
	Domain        string
}

func (r StaticResolver) Qualified() bool { return r.QualifiedMode }

func (r StaticResolver) FromContext(ctx context.Context) string {
	if d := DomainFrom(ctx); d != "" {
		return d
	}
	return r.Domain
}

// CheckConsistency verifies that the tenant resolved from the request
// context matches the application's tenant domain. Only enforced in
// tenant-qualified mode; a mismatch fails closed naming the client.
func CheckConsistency(ctx context.Context, r Resolver, appTenantDomain, clientID string) error {
	if !r.Qualified() {
		return nil
	}
	fromContext := r.FromContext(ctx)
	if fromContext != appTenantDomain {
		return uma.Clientf(uma.CodeTenantMismatch,
			"a valid application cannot be found for client %q in tenant domain %q", clientID, fromContext)
	}
	return nil
}
