package tenant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/TwigBush/uma-go/internal/uma"
)

func TestCheckConsistencyDisabled(t *testing.T) {
	r := StaticResolver{QualifiedMode: false, Domain: "t1"}
	if err := CheckConsistency(context.Background(), r, "t2", "client-1"); err != nil {
		t.Fatalf("consistency must not be enforced outside qualified mode: %v", err)
	}
}

func TestCheckConsistencyMatch(t *testing.T) {
	r := StaticResolver{QualifiedMode: true, Domain: "t1"}
	if err := CheckConsistency(context.Background(), r, "t1", "client-1"); err != nil {
		t.Fatalf("matching tenants must pass: %v", err)
	}
}

func TestCheckConsistencyMismatchNamesClient(t *testing.T) {
	r := StaticResolver{QualifiedMode: true, Domain: "t1"}
	err := CheckConsistency(context.Background(), r, "t2", "client-1")
	if !uma.IsClient(err) {
		t.Fatalf("mismatch must be a client error, got %v", err)
	}
	if uma.CodeOf(err) != uma.CodeTenantMismatch {
		t.Fatalf("code = %q", uma.CodeOf(err))
	}
	var ce *uma.ClientError
	if !errors.As(err, &ce) || !strings.Contains(ce.Message, "client-1") {
		t.Fatalf("error must name the client: %v", err)
	}
}

func TestContextTenantOverridesStatic(t *testing.T) {
	r := StaticResolver{QualifiedMode: true, Domain: "fallback"}
	ctx := WithDomain(context.Background(), "t9")
	if got := r.FromContext(ctx); got != "t9" {
		t.Fatalf("FromContext = %q, want t9", got)
	}
	if got := r.FromContext(context.Background()); got != "fallback" {
		t.Fatalf("FromContext fallback = %q", got)
	}
}

func TestRunScopedDoesNotLeak(t *testing.T) {
	ctx := context.Background()
	var inside string
	err := RunScoped(ctx, "t3", func(scoped context.Context) error {
		inside = DomainFrom(scoped)
		return nil
	})
	if err != nil {
		t.Fatalf("RunScoped: %v", err)
	}
	if inside != "t3" {
		t.Fatalf("scoped domain = %q", inside)
	}
	if DomainFrom(ctx) != "" {
		t.Fatalf("outer context must stay clean")
	}
}
