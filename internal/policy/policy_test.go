package policy

import (
	"context"
	"errors"
	"testing"

	"github.com/TwigBush/uma-go/internal/uma"
)

var testResources = []uma.Resource{{ID: "r1", Scopes: []string{"view"}}}

func TestEmptyChainAuthorizesByDefault(t *testing.T) {
	chain := NewChain()
	dec := chain.Authorize(context.Background(), "anyone", testResources)
	if !dec.Granted {
		t.Fatalf("empty chain must authorize")
	}
	if len(dec.Rejected) != 0 {
		t.Fatalf("unexpected rejected results: %v", dec.Rejected)
	}
}

func TestSingleDenialShortCircuits(t *testing.T) {
	calls := 0
	counting := evaluatorFunc{name: "counting", fn: func() (bool, error) {
		calls++
		return true, nil
	}}

	chain := NewChain(counting, &Static{Allow: false}, counting)
	dec := chain.Authorize(context.Background(), "alice", testResources)
	if dec.Granted {
		t.Fatalf("denial must win")
	}
	if calls != 1 {
		t.Fatalf("evaluators after the denial must not run, calls = %d", calls)
	}
	if len(dec.Rejected) != 1 || dec.Rejected[0].Policy != "static" {
		t.Fatalf("rejected = %+v, want the static denial", dec.Rejected)
	}
}

func TestEvaluatorErrorDenies(t *testing.T) {
	chain := NewChain(&Static{Err: errors.New("backend down")})
	dec := chain.Authorize(context.Background(), "alice", testResources)
	if dec.Granted {
		t.Fatalf("evaluator error must fail closed")
	}
	if len(dec.Rejected) != 1 || dec.Rejected[0].Reason != "backend down" {
		t.Fatalf("rejected = %+v, want the error reason", dec.Rejected)
	}
}

func TestAllAuthorize(t *testing.T) {
	chain := NewChain(&Static{Allow: true}, &Static{Allow: true})
	if dec := chain.Authorize(context.Background(), "alice", testResources); !dec.Granted {
		t.Fatalf("all-allow chain must grant")
	}
}

func TestACLRequiresEveryResource(t *testing.T) {
	acl := NewACL(map[string][]string{"alice": {"r1", "r2"}})

	ok, err := acl.IsAuthorized(context.Background(), "alice", []uma.Resource{{ID: "r1"}, {ID: "r2"}})
	if err != nil || !ok {
		t.Fatalf("alice should be authorized for r1+r2, got %v %v", ok, err)
	}

	ok, _ = acl.IsAuthorized(context.Background(), "alice", []uma.Resource{{ID: "r1"}, {ID: "r3"}})
	if ok {
		t.Fatalf("alice must not be authorized when any resource is outside the grant list")
	}

	ok, _ = acl.IsAuthorized(context.Background(), "mallory", []uma.Resource{{ID: "r1"}})
	if ok {
		t.Fatalf("unknown subject must be denied")
	}
}

type evaluatorFunc struct {
	name string
	fn   func() (bool, error)
}

func (e evaluatorFunc) Name() string { return e.name }
func (e evaluatorFunc) IsAuthorized(ctx context.Context, subject string, resources []uma.Resource) (bool, error) {
	return e.fn()
}
