// Package policy evaluates a requesting party against the resources bound
// to a permission ticket.
package policy

import (
	"context"

	"github.com/TwigBush/uma-go/internal/uma"
)

// Evaluator is one pluggable authorization rule. Implementations must be
// safe for concurrent use; the registered set is fixed at startup.
type Evaluator interface {
	Name() string
	IsAuthorized(ctx context.Context, subject string, resources []uma.Resource) (bool, error)
}

// Result records one evaluator's verdict.
type Result struct {
	Policy     string
	Authorized bool
	Reason     string
}

// Decision is the combined outcome of a chain evaluation.
type Decision struct {
	Granted  bool
	Rejected []Result
}

// Chain holds the ordered evaluator registry. Evaluation is a short-circuit
// AND: the first denial stops the chain. An empty chain authorizes by
// default.
type Chain struct {
	evaluators []Evaluator
}

func NewChain(evaluators ...Evaluator) *Chain {
	return &Chain{evaluators: evaluators}
}

func (c *Chain) Len() int { return len(c.evaluators) }

// Authorize runs every registered evaluator in order. An evaluator error
// counts as a denial (fail closed) and is surfaced on the rejected result.
func (c *Chain) Authorize(ctx context.Context, subject string, resources []uma.Resource) Decision {
	for _, ev := range c.evaluators {
		ok, err := ev.IsAuthorized(ctx, subject, resources)
		if err != nil {
			return Decision{Rejected: []Result{{Policy: ev.Name(), Reason: err.Error()}}}
		}
		if !ok {
			return Decision{Rejected: []Result{{Policy: ev.Name(), Reason: "policy denied"}}}
		}
	}
	return Decision{Granted: true}
}
