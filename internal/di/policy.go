// Package di assembles the policy-evaluator registry from configuration.
// The registry is built once at startup and handed to the grant
// coordinator; nothing resolves evaluators ambiently at request time.
package di

import (
	"fmt"

	"github.com/TwigBush/uma-go/internal/config"
	"github.com/TwigBush/uma-go/internal/policy"
)

// ProvideChain builds the ordered evaluator chain named by cfg.Policy.
// Unknown evaluator names fail startup rather than silently dropping a
// policy.
func ProvideChain(cfg *config.Config) (*policy.Chain, error) {
	var evaluators []policy.Evaluator
	for _, name := range cfg.Policy.Evaluators {
		switch name {
		case "allow":
			evaluators = append(evaluators, &policy.Static{Allow: true})
		case "deny":
			evaluators = append(evaluators, &policy.Static{Allow: false})
		case "acl":
			evaluators = append(evaluators, policy.NewACL(cfg.Policy.ACL))
		case "fga":
			ev, err := policy.NewOpenFGA(policy.OpenFGAConfig{
				APIURL:  cfg.FGA.APIURL,
				StoreID: cfg.FGA.StoreID,
				ModelID: cfg.FGA.ModelID,
			})
			if err != nil {
				return nil, err
			}
			evaluators = append(evaluators, ev)
		default:
			return nil, fmt.Errorf("unknown policy evaluator %q", name)
		}
	}
	return policy.NewChain(evaluators...), nil
}
