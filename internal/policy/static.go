package policy

import (
	"context"

	"github.com/TwigBush/uma-go/internal/uma"
)

// Static always answers the same way. Dev and test use.
type Static struct {
	Allow bool
	Err   error
}

func (s *Static) Name() string { return "static" }

func (s *Static) IsAuthorized(ctx context.Context, subject string, resources []uma.Resource) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	return s.Allow, nil
}
