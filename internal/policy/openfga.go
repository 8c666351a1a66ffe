package policy

import (
	"context"
	"fmt"

	fga "github.com/openfga/go-sdk/client"

	"github.com/TwigBush/uma-go/internal/uma"
)

// OpenFGA answers authorization from an OpenFGA store: for each resource on
// the ticket, the subject must hold every scope as a relation on the
// resource object.
type OpenFGA struct {
	c       *fga.OpenFgaClient
	modelID string
}

type OpenFGAConfig struct {
	APIURL  string
	StoreID string
	ModelID string // optional but recommended in prod
}

func NewOpenFGA(cfg OpenFGAConfig) (*OpenFGA, error) {
	conf := &fga.ClientConfiguration{
		ApiUrl:  cfg.APIURL,
		StoreId: cfg.StoreID,
	}
	if cfg.ModelID != "" {
		conf.AuthorizationModelId = cfg.ModelID
	}

	client, err := fga.NewSdkClient(conf)
	if err != nil {
		return nil, fmt.Errorf("openfga_client_init: %w", err)
	}
	return &OpenFGA{c: client, modelID: cfg.ModelID}, nil
}

func (o *OpenFGA) Name() string { return "openfga" }

func (o *OpenFGA) IsAuthorized(ctx context.Context, subject string, resources []uma.Resource) (bool, error) {
	for _, res := range resources {
		relations := res.Scopes
		if len(relations) == 0 {
			relations = []string{"access"}
		}
		for _, rel := range relations {
			checkReq := fga.ClientCheckRequest{
				User:     "user:" + subject,
				Relation: rel,
				Object:   "resource:" + res.ID,
			}
			resp, err := o.c.Check(ctx).Body(checkReq).Execute()
			if err != nil {
				return false, fmt.Errorf("fga_check_error: %w", err)
			}
			if resp.Allowed == nil || !*resp.Allowed {
				return false, nil
			}
		}
	}
	return true, nil
}
