package server

import (
	"encoding/json"
	"net/http"

	"github.com/TwigBush/uma-go/internal/httpx"
	"github.com/TwigBush/uma-go/internal/uma"
)

// umaDiscoveryResp is the UMA 2.0 authorization server metadata document.
type umaDiscoveryResp struct {
	Issuer               string   `json:"issuer"`
	TokenEndpoint        string   `json:"token_endpoint"`
	JWKSURI              string   `json:"jwks_uri"`
	PermissionEndpoint   string   `json:"permission_endpoint,omitempty"`
	GrantTypesSupported  []string `json:"grant_types_supported"`
	ResponseTypes        []string `json:"response_types_supported"`
	UMAProfilesSupported []string `json:"uma_profiles_supported"`
}

// DiscoveryHandler serves /.well-known/uma2-configuration.
func DiscoveryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		base := httpx.BaseURL(req)

		response := &umaDiscoveryResp{
			Issuer:               base,
			TokenEndpoint:        base + "/token",
			JWKSURI:              base + "/.well-known/jwks.json",
			PermissionEndpoint:   base + "/permission",
			GrantTypesSupported:  []string{uma.GrantType},
			ResponseTypes:        []string{"token"},
			UMAProfilesSupported: []string{},
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}
