package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/TwigBush/uma-go/internal/grant"
	"github.com/TwigBush/uma-go/internal/httpx"
	"github.com/TwigBush/uma-go/internal/tenant"
	"github.com/TwigBush/uma-go/internal/uma"
)

// TokenHandler serves the OAuth token endpoint for the UMA 2.0 grant type.
type TokenHandler struct {
	Coordinator *grant.Coordinator

	// Clients maps client IDs to the tenant domain owning the application.
	// Unknown clients fall back to DefaultTenant.
	Clients       map[string]string
	DefaultTenant string

	Log *slog.Logger
}

func NewTokenHandler(c *grant.Coordinator, clients map[string]string, defaultTenant string) *TokenHandler {
	return &TokenHandler{
		Coordinator:   c,
		Clients:       clients,
		DefaultTenant: defaultTenant,
		Log:           slog.Default(),
	}
}

type oauthError struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_request", Description: "malformed form body"})
		return
	}

	clientID, _, ok := httpx.ClientCredentials(r)
	if !ok {
		httpx.WriteJSON(w, http.StatusUnauthorized, oauthError{Error: "invalid_client", Description: "missing client identification"})
		return
	}

	ctx := r.Context()
	if routeTenant := chi.URLParam(r, "tenant"); routeTenant != "" {
		ctx = tenant.WithDomain(ctx, routeTenant)
	}

	rc := uma.NewRequestContext(h.buildRequest(r, clientID))

	outcome, err := h.Coordinator.ValidateGrant(ctx, rc)
	if err != nil {
		h.writeError(w, r, clientID, err)
		return
	}

	switch outcome.Kind {
	case uma.OutcomeRejected:
		httpx.WriteJSON(w, http.StatusBadRequest, oauthError{Error: "unsupported_grant_type"})
		return
	case uma.OutcomeDenied:
		for k, v := range rc.ResponseHeaders {
			w.Header().Set(k, v)
		}
		httpx.WriteJSON(w, http.StatusForbidden, oauthError{Error: "access_denied", Description: outcome.Reason})
		return
	}

	resp, err := h.Coordinator.IssueToken(ctx, rc)
	if err != nil {
		h.writeError(w, r, clientID, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// buildRequest snapshots the form parameters into the immutable token
// request consumed by the grant pipeline.
func (h *TokenHandler) buildRequest(r *http.Request, clientID string) *uma.TokenRequest {
	params := make([]uma.Parameter, 0, len(r.PostForm))
	for key, values := range r.PostForm {
		params = append(params, uma.Parameter{Key: key, Values: values})
	}

	appTenant := h.Clients[clientID]
	if appTenant == "" {
		appTenant = h.DefaultTenant
	}

	var scope []string
	if s := r.PostFormValue("scope"); s != "" {
		scope = strings.Fields(s)
	}

	return &uma.TokenRequest{
		ClientID:     clientID,
		TenantDomain: appTenant,
		Scope:        scope,
		Parameters:   params,
	}
}

func (h *TokenHandler) writeError(w http.ResponseWriter, r *http.Request, clientID string, err error) {
	var ce *uma.ClientError
	if errors.As(err, &ce) {
		httpx.WriteJSON(w, http.StatusBadRequest, oauthError{Error: "invalid_grant", Description: ce.Message})
		return
	}
	h.Log.Error("grant evaluation failed", "client_id", clientID, "code", uma.CodeOf(err), "err", err)
	httpx.WriteJSON(w, http.StatusInternalServerError, oauthError{Error: "server_error"})
}
