package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/TwigBush/uma-go/internal/httpx"
	"github.com/TwigBush/uma-go/internal/uma"
)

// TicketIssuer is the store capability behind the permission endpoint.
type TicketIssuer interface {
	SaveTicket(ctx context.Context, resources []uma.Resource) (*uma.TicketState, error)
}

// PermissionHandler is the resource-server-facing endpoint that turns a
// resource set into a permission ticket. Ticket creation stays outside the
// grant pipeline; the grant core only ever consumes tickets.
type PermissionHandler struct {
	Issuer TicketIssuer
}

func NewPermissionHandler(issuer TicketIssuer) *PermissionHandler {
	return &PermissionHandler{Issuer: issuer}
}

func (h *PermissionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var resources []uma.Resource
	if err := json.NewDecoder(r.Body).Decode(&resources); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if len(resources) == 0 {
		httpx.WriteError(w, http.StatusBadRequest, "at least one resource is required")
		return
	}
	for _, res := range resources {
		if res.ID == "" {
			httpx.WriteError(w, http.StatusBadRequest, "resource_id is required")
			return
		}
	}

	state, err := h.Issuer.SaveTicket(r.Context(), resources)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, httpx.SafeErrMsg(err))
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, map[string]string{"ticket": state.Ticket})
}
