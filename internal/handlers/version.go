package handlers

import (
	"net/http"

	"github.com/TwigBush/uma-go/internal/httpx"
	"github.com/TwigBush/uma-go/internal/version"
)

func Version(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, version.Get())
}
