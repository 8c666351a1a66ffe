package handlers

import (
	"net/http"

	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/TwigBush/uma-go/internal/httpx"
)

// JWKS serves the public half of the RPT signing key.
func JWKS(signingKey jwk.Key) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		set := jwk.NewSet()
		if signingKey != nil {
			pub, err := jwk.PublicKeyOf(signingKey)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "jwks unavailable")
				return
			}
			_ = set.AddKey(pub)
		}
		httpx.WriteJSON(w, http.StatusOK, set)
	}
}
