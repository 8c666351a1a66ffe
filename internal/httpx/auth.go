package httpx

import "net/http"

// ClientCredentials extracts the OAuth client ID from Basic auth, falling
// back to the client_id form parameter. The secret is returned as-is for
// callers that authenticate clients; the token endpoint here only needs the
// identity.
func ClientCredentials(r *http.Request) (clientID, secret string, ok bool) {
	if id, sec, ok := r.BasicAuth(); ok && id != "" {
		return id, sec, true
	}
	if id := r.PostFormValue("client_id"); id != "" {
		return id, r.PostFormValue("client_secret"), true
	}
	return "", "", false
}
