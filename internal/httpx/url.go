package httpx

import "net/http"

// BaseURL reconstructs the externally visible scheme://host for r,
// trusting X-Forwarded-Proto from a fronting proxy before falling back to
// the connection itself.
func BaseURL(r *http.Request) string {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + host
}
