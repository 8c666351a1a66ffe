// Package httpx holds the small HTTP plumbing shared by the handlers:
// JSON writers, a counting response recorder, client-credential
// extraction and base-URL reconstruction behind proxies.
package httpx

import (
	"encoding/json"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON encodes v as the response body. Encoding failures after the
// status line is out are unrecoverable and dropped.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, errorBody{Error: msg})
}
