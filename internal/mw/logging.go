package mw

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/TwigBush/uma-go/internal/httpx"
	"github.com/TwigBush/uma-go/internal/trace"
)

type LogOpts struct {
	SkipPaths     []string
	RedactHeaders []string
}

func isPreflight(r *http.Request) bool {
	return r.Method == http.MethodOptions
}

func Logger(opts LogOpts) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok || isPreflight(r) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := httpx.NewRecorder(w)
			next.ServeHTTP(rec, r)
			dur := time.Since(start)

			// one-liner summary
			slog.Info("req",
				"trace", trace.From(r.Context()),
				"m", r.Method,
				"path", r.URL.Path,
				"status", rec.Status,
				"ms", dur.Milliseconds(),
				"bytes", rec.Bytes,
			)

			// on error, add a compact block with redacted headers
			if rec.Status >= 400 {
				h := map[string]string{}
				for k, vv := range r.Header {
					if len(vv) == 0 {
						continue
					}
					vl := vv[0]
					if redacted(k, opts.RedactHeaders) {
						vl = "***redacted***"
					}
					h[k] = vl
				}
				slog.Error("req_detail",
					"trace", trace.From(r.Context()),
					"m", r.Method, "path", r.URL.Path,
					"status", rec.Status, "ms", dur.Milliseconds(),
					"headers", h,
				)
			}
		})
	}
}

func redacted(key string, extra []string) bool {
	if strings.EqualFold(key, "Authorization") || strings.HasPrefix(strings.ToLower(key), "x-api-key") {
		return true
	}
	for _, e := range extra {
		if strings.EqualFold(key, e) {
			return true
		}
	}
	return false
}
