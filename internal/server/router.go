package server

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/TwigBush/uma-go/internal/handlers"
	mw2 "github.com/TwigBush/uma-go/internal/mw"
	"github.com/TwigBush/uma-go/internal/version"
)

type Options struct {
	EnableCORS bool
}

type Deps struct {
	Token      *handlers.TokenHandler
	Permission *handlers.PermissionHandler
	SigningKey jwk.Key
}

func BuildRouter(d Deps, opts Options, mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	if os.Getenv("UMAGO_ENV") == "local" || os.Getenv("UMAGO_ENV") == "dev" {
		r.Use(mw2.NoStore)
	}

	// baseline
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	if opts.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	for _, m := range mw {
		r.Use(m)
	}

	// tracing + logger
	r.Use(mw2.Trace())
	r.Use(mw2.Logger(mw2.LogOpts{
		SkipPaths:     []string{"/healthz", "/version"},
		RedactHeaders: []string{"Authorization"},
	}))

	r.Get("/healthz", healthCheckHandler)
	r.Get("/version", handlers.Version)

	r.Post("/token", d.Token.ServeHTTP)
	// Tenant-qualified addressing: the route tenant becomes the request
	// context tenant checked against the application's tenant.
	r.Post("/t/{tenant}/token", d.Token.ServeHTTP)

	if d.Permission != nil {
		r.Post("/permission", d.Permission.ServeHTTP)
	}

	r.Get("/.well-known/uma2-configuration", DiscoveryHandler())
	r.Get("/.well-known/jwks.json", handlers.JWKS(d.SigningKey))

	return r
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}
