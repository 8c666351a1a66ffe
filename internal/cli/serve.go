package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TwigBush/uma-go/internal/claims"
	"github.com/TwigBush/uma-go/internal/config"
	"github.com/TwigBush/uma-go/internal/di"
	"github.com/TwigBush/uma-go/internal/grant"
	"github.com/TwigBush/uma-go/internal/handlers"
	"github.com/TwigBush/uma-go/internal/keys"
	"github.com/TwigBush/uma-go/internal/server"
	"github.com/TwigBush/uma-go/internal/subject"
	"github.com/TwigBush/uma-go/internal/tenant"
	"github.com/TwigBush/uma-go/internal/token"
	"github.com/TwigBush/uma-go/internal/uma"
)

func cmdServe() *cobra.Command {
	var enableCORS bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Start the UMA authorization server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runServer(cmd.Context(), cfg, enableCORS)
		},
	}
	c.Flags().BoolVar(&enableCORS, "cors", false, "enable permissive CORS")
	return c
}

func runServer(ctx context.Context, cfg *config.Config, enableCORS bool) error {
	log := slog.Default()

	signingKey, err := loadSigningKey(cfg.SigningKeyPath)
	if err != nil {
		return err
	}

	decoder := claims.NewDecoder(keys.NewFileResolver(cfg.KeyDir), log)
	if cfg.VerifyClaimSignature {
		set, err := loadJWKS(cfg.ClaimVerifyJWKSPath)
		if err != nil {
			return err
		}
		decoder.VerifyKeys = set
	}

	store, closeStore, err := buildStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	chain, err := di.ProvideChain(cfg)
	if err != nil {
		return fmt.Errorf("build policy chain: %w", err)
	}
	if chain.Len() == 0 {
		log.Warn("no policy evaluators registered, every resolvable ticket authorizes")
	}

	coordinator := grant.NewCoordinator(
		tenant.StaticResolver{QualifiedMode: cfg.TenantQualified, Domain: cfg.SuperTenant},
		decoder,
		subject.NewResolver(cfg.EmailUserName),
		store,
		chain,
		token.NewJWTMinter(signingKey, token.IssueConfig{
			Issuer:          cfg.Issuer,
			TokenTTLSeconds: cfg.TokenTTLSeconds,
		}),
		log,
	)

	tokenHandler := handlers.NewTokenHandler(coordinator, cfg.Clients, cfg.SuperTenant)
	permissionHandler := handlers.NewPermissionHandler(store)

	router := server.BuildRouter(server.Deps{
		Token:      tokenHandler,
		Permission: permissionHandler,
		SigningKey: signingKey,
	}, server.Options{EnableCORS: enableCORS})

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", srv.Addr, "issuer", cfg.Issuer)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// ticketIssuerStore is what the permission endpoint and grant core together
// need from a store backend.
type ticketIssuerStore interface {
	uma.TicketStore
	handlers.TicketIssuer
}

func buildStore(cfg *config.Config) (ticketIssuerStore, func(), error) {
	storeCfg := uma.StoreConfig{TicketTTL: cfg.TicketTTL()}
	switch cfg.Store.Backend {
	case "", "memory":
		return uma.NewMemoryStore(storeCfg), func() {}, nil
	case "redis":
		s, err := uma.NewRedisStore(uma.RedisConfig{
			Addr:     cfg.Store.RedisAddr,
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		}, storeCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("redis store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func loadSigningKey(path string) (jwk.Key, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key %s (run 'umago keys new --signing'): %w", path, err)
	}
	key, err := jwk.ParseKey(b)
	if err != nil {
		return nil, fmt.Errorf("parse signing key %s: %w", path, err)
	}
	return key, nil
}

func loadJWKS(path string) (jwk.Set, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read claim verification JWKS %s: %w", path, err)
	}
	set, err := jwk.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse claim verification JWKS %s: %w", path, err)
	}
	return set, nil
}
