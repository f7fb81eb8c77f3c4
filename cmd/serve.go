package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"heritage/admin"
	"heritage/auth"
	"heritage/backend"
	"heritage/cart"
	"heritage/catalog"
	"heritage/checkout"
	"heritage/config"
	"heritage/middleware"
	"heritage/mq"
	"heritage/products"
	"heritage/ratelim"
	"heritage/rdx"
	"heritage/routes"
	"heritage/sessions"
	"heritage/stream"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the storefront HTTP server",
	Long: `Start the storefront HTTP server. Without REDIS_ADDR sessions and the
catalog cache stay in memory; without BACKEND_URL the launch collection is
served and checkout and admin calls fail.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redis *rdx.Client
	if cfg.RedisAddr != "" {
		redis = rdx.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := redis.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		defer redis.Close()
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis connected")
	}

	client := backend.New(cfg.BackendURL, cfg.RequestTimeout)

	var (
		events  *mq.Emitter
		source  catalog.Source
		remote  *catalog.RemoteSource
		visitor sessions.Repository = sessions.NewMemoryRepository()
		admins  auth.Repository     = auth.NewMemoryRepository()
	)
	if redis != nil {
		events = mq.NewEmitter(redis, log)
		visitor = sessions.NewRedisRepository(redis, cfg.VisitorSessionTTL)
		admins = auth.NewRedisRepository(redis)
	} else {
		events = mq.NewEmitter(nil, log)
	}

	switch {
	case cfg.BackendURL == "":
		log.Warn().Msg("BACKEND_URL not set, serving the launch collection")
		source = catalog.NewStaticSource(catalog.Seed)
	case redis != nil:
		remote = catalog.NewRemoteSource(client, redis, cfg.CatalogCacheTTL, log)
		source = remote
	default:
		remote = catalog.NewRemoteSource(client, nil, cfg.CatalogCacheTTL, log)
		source = remote
	}

	if redis != nil && remote != nil {
		go mq.Listen(ctx, redis, log, mq.InvalidateOnProductChange(remote, log))
	}

	hub := stream.NewHub(log)
	go hub.Run()
	stream.SetAllowedOrigins(cfg.AllowedOrigins)

	sm := sessions.NewManager(visitor, hub, sessions.Options{IdleTTL: time.Hour}, log)
	go sm.Run(ctx, 5*time.Minute)

	limiter := ratelim.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Run(ctx.Done(), time.Minute)

	am := auth.NewManager(admins, client, []byte(cfg.JWTSecret), cfg.AdminSessionTTL, log)

	router := httprouter.New()
	routes.RoutesWrapper(router, routes.Deps{
		Products: products.NewHandler(source, cfg.RequestTimeout, log),
		Session:  cart.NewHandler(sm, source, checkout.NewService(client, events, log), cfg.RequestTimeout, log),
		Admin: admin.NewHandler(func(token string) admin.Backend {
			return client.Authed(token)
		}, events, cfg.RequestTimeout, log),
		Auth:           am,
		Hub:            hub,
		Limiter:        limiter,
		Visitor:        middleware.VisitorSession(sm, cfg.VisitorSessionTTL, cfg.SecureCookie),
		Protect:        middleware.Authenticate(am, log),
		RequestTimeout: cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           newHandler(router, cfg, log),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// on shutdown: stop the hub and the session timers
	server.RegisterOnShutdown(func() {
		log.Info().Msg("shutting down state hub")
		hub.Stop()
		sm.Close()
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Port).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info().Msg("server stopped cleanly")
	return nil
}

// newHandler applies middleware: request id, recover, logging, security
// headers, CORS, then the router.
func newHandler(router http.Handler, cfg config.Config, log zerolog.Logger) http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return middleware.Chain(router,
		middleware.RequestID,
		middleware.Recover(log),
		middleware.Logging(log),
		middleware.SecurityHeaders,
		corsHandler.Handler,
	)
}
