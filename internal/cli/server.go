package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"uap-profile-service/internal/app"
	"uap-profile-service/internal/config"
	"uap-profile-service/internal/infra/memory"
	redisinfra "uap-profile-service/internal/infra/redis"
	"uap-profile-service/internal/logger"
	transport "uap-profile-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the profile server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return err
	}
	defer log.Sync()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg, false, log); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	redisTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)
	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	loader := b.contentLoader()

	var (
		content  app.ContentRepository
		sessions app.SessionRepository
		stores   app.LocalStoreFactory
		events   app.EventBus
	)
	if b.redis != nil {
		content = redisinfra.NewContentRepository(b.redis, loader, catalogTTL, log)
		sessions = redisinfra.NewSessionStore(b.redis, redisTTL)
		stores = redisinfra.NewLocalStores(b.redis, redisTTL)
		bus := redisinfra.NewBus(b.redis, cfg.Redis.Channel, log)
		if err := bus.Start(ctx); err != nil {
			return err
		}
		events = bus
	} else {
		content = memory.NewContentRepository(loader, catalogTTL, log)
		sessions = memory.NewSessionStore()
		stores = memory.NewLocalStores()
		events = memory.NewBus()
	}

	service := app.NewProfileService(sessions, content, stores, b.progressBackend(), events, log, gatewayOptions(cfg)...)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", transport.NewWSHandler(service, log).ServeWS)
	transport.NewRESTHandler(service, log).Register(mux)

	server := &http.Server{
		Addr:        ":" + finalPort,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// no WriteTimeout: it would cut long-lived websocket connections
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting profile service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server")
	case err := <-errCh:
		log.Error("server failed", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
