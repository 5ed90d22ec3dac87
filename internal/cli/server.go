package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kyoto-kentei/internal/app"
	"kyoto-kentei/internal/config"
	"kyoto-kentei/internal/infra/memory"
	redisstore "kyoto-kentei/internal/infra/redis"
	"kyoto-kentei/internal/metrics"
	transport "kyoto-kentei/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := openRuntime(ctx, configPath)
	if err != nil {
		return err
	}
	defer rt.Close()
	cfg, logger := rt.cfg, rt.logger

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg.Postgres.URL, logger); err != nil {
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

	sessionTTL := config.TTLDuration(cfg.Quiz.SessionTTL, 2*time.Hour)
	var sessions app.SessionRepository
	if rt.redis != nil {
		redisTTL := config.TTLDuration(cfg.Redis.TTL, sessionTTL)
		shared := redisstore.NewSessionStore(rt.redis, redisTTL, logger)
		go sweepSessions(ctx, redisTTL, logger, func(time.Time) int { return shared.Sweep(ctx) })
		sessions = shared
	} else {
		local := memory.NewSessionStore()
		go sweepSessions(ctx, sessionTTL, logger, func(now time.Time) int { return local.Sweep(now.Add(-sessionTTL)) })
		sessions = local
	}

	history, reports := rt.stores()
	recorder := metrics.NewRecorder()
	service := app.NewQuizService(sessions, rt.questionRepository(), history, reports,
		app.WithLogger(logger),
		app.WithMetrics(recorder),
		app.WithWeakThreshold(cfg.Quiz.WeakThreshold),
	)

	handler := transport.NewRouter(service, transport.RouterConfig{
		Logger:               logger,
		Metrics:              recorder,
		DefaultQuestionCount: cfg.Quiz.DefaultQuestionCount,
	})

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting kentei server",
			zap.String("addr", server.Addr),
			zap.String("storage", cfg.Storage.Backend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sweepSessions runs sweep every quarter ttl until ctx is done.
func sweepSessions(ctx context.Context, ttl time.Duration, logger *zap.Logger, sweep func(now time.Time) int) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 4)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := sweep(now); n > 0 {
				logger.Debug("swept idle sessions", zap.Int("count", n))
			}
		}
	}
}
