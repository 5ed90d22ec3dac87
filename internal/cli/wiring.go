package cli

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kyoto-kentei/internal/app"
	"kyoto-kentei/internal/config"
	"kyoto-kentei/internal/infra/bank"
	"kyoto-kentei/internal/infra/memory"
	pgstore "kyoto-kentei/internal/infra/postgres"
	redisstore "kyoto-kentei/internal/infra/redis"
	"kyoto-kentei/internal/infra/sqlite"
	"kyoto-kentei/internal/logging"
)

// runtime holds the external connections opened for one command.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	redis  *redis.Client
	pool   *pgxpool.Pool
	sqlite *sql.DB
}

func openRuntime(ctx context.Context, path string) (*runtime, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger}

	if cfg.Redis.Addr != "" {
		rt.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	if cfg.Postgres.URL != "" {
		rt.pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
	}
	if cfg.Storage.Backend == config.BackendSQLite {
		rt.sqlite, err = sqlite.Open(ctx, cfg.SQLite.Path, logger)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	}
	return rt, nil
}

func (rt *runtime) Close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if rt.pool != nil {
		rt.pool.Close()
	}
	if rt.sqlite != nil {
		_ = rt.sqlite.Close()
	}
	_ = rt.logger.Sync()
}

func (rt *runtime) questionLoader() memory.QuestionLoader {
	switch {
	case rt.cfg.Bank.URL != "":
		return bank.NewHTTPLoader(rt.cfg.Bank.URL, config.TTLDuration(rt.cfg.Bank.Timeout, 10*time.Second))
	case rt.cfg.Bank.Path != "":
		return bank.NewFileLoader(rt.cfg.Bank.Path)
	default:
		return pgstore.NewQuestionLoader(rt.pool)
	}
}

func (rt *runtime) questionRepository() app.QuestionRepository {
	ttl := config.TTLDuration(rt.cfg.Bank.CacheTTL, 0)
	if rt.redis != nil {
		return redisstore.NewQuestionRepository(rt.redis, rt.questionLoader(), ttl, rt.logger)
	}
	return memory.NewQuestionRepository(rt.questionLoader(), ttl)
}

func (rt *runtime) stores() (app.HistoryRepository, app.QuestionReportRepository) {
	switch rt.cfg.Storage.Backend {
	case config.BackendRedis:
		return redisstore.NewHistoryStore(rt.redis, rt.logger), redisstore.NewReportStore(rt.redis, rt.logger)
	case config.BackendPostgres:
		return pgstore.NewHistoryStore(rt.pool, rt.logger), pgstore.NewReportStore(rt.pool, rt.logger)
	case config.BackendSQLite:
		return sqlite.NewHistoryStore(rt.sqlite, rt.logger), sqlite.NewReportStore(rt.sqlite, rt.logger)
	default:
		return memory.NewHistoryStore(), memory.NewReportStore()
	}
}
