package cli

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"

	"uap-profile-service/internal/app"
	"uap-profile-service/internal/catalog"
	"uap-profile-service/internal/config"
	"uap-profile-service/internal/infra/memory"
	"uap-profile-service/internal/infra/postgres"
	"uap-profile-service/internal/logger"
)

// backends holds the optional Postgres and Redis connections shared by every
// command. A nil field means the matching section is not configured.
type backends struct {
	pool  *pgxpool.Pool
	db    *bun.DB
	redis *redis.Client
}

func openBackends(ctx context.Context, cfg config.Config, log *logger.Logger) (*backends, error) {
	b := &backends{}
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		b.pool = pool
		b.db = postgres.OpenDB(cfg.Postgres.URL)
		log.Info("postgres configured")
	}
	if cfg.Redis.Addr != "" {
		b.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Info("redis configured", "addr", cfg.Redis.Addr)
	}
	return b, nil
}

func (b *backends) Close() {
	if b.pool != nil {
		b.pool.Close()
	}
	if b.db != nil {
		_ = b.db.Close()
	}
	if b.redis != nil {
		_ = b.redis.Close()
	}
}

// contentLoader reads persona tables when Postgres is configured.
func (b *backends) contentLoader() memory.ContentLoader {
	if b.pool != nil {
		return postgres.NewContentLoader(b.pool)
	}
	return memory.NewStaticContentLoader(catalog.Builtin())
}

// progressBackend is nil without Postgres; the gateway then stays local-only.
func (b *backends) progressBackend() app.ProgressBackend {
	if b.db == nil {
		return nil
	}
	return postgres.NewProgressStore(b.db)
}

func gatewayOptions(cfg config.Config) []app.GatewayOption {
	return []app.GatewayOption{
		app.WithNamespace(cfg.Profile.Namespace),
		app.WithMirrorTimeout(config.TTLDuration(cfg.Profile.MirrorTimeout, 3*time.Second)),
	}
}

// localDBPath resolves the SQLite file of the CLI's local store:
// config, then $XDG_DATA_HOME/uap/local.db, then ~/.local/share/uap/local.db.
func localDBPath(cfg config.Config) (string, error) {
	if cfg.Local.Path != "" {
		return cfg.Local.Path, nil
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "uap", "local.db"), nil
}
