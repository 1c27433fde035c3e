package cli

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun/migrate"

	"uap-profile-service/internal/catalog"
	"uap-profile-service/internal/config"
	"uap-profile-service/internal/infra/postgres"
	pgmigrations "uap-profile-service/internal/infra/postgres/migrations"
	redisinfra "uap-profile-service/internal/infra/redis"
	"uap-profile-service/internal/logger"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Log.Mode)
			if err != nil {
				return err
			}
			defer log.Sync()
			return runMigrations(cmd.Context(), cfg, seed, log)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "upsert the built-in question bank and archetype catalog")
	return cmd
}

func runMigrations(ctx context.Context, cfg config.Config, seed bool, log *logger.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	db := postgres.OpenDB(cfg.Postgres.URL)
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		log.Info("no new migrations")
	} else {
		log.Info("migrations applied", "group", group.String())
	}

	if seed {
		if err := postgres.SeedContent(ctx, db, catalog.Builtin()); err != nil {
			return err
		}
		log.Info("built-in content seeded")
		if cfg.Redis.Addr != "" {
			client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			defer client.Close()
			if err := redisinfra.NewContentRepository(client, nil, 0, log).Invalidate(ctx); err != nil {
				log.Warn("catalog cache not invalidated", "error", err)
			}
		}
	}
	return nil
}
