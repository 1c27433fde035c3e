package cli

import (
	"context"
	"time"

	"uap-profile-service/internal/app"
	"uap-profile-service/internal/config"
	"uap-profile-service/internal/infra/memory"
	"uap-profile-service/internal/infra/sqlite"
	"uap-profile-service/internal/logger"
)

// localService is a ProfileService whose local store is the SQLite file of
// this machine, so paths chosen in the terminal survive between runs.
type localService struct {
	*app.ProfileService
	log      *logger.Logger
	db       *sqlite.DB
	backends *backends
}

func openLocalService(ctx context.Context, configPath string) (*localService, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, err
	}
	path, err := localDBPath(cfg)
	if err != nil {
		return nil, err
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	b, err := openBackends(ctx, cfg, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	content := memory.NewContentRepository(b.contentLoader(), config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute), log)
	service := app.NewProfileService(memory.NewSessionStore(), content, db, b.progressBackend(), memory.NewBus(), log, gatewayOptions(cfg)...)
	return &localService{ProfileService: service, log: log, db: db, backends: b}, nil
}

func (s *localService) Close() {
	s.backends.Close()
	_ = s.db.Close()
	s.log.Sync()
}
