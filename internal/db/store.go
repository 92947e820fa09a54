package db

import (
	"fmt"
	"strings"

	"github.com/shinyyama/checkin-points/internal/config"
	"github.com/shinyyama/checkin-points/internal/repository"
	log "github.com/sirupsen/logrus"
)

// OpenStore builds the record store selected by STORE_DRIVER. SQL backends are
// migrated before use.
func OpenStore(cfg *config.Config) (repository.Store, error) {
	if cfg.StoreDriver == "" || strings.EqualFold(cfg.StoreDriver, DriverFile) {
		s, err := repository.NewFileStore(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		log.WithField("path", cfg.DataFile).Info("using file store")
		return s, nil
	}
	conn, err := Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.StoreDriver, err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.WithField("driver", cfg.StoreDriver).Info("using database store")
	return repository.NewGormStore(conn), nil
}
