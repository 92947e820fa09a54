package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/shinyyama/checkin-points/internal/config"
	"github.com/shinyyama/checkin-points/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverFile     = "file"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func BuildDSN(cfg *config.Config) string {
	addr := cfg.DBHost

	// Prefer Cloud SQL unix socket when INSTANCE_CONNECTION_NAME is provided.
	if cfg.InstanceConnectionName != "" {
		addr = fmt.Sprintf("unix(/cloudsql/%s)", cfg.InstanceConnectionName)
	} else if strings.HasPrefix(cfg.DBHost, "tcp(") || strings.HasPrefix(cfg.DBHost, "unix(") {
		// already wrapped
	} else if strings.HasPrefix(cfg.DBHost, "/") {
		addr = fmt.Sprintf("unix(%s)", cfg.DBHost)
	} else {
		addr = fmt.Sprintf("tcp(%s:%s)", cfg.DBHost, cfg.DBPort)
	}

	return fmt.Sprintf("%s:%s@%s/%s?charset=utf8mb4&parseTime=True&loc=Local", cfg.DBUser, cfg.DBPassword, addr, cfg.DBName)
}

func dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.StoreDriver) {
	case DriverMySQL:
		if cfg.DBUser == "" || cfg.DBName == "" || (cfg.DBHost == "" && cfg.InstanceConnectionName == "") {
			return nil, fmt.Errorf("mysql requires DB_USER, DB_NAME and DB_HOST or INSTANCE_CONNECTION_NAME")
		}
		return mysql.Open(BuildDSN(cfg)), nil
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres requires DATABASE_URL")
		}
		return postgres.Open(cfg.DatabaseURL), nil
	case DriverSQLite:
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = "file:checkin.db?_foreign_keys=on"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.StoreDriver)
	}
}

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dial, err := dialector(cfg)
	if err != nil {
		return nil, err
	}
	gcfg := &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(dial, gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	if strings.EqualFold(cfg.StoreDriver, DriverSQLite) {
		// a single connection keeps in-memory databases shared and avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
	}

	return db, nil
}

// Migrate creates or updates the tables backing the record store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Member{}, &model.Team{}, &model.Event{}, &model.CheckInRecord{})
}
