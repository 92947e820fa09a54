package config

import (
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	Port      string `env:"PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // text | json

	// StoreDriver selects the record store: file, mysql, postgres or sqlite.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"file"`
	DataFile    string `env:"DATA_FILE" envDefault:"data/db.json"`

	DBUser                 string `env:"DB_USER"`
	DBPassword             string `env:"DB_PASSWORD"`
	DBHost                 string `env:"DB_HOST"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`
	// DatabaseURL is the DSN for postgres, or the file path for sqlite.
	DatabaseURL string `env:"DATABASE_URL"`

	SecretKey     string        `env:"SECRET_KEY" envDefault:"change-me-in-production"`
	AdminUsername string        `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string        `env:"ADMIN_PASSWORD" envDefault:"admin123"`
	AdminName     string        `env:"ADMIN_NAME" envDefault:"Administrator"`
	Users         []string      `env:"USERS" envSeparator:","` // name:password pairs with role user
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
