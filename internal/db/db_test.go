package db

import (
	"path/filepath"
	"testing"

	"github.com/shinyyama/checkin-points/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	base := config.Config{DBUser: "app", DBPassword: "pw", DBName: "checkin", DBPort: "3306"}
	tests := []struct {
		name     string
		host     string
		instance string
		wantAddr string
	}{
		{"host and port", "db.internal", "", "tcp(db.internal:3306)"},
		{"wrapped tcp", "tcp(10.0.0.1:3307)", "", "tcp(10.0.0.1:3307)"},
		{"socket path", "/var/run/mysqld.sock", "", "unix(/var/run/mysqld.sock)"},
		{"cloud sql", "ignored", "proj:region:inst", "unix(/cloudsql/proj:region:inst)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			cfg.DBHost = tt.host
			cfg.InstanceConnectionName = tt.instance
			want := "app:pw@" + tt.wantAddr + "/checkin?charset=utf8mb4&parseTime=True&loc=Local"
			assert.Equal(t, want, BuildDSN(&cfg))
		})
	}
}

func TestConnectRejectsIncompleteConfig(t *testing.T) {
	_, err := Connect(&config.Config{StoreDriver: DriverMySQL})
	assert.Error(t, err)
	_, err = Connect(&config.Config{StoreDriver: DriverPostgres})
	assert.Error(t, err)
	_, err = Connect(&config.Config{StoreDriver: "oracle"})
	assert.Error(t, err)
}

func TestConnectSQLiteAndMigrate(t *testing.T) {
	conn, err := Connect(&config.Config{StoreDriver: DriverSQLite, DatabaseURL: "file:dbtest?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, Migrate(conn))
	for _, table := range []string{"members", "teams", "events", "checkin_records"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

func TestOpenStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	s, err := OpenStore(&config.Config{StoreDriver: DriverFile, DataFile: path})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = OpenStore(&config.Config{StoreDriver: DriverSQLite, DatabaseURL: "file:openstore?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = OpenStore(&config.Config{StoreDriver: DriverPostgres})
	assert.Error(t, err)
}
