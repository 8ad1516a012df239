package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// createTestDB creates a test SQLite database connection.
func createTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig()
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	assert.Equal(t, 10*time.Minute, cfg.ConnMaxIdleTime)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "")
		t.Setenv("DB_MAX_IDLE_CONNS", "")
		t.Setenv("DB_CONN_MAX_LIFETIME", "")
		t.Setenv("DB_CONN_MAX_IDLE_TIME", "")

		assert.Equal(t, DefaultPoolConfig(), LoadConfigFromEnv())
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("DB_MAX_OPEN_CONNS", "50")
		t.Setenv("DB_MAX_IDLE_CONNS", "10")
		t.Setenv("DB_CONN_MAX_LIFETIME", "1m")
		t.Setenv("DB_CONN_MAX_IDLE_TIME", "30s")

		cfg := LoadConfigFromEnv()
		assert.Equal(t, 50, cfg.MaxOpenConns)
		assert.Equal(t, 10, cfg.MaxIdleConns)
		assert.Equal(t, time.Minute, cfg.ConnMaxLifetime)
		assert.Equal(t, 30*time.Second, cfg.ConnMaxIdleTime)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{MaxOpenConns: 10, MaxIdleConns: 5}, ""},
		{"idle equals open", Config{MaxOpenConns: 5, MaxIdleConns: 5}, ""},
		{"zero idle", Config{MaxOpenConns: 5}, ""},
		{"zero open", Config{MaxOpenConns: 0, MaxIdleConns: 0}, "DB_MAX_OPEN_CONNS must be positive"},
		{"negative open", Config{MaxOpenConns: -1}, "DB_MAX_OPEN_CONNS must be positive"},
		{"negative idle", Config{MaxOpenConns: 5, MaxIdleConns: -1}, "DB_MAX_IDLE_CONNS must not be negative"},
		{"idle above open", Config{MaxOpenConns: 5, MaxIdleConns: 10}, "exceeds DB_MAX_OPEN_CONNS (5)"},
		{"negative lifetime", Config{MaxOpenConns: 5, ConnMaxLifetime: -time.Second}, "lifetimes must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateReportsEverything(t *testing.T) {
	err := Config{MaxOpenConns: 0, MaxIdleConns: -1, ConnMaxIdleTime: -time.Minute}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_MAX_OPEN_CONNS")
	assert.Contains(t, err.Error(), "DB_MAX_IDLE_CONNS")
	assert.Contains(t, err.Error(), "lifetimes")
}

func TestSetupConnectionPool(t *testing.T) {
	t.Run("applies settings", func(t *testing.T) {
		db := createTestDB(t)

		err := SetupConnectionPool(db, Config{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
		})
		require.NoError(t, err)

		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.Equal(t, 10, sqlDB.Stats().MaxOpenConnections)
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		db := createTestDB(t)

		err := SetupConnectionPool(db, Config{MaxOpenConns: 1, MaxIdleConns: 2})
		assert.Error(t, err)
	})
}
