package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 4, cfg.WorkerPoolSize)
	assert.False(t, cfg.CacheEnabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("WORKER_POOL_SIZE", "8")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, 8, cfg.WorkerPoolSize)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	cases := []Config{
		{StoreBackend: "cassandra", WorkerPoolSize: 4},
		{StoreBackend: BackendSQLite, SQLitePath: "", WorkerPoolSize: 4},
		{StoreBackend: BackendMemory, WorkerPoolSize: 0},
		{StoreBackend: BackendMemory, WorkerPoolSize: 4, RateLimitPerMinute: -1},
		{StoreBackend: BackendPostgres, Environment: "production", WorkerPoolSize: 4},
	}
	for i, cfg := range cases {
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
}
