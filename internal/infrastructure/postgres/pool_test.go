package postgres

import (
	"testing"
	"time"

	"github.com/jhoicas/Cartera-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfig(t *testing.T) {
	cfg := config.DBConfig{
		Host: "db", Port: 5432, User: "app", Password: "secreto", DBName: "cartera", SSLMode: "disable",
		MaxConns: 10, MinConns: 3, LockTimeout: 1500 * time.Millisecond,
	}

	pc, err := poolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5432), pc.ConnConfig.Port)
	assert.Equal(t, "cartera", pc.ConnConfig.Database)
	assert.Equal(t, int32(10), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, "1500ms", pc.ConnConfig.RuntimeParams["lock_timeout"])
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_DatabaseURLAndDefaults(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://app@pg.internal:6543/ledger?sslmode=disable"})
	require.NoError(t, err)
	assert.Equal(t, "pg.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(6543), pc.ConnConfig.Port)
	assert.Equal(t, int32(defaultMaxConns), pc.MaxConns)
	_, hasLockTimeout := pc.ConnConfig.RuntimeParams["lock_timeout"]
	assert.False(t, hasLockTimeout)
}

func TestPoolConfig_InvalidDSN(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://%zz"})
	assert.Error(t, err)
}
