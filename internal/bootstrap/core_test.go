package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuqie6/trainerhub/internal/pkg/config"
	"github.com/yuqie6/trainerhub/internal/repository"
	"github.com/yuqie6/trainerhub/internal/service"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage.DBPath = ":memory:"
	cfg.Auth.JWTSecret = "test-secret"
	return cfg
}

func TestNewCoreFromConfigSQLLedger(t *testing.T) {
	core, err := NewCoreFromConfig(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })

	assert.Nil(t, core.Redis)
	assert.False(t, core.DB.SafeMode)
	_, isSQL := core.Ledger.(*repository.XPLogRepository)
	assert.True(t, isSQL)

	ctx := context.Background()
	res, err := core.Services.Progression.GainXP(ctx, service.GainXPInput{OwnerID: 1, PokemonID: 25, Delta: 60})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Progress.Level)
	assert.False(t, res.AuditMissing)

	n, err := core.Repos.XPLogs.CountByOwner(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestNewCoreFromConfigRedisLedger(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := testConfig()
	cfg.Ledger.Backend = config.LedgerBackendRedis
	cfg.Ledger.RedisAddr = mr.Addr()

	core, err := NewCoreFromConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })

	require.NotNil(t, core.Redis)
	_, isRedis := core.Ledger.(*repository.RedisXPLedger)
	assert.True(t, isRedis)

	ctx := context.Background()
	_, err = core.Services.Progression.GainXP(ctx, service.GainXPInput{OwnerID: 3, PokemonID: 7, Delta: 5, Reason: "bonus"})
	require.NoError(t, err)

	logs, err := core.Services.Progression.ListLedger(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "bonus", logs[0].Reason)

	// SQL 账本不应被写入
	n, err := core.Repos.XPLogs.CountByOwner(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewCoreFromConfigRejectsBadThresholds(t *testing.T) {
	cfg := testConfig()
	cfg.Progression.LevelThresholds = []int64{10, 5}

	_, err := NewCoreFromConfig(cfg)
	require.Error(t, err)
}

func TestNewCoreFromConfigCustomThresholds(t *testing.T) {
	cfg := testConfig()
	cfg.Progression.LevelThresholds = []int64{0, 10, 20}

	core, err := NewCoreFromConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })

	res, err := core.Services.Progression.GainXP(context.Background(), service.GainXPInput{OwnerID: 1, PokemonID: 1, Delta: 500})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Progress.Level)
}
