package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/schema"
	"github.com/yuqie6/trainerhub/internal/testutil"
)

func TestNewRedisXPLedgerRequiresClient(t *testing.T) {
	_, err := NewRedisXPLedger(nil)
	assert.Error(t, err)
}

func TestRedisXPLedgerAppendAndList(t *testing.T) {
	client, _ := testutil.OpenTestRedis(t)
	ledger, err := NewRedisXPLedger(client)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, ledger.Append(ctx, &schema.XPLog{OwnerID: 1, Timestamp: 1000, Delta: 10, Reason: "XP for 1"}))
	require.NoError(t, ledger.Append(ctx, &schema.XPLog{OwnerID: 1, Timestamp: 2000, Delta: -3, Reason: "penalty"}))
	require.NoError(t, ledger.Append(ctx, &schema.XPLog{OwnerID: 2, Timestamp: 3000, Delta: 7, Reason: "XP for 2"}))

	logs, err := ledger.ListByOwner(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "penalty", logs[0].Reason)
	assert.Equal(t, int64(-3), logs[0].Delta)
	assert.Equal(t, int64(2000), logs[0].Timestamp)
	assert.Equal(t, int64(1), logs[0].OwnerID)
	assert.Equal(t, "XP for 1", logs[1].Reason)

	limited, err := ledger.ListByOwner(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "penalty", limited[0].Reason)

	empty, err := ledger.ListByOwner(ctx, 42, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRedisXPLedgerUnavailable(t *testing.T) {
	client, mr := testutil.OpenTestRedis(t)
	ledger, err := NewRedisXPLedger(client)
	require.NoError(t, err)

	mr.Close()

	err = ledger.Append(context.Background(), &schema.XPLog{OwnerID: 1, Delta: 1, Reason: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestRedisXPLedgerAppendIsIdempotentPerKey(t *testing.T) {
	client, _ := testutil.OpenTestRedis(t)
	ledger, err := NewRedisXPLedger(client)
	require.NoError(t, err)
	ctx := context.Background()

	entry := &schema.XPLog{OwnerID: 5, Timestamp: 1000, Delta: 10, Reason: "XP for 25", AppendKey: "gain-1"}
	require.NoError(t, ledger.Append(ctx, entry))
	// 模拟超时后的重试
	require.NoError(t, ledger.Append(ctx, entry))

	logs, err := ledger.ListByOwner(ctx, 5, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, int64(10), logs[0].Delta)

	// 不同幂等键正常追加；未设置时自动生成
	require.NoError(t, ledger.Append(ctx, &schema.XPLog{OwnerID: 5, Timestamp: 2000, Delta: 3, Reason: "bonus", AppendKey: "gain-2"}))
	auto := &schema.XPLog{OwnerID: 5, Timestamp: 3000, Delta: 1, Reason: "auto"}
	require.NoError(t, ledger.Append(ctx, auto))
	assert.NotEmpty(t, auto.AppendKey)

	logs, err = ledger.ListByOwner(ctx, 5, 0)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, "auto", logs[0].Reason)
}
