package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	apperrors "github.com/yuqie6/trainerhub/internal/errors"
	"github.com/yuqie6/trainerhub/internal/redis"
	"github.com/yuqie6/trainerhub/internal/schema"
)

const (
	xpLogKeyPrefix    = "trainerhub:xplog:"
	xpLogDedupPrefix  = "trainerhub:xplog:dedup:"
	xpLogDedupSeconds = 24 * 60 * 60
)

// appendOnceScript 幂等键与 XADD 在同一脚本内原子执行：键已存在说明此前已追加成功
var appendOnceScript = goredis.NewScript(`
if not redis.call('SET', KEYS[2], '1', 'NX', 'EX', ARGV[4]) then
	return 0
end
redis.call('XADD', KEYS[1], '*', 'ts', ARGV[1], 'delta', ARGV[2], 'reason', ARGV[3])
return 1
`)

// RedisXPLedger 基于 Redis Stream 的经验流水（每个用户一条 stream）
type RedisXPLedger struct {
	client redis.Client
}

// NewRedisXPLedger 创建 Redis 流水
func NewRedisXPLedger(client redis.Client) (*RedisXPLedger, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client 不能为空")
	}
	return &RedisXPLedger{client: client}, nil
}

func xpLogKey(ownerID int64) string {
	return xpLogKeyPrefix + strconv.FormatInt(ownerID, 10)
}

func xpLogDedupKey(ownerID int64, appendKey string) string {
	return xpLogDedupPrefix + strconv.FormatInt(ownerID, 10) + ":" + appendKey
}

// Append 追加一条流水（XADD）。
// 以 entry.AppendKey 去重：客户端超时但服务端已写入时，重试不会产生重复流水
func (l *RedisXPLedger) Append(ctx context.Context, entry *schema.XPLog) error {
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}
	if entry.AppendKey == "" {
		entry.AppendKey = uuid.NewString()
	}

	keys := []string{xpLogKey(entry.OwnerID), xpLogDedupKey(entry.OwnerID, entry.AppendKey)}
	appended, err := appendOnceScript.Run(ctx, l.client, keys,
		entry.Timestamp, entry.Delta, entry.Reason, xpLogDedupSeconds).Int()
	if err != nil {
		return apperrors.Unavailable(err, "写入 Redis 经验流水失败")
	}
	if appended == 0 {
		slog.Debug("经验流水已存在，跳过重复追加", "owner", entry.OwnerID, "append_key", entry.AppendKey)
	}
	return nil
}

// ListByOwner 按写入顺序倒序列出（XREVRANGE）；limit<=0 表示全部
func (l *RedisXPLedger) ListByOwner(ctx context.Context, ownerID int64, limit int) ([]schema.XPLog, error) {
	key := xpLogKey(ownerID)

	var (
		msgs []goredis.XMessage
		err  error
	)
	if limit > 0 {
		msgs, err = l.client.XRevRangeN(ctx, key, "+", "-", int64(limit)).Result()
	} else {
		msgs, err = l.client.XRevRange(ctx, key, "+", "-").Result()
	}
	if err != nil {
		return nil, apperrors.Unavailable(err, "读取 Redis 经验流水失败")
	}

	logs := make([]schema.XPLog, 0, len(msgs))
	for _, msg := range msgs {
		entry, err := parseXPLogMessage(ownerID, msg)
		if err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, nil
}

func parseXPLogMessage(ownerID int64, msg goredis.XMessage) (schema.XPLog, error) {
	entry := schema.XPLog{OwnerID: ownerID}

	ts, err := strconv.ParseInt(fmt.Sprint(msg.Values["ts"]), 10, 64)
	if err != nil {
		return entry, apperrors.Wrapf(err, "解析流水时间失败: id=%s", msg.ID)
	}
	delta, err := strconv.ParseInt(fmt.Sprint(msg.Values["delta"]), 10, 64)
	if err != nil {
		return entry, apperrors.Wrapf(err, "解析流水 delta 失败: id=%s", msg.ID)
	}
	if reason, ok := msg.Values["reason"].(string); ok {
		entry.Reason = reason
	}

	entry.Timestamp = ts
	entry.Delta = delta
	return entry, nil
}
