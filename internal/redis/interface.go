package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client 包装 redis.UniversalClient，单机/集群共用一套调用方式
type Client interface {
	redis.UniversalClient
}
