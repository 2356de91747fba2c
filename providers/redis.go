package providers

import (
	"github.com/MichaelAJay/go-typejson/docstore"
	redisstore "github.com/MichaelAJay/go-typejson/docstore/redis"
)

// NewRedisStore creates a document store on the Redis server described by
// cfg, or by the REDIS_* environment variables when cfg is nil
func NewRedisStore(cfg *redisstore.Config, opts ...docstore.Option) (docstore.Store, error) {
	return redisstore.NewFromConfig(cfg, opts...)
}
