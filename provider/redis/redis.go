// Package redis stores ProviderCache entries in Redis, so memoized results
// are shared between processes.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	pr "github.com/unkn0wn-root/memoize/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

// Redis is a provider.Provider over a go-redis client. Cost is not
// meaningful to Redis; MaxEntryBytes bounds what a single result may
// occupy instead.
type Redis struct {
	rdb         goredis.UniversalClient
	maxEntry    int
	closeClient bool
}

var _ pr.Provider = (*Redis)(nil)

type Config struct {
	Client goredis.UniversalClient
	// MaxEntryBytes rejects larger encoded results (Set reports ok=false and
	// the memoizer keeps working without caching them). 0 = unlimited.
	MaxEntryBytes int
	CloseClient   bool // set true only if this provider exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, maxEntry: cfg.MaxEntryBytes, closeClient: cfg.CloseClient}, nil
}

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return b, true, nil
}

// Set writes with EX ttl; ttl<=0 stores without expiry.
func (p *Redis) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if p.maxEntry > 0 && len(value) > p.maxEntry {
		return false, nil
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := p.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

// Del uses UNLINK: failed results can be large and are removed off the
// request path anyway.
func (p *Redis) Del(ctx context.Context, key string) error {
	return p.rdb.Unlink(ctx, key).Err()
}

// Close releases the client only when this provider owns it.
func (p *Redis) Close(context.Context) error {
	if !p.closeClient {
		return nil
	}
	if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
		return err
	}
	return nil
}
