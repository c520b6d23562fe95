package lock

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis implements Lock with SET NX and per-hold tokens, so a lock that
// expired and was re-acquired elsewhere cannot be released by the old holder.
type Redis struct {
	client *redis.Client
	prefix string

	mu     sync.Mutex
	tokens map[string]string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		tokens: make(map[string]string),
	}
}

func token() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

func (r *Redis) Acquire(ctx context.Context, key string, ttl time.Duration) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		ok, err := r.TryAcquire(ctx, key, ttl)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Redis) TryAcquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	tok := token()
	ok, err := r.client.SetNX(ctx, r.prefix+key, tok, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("lock %s: %w", key, err)
	}
	if ok {
		r.mu.Lock()
		r.tokens[key] = tok
		r.mu.Unlock()
	}
	return ok, nil
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

func (r *Redis) Release(ctx context.Context, key string) error {
	r.mu.Lock()
	tok, ok := r.tokens[key]
	delete(r.tokens, key)
	r.mu.Unlock()
	if !ok {
		return nil
	}

	if err := releaseScript.Run(ctx, r.client, []string{r.prefix + key}, tok).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("unlock %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
