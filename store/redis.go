package store

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "doctrack:"

// appendUnique pushes ARGV[1] onto the list at KEYS[1] unless it is already a
// member.
var appendUnique = redis.NewScript(`
if redis.call('LPOS', KEYS[1], ARGV[1]) == false then
	return redis.call('RPUSH', KEYS[1], ARGV[1])
end
return 0
`)

// RedisBackend stores records as plain string keys and indexes as lists.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

type RedisOption func(*RedisBackend)

// WithPrefix namespaces every key. Tests use it to isolate runs.
func WithPrefix(prefix string) RedisOption {
	return func(r *RedisBackend) { r.prefix = prefix }
}

func NewRedisBackend(client *redis.Client, opts ...RedisOption) *RedisBackend {
	r := &RedisBackend{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *RedisBackend) recordKey(entity, id string) string {
	return r.prefix + entity + ":" + id
}

func (r *RedisBackend) indexKey(index string) string {
	return r.prefix + "index:" + index
}

func (r *RedisBackend) Exists(ctx context.Context, entity, id string) (bool, error) {
	n, err := r.client.Exists(ctx, r.recordKey(entity, id)).Result()
	return n > 0, err
}

func (r *RedisBackend) Insert(ctx context.Context, entity, id string, value []byte) error {
	ok, err := r.client.SetNX(ctx, r.recordKey(entity, id), value, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

func (r *RedisBackend) Get(ctx context.Context, entity, id string) ([]byte, error) {
	value, err := r.client.Get(ctx, r.recordKey(entity, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return value, err
}

func (r *RedisBackend) Update(ctx context.Context, entity, id string, value []byte) error {
	ok, err := r.client.SetXX(ctx, r.recordKey(entity, id), value, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *RedisBackend) Remove(ctx context.Context, entity, id string) (bool, error) {
	n, err := r.client.Del(ctx, r.recordKey(entity, id)).Result()
	return n > 0, err
}

func (r *RedisBackend) IndexAppend(ctx context.Context, index, id string) error {
	return appendUnique.Run(ctx, r.client, []string{r.indexKey(index)}, id).Err()
}

func (r *RedisBackend) IndexRemove(ctx context.Context, index, id string) error {
	return r.client.LRem(ctx, r.indexKey(index), 0, id).Err()
}

func (r *RedisBackend) IndexList(ctx context.Context, index string) ([]string, error) {
	return r.client.LRange(ctx, r.indexKey(index), 0, -1).Result()
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
