package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore создаёт хранилище сессий поверх Redis из URL
// (например, redis://:pass@host:6379/0). Если prefix пустой — используется "session:".
func NewRedisStore(redisURL, prefix string) (Store, error) {
	if prefix == "" {
		prefix = "session:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisStore{rdb: rdb, prefix: prefix}, nil
}

func (s *redisStore) key(sid string) string { return s.prefix + sid }

// Храним как Redis Hash с полями: at (access), rt (refresh).
func (s *redisStore) Get(ctx context.Context, sid string) (Tokens, error) {
	m, err := s.rdb.HGetAll(ctx, s.key(sid)).Result()
	if err != nil {
		return Tokens{}, err
	}

	if len(m) == 0 {
		return Tokens{}, ErrNoSession
	}

	return Tokens{
		AccessToken:  m["at"],
		RefreshToken: m["rt"],
	}, nil
}

func (s *redisStore) Save(ctx context.Context, sid string, tokens Tokens, ttl time.Duration) error {
	kv := map[string]string{
		"at": tokens.AccessToken,
		"rt": tokens.RefreshToken,
	}

	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.key(sid), kv)
	if ttl > 0 {
		pipe.Expire(ctx, s.key(sid), ttl)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (s *redisStore) Clear(ctx context.Context, sid string) error {
	return s.rdb.Del(ctx, s.key(sid)).Err()
}

func (s *redisStore) Close() error { return s.rdb.Close() }
