package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	Client *redis.Client
	Prefix string
}

func NewRedisStore(addr string) *RedisStore {
	return &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Prefix: "backoffice:session:",
	}
}

func (st *RedisStore) key(id string) string { return st.Prefix + id }

func (st *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	raw, err := st.Client.Get(ctx, st.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s := &Session{}
	if err := json.Unmarshal(raw, s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	s.ID = id
	return s, nil
}

func (st *RedisStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return st.Client.Set(ctx, st.key(s.ID), data, ttl).Err()
}

func (st *RedisStore) Delete(ctx context.Context, id string) error {
	return st.Client.Del(ctx, st.key(id)).Err()
}

func (st *RedisStore) Ping(ctx context.Context) error {
	return st.Client.Ping(ctx).Err()
}

func (st *RedisStore) Close() error {
	return st.Client.Close()
}
