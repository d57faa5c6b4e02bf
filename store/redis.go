package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "secureauth"

// Redis defines a public type used by secureauth APIs.
//
// Redis instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// Keys are flat strings under "<prefix>:", one per session field. Values carry
// no TTL: lifetime is governed by the refresh protocol and Clear, the same way
// the browser client treats its storage.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis describes the newredis operation and its observable behavior.
//
// NewRedis may return an error when input validation, dependency calls, or security checks fail.
func NewRedis(client *redis.Client, prefix string) (*Redis, error) {
	if client == nil {
		return nil, errors.New("nil redis client")
	}
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Redis{client: client, prefix: prefix}, nil
}

func (r *Redis) key(name string) string {
	return r.prefix + ":" + name
}

func (r *Redis) get(ctx context.Context, name string) (string, error) {
	v, err := r.client.Get(ctx, r.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", name, err)
	}
	return v, nil
}

func (r *Redis) set(ctx context.Context, name, value string) error {
	if err := r.client.Set(ctx, r.key(name), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", name, err)
	}
	return nil
}

func (r *Redis) SetTokens(ctx context.Context, access, refresh, session string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key(KeyAccessToken), access, 0)
	pipe.Set(ctx, r.key(KeyRefreshToken), refresh, 0)
	if session != "" {
		pipe.Set(ctx, r.key(KeySessionToken), session, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set tokens: %w", err)
	}
	return nil
}

func (r *Redis) SetAccessToken(ctx context.Context, access string) error {
	return r.set(ctx, KeyAccessToken, access)
}

func (r *Redis) AccessToken(ctx context.Context) (string, error) {
	return r.get(ctx, KeyAccessToken)
}

func (r *Redis) RefreshToken(ctx context.Context) (string, error) {
	return r.get(ctx, KeyRefreshToken)
}

func (r *Redis) SessionToken(ctx context.Context) (string, error) {
	return r.get(ctx, KeySessionToken)
}

func (r *Redis) SetProfile(ctx context.Context, raw []byte) error {
	return r.set(ctx, KeyProfile, string(raw))
}

func (r *Redis) Profile(ctx context.Context) ([]byte, error) {
	v, err := r.get(ctx, KeyProfile)
	if err != nil {
		return nil, err
	}
	if v == "" {
		return nil, nil
	}
	return []byte(v), nil
}

func (r *Redis) SetUsername(ctx context.Context, username string) error {
	return r.set(ctx, KeyUsername, username)
}

func (r *Redis) Username(ctx context.Context) (string, error) {
	return r.get(ctx, KeyUsername)
}

func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, r.prefix+":*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
