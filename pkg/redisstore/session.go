package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const maxSessionTxRetries = 5

var (
	ErrSessionExists   = errors.New("session already exists")
	ErrSessionConflict = errors.New("session updated concurrently")
)

func sessionKey(id string) string {
	return fmt.Sprintf("wizard:session:%s", id)
}

func (c *Client) CreateSession(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	ok, err := c.rdb.SetNX(ctx, sessionKey(id), data, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionExists
	}
	return nil
}

func (c *Client) GetSession(ctx context.Context, id string) ([]byte, error) {
	return c.rdb.Get(ctx, sessionKey(id)).Bytes()
}

// UpdateSession applies fn under WATCH so concurrent writers cannot lose each other's
// changes. The key keeps its remaining TTL. fn may be called again after a conflict.
func (c *Client) UpdateSession(ctx context.Context, id string, fn func(current []byte) ([]byte, error)) error {
	key := sessionKey(id)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetArgs(ctx, key, next, redis.SetArgs{KeepTTL: true})
			return nil
		})
		return err
	}

	for range maxSessionTxRetries {
		err := c.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return ErrSessionConflict
}
