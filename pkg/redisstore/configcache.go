package redisstore

import (
	"context"
	"fmt"
	"time"
)

const cacheWriteAttempts = 3

func configKey(id string) string {
	return fmt.Sprintf("wizard:config:%s", id)
}

// SetConfig caches an exported configuration document.
func (c *Client) SetConfig(ctx context.Context, id string, data []byte, ttl time.Duration) error {
	return retry(ctx, cacheWriteAttempts, func() error {
		return c.rdb.Set(ctx, configKey(id), data, ttl).Err()
	})
}

func (c *Client) GetConfig(ctx context.Context, id string) ([]byte, error) {
	return c.rdb.Get(ctx, configKey(id)).Bytes()
}
