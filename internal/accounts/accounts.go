// Package accounts remembers rider tokens by mobile number so a later run
// can log straight back in.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lukman83/martdash/internal/models"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when no tokens are stored for a mobile number.
var ErrNotFound = errors.New("account not found")

// Store maps mobile numbers to token pairs.
type Store interface {
	Get(ctx context.Context, mobile string) (models.AuthSession, error)
	Save(ctx context.Context, session models.AuthSession) error
	Delete(ctx context.Context, mobile string) error
	List(ctx context.Context) ([]models.AuthSession, error)
	Close() error
}

// Open picks a backend: "redis://..." connects to Redis, "file:<path>" or a
// bare path uses the JSON file store.
func Open(ctx context.Context, location string) (Store, error) {
	if strings.HasPrefix(location, "redis://") || strings.HasPrefix(location, "rediss://") {
		opts, err := redis.ParseURL(location)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedisStore(rdb), nil
	}
	return NewFileStore(strings.TrimPrefix(location, "file:")), nil
}
