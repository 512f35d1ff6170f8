// Package cache provides the short-lived key/value state shared between
// replicas: the status cache, per-order verification locks and webhook
// replay protection. Redis backs it in production; Memory serves single
// instance deployments and tests.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/fatflowers/styler/pkg/tool"
)

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	// DelIfEquals removes key only while it still holds value.
	DelIfEquals(ctx context.Context, key string, value []byte) error
}

// TryLock takes a best-effort lock on key for at most ttl. The returned
// unlock releases it only if this caller still owns it.
func TryLock(ctx context.Context, s Store, key string, ttl time.Duration) (unlock func(), ok bool, err error) {
	token := []byte(tool.GenerateUUIDV7())
	ok, err = s.SetNX(ctx, key, token, ttl)
	if err != nil || !ok {
		return func() {}, ok, err
	}
	return func() {
		// the request context may already be cancelled
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = s.DelIfEquals(ctx, key, token)
	}, true, nil
}

// FirstSeen records key and reports whether this is its first occurrence
// within ttl.
func FirstSeen(ctx context.Context, s Store, key string, ttl time.Duration) (bool, error) {
	return s.SetNX(ctx, key, []byte("1"), ttl)
}
