// Package scope provides the session-scoped key-value store used to carry
// checkout data across stages.
package scope

import (
	"context"
	"time"

	"storefront/internal/redisclient"
)

// Store is the view a single session has of its scope.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend holds the values of every session scope.
type Backend interface {
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope string, keys ...string) error
	Drop(ctx context.Context, scope string) error
}

// Scoped binds a backend to one session id.
type Scoped struct {
	backend Backend
	id      string
}

// New returns the Store of session id on backend.
func New(backend Backend, id string) *Scoped {
	return &Scoped{backend: backend, id: id}
}

func (s *Scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.id, key)
}

func (s *Scoped) Set(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.id, key, value)
}

func (s *Scoped) Remove(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, s.id, key)
}

// Drop erases the whole scope.
func (s *Scoped) Drop(ctx context.Context) error {
	return s.backend.Drop(ctx, s.id)
}

// Redis stores scopes in Redis. Every read or write of a key restarts its
// TTL.
type Redis struct {
	client *redisclient.Client
	ttl    time.Duration
}

// NewRedis returns a Redis backend whose keys expire after ttl.
func NewRedis(client *redisclient.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Get(ctx context.Context, scope, key string) (string, bool, error) {
	return r.client.GetScoped(ctx, scope, key, r.ttl)
}

func (r *Redis) Set(ctx context.Context, scope, key, value string) error {
	return r.client.SetScoped(ctx, scope, key, value, r.ttl)
}

func (r *Redis) Delete(ctx context.Context, scope string, keys ...string) error {
	return r.client.DeleteScoped(ctx, scope, keys...)
}

func (r *Redis) Drop(ctx context.Context, scope string) error {
	return r.client.DropScope(ctx, scope)
}
