// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// node.go provides a Valkey-backed subtree-view cache (L2). Rendering a
// node's subtree walks the whole tree below it, so the serialized JSON
// is kept in Valkey and dropped for exactly the ids an import or delete
// touched.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// nodeKeyPrefix is the Valkey key prefix for cached subtree views.
	nodeKeyPrefix = "node:"

	// DefaultNodeTTL bounds staleness if an invalidation is ever missed.
	DefaultNodeTTL = 5 * time.Minute
)

// NodeCache stores rendered subtree JSON keyed by node id.
type NodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewNodeCache creates a node cache backed by the given Valkey client.
func NewNodeCache(client *redis.Client, ttl time.Duration) *NodeCache {
	if ttl == 0 {
		ttl = DefaultNodeTTL
	}
	return &NodeCache{client: client, ttl: ttl}
}

// Get retrieves the cached subtree JSON for a node. Returns false on miss.
func (nc *NodeCache) Get(ctx context.Context, id uuid.UUID) ([]byte, bool) {
	if nc == nil {
		return nil, false
	}
	val, err := nc.client.Get(ctx, nodeKeyPrefix+id.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("node cache get error", "id", id, "error", err)
		return nil, false
	}
	slog.Debug("node cache hit", "id", id)
	return val, true
}

// Set stores the rendered subtree JSON with the configured TTL.
func (nc *NodeCache) Set(ctx context.Context, id uuid.UUID, body []byte) {
	if nc == nil {
		return
	}
	if err := nc.client.Set(ctx, nodeKeyPrefix+id.String(), body, nc.ttl).Err(); err != nil {
		slog.Warn("node cache set error", "id", id, "error", err)
	}
}

// Invalidate drops the cached views for the given ids. Callers pass the
// touched set of an import, or the removed ids plus remaining ancestors
// of a delete: the exact keys whose rendered view went stale.
func (nc *NodeCache) Invalidate(ctx context.Context, ids ...uuid.UUID) {
	if nc == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = nodeKeyPrefix + id.String()
	}
	if err := nc.client.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("node cache invalidate error", "error", err)
	}
	slog.Debug("node cache invalidated", "count", len(keys))
}
