// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog implements the catalog core: incremental maintenance
// of category price aggregates across ancestor chains, atomic batch
// imports, subtree deletion, and the versioned-history queries. Storage
// is abstracted behind the NodeStore and HistoryStore ports so the same
// logic runs against PostgreSQL in production and an in-memory store in
// tests.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"megamart/internal/models"
)

// NodeStore is the live-state port. Implementations must provide
// read-your-writes semantics within one transaction: ancestor-chain
// walks depend on seeing earlier writes from the same operation.
type NodeStore interface {
	// Get returns the node with the given id, or nil if absent.
	Get(ctx context.Context, id uuid.UUID) (*models.Node, error)
	// Put inserts or fully replaces a node.
	Put(ctx context.Context, n *models.Node) error
	// Delete removes a node. Deleting an absent id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
	// ChildrenOf returns the direct children of a node.
	ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]*models.Node, error)
	// WithParentIn returns every node whose parent is in ids. Used for
	// level-by-level subtree traversal.
	WithParentIn(ctx context.Context, ids []uuid.UUID) ([]*models.Node, error)
}

// HistoryStore is the append-only snapshot port. Records are keyed by
// (id, updated_at); re-appending an existing key replaces the record's
// content rather than failing or duplicating.
type HistoryStore interface {
	// AppendAll stores one snapshot per node at that node's UpdatedAt.
	AppendAll(ctx context.Context, nodes []*models.Node) error
	// DeleteAll purges every record for each of the given ids.
	DeleteAll(ctx context.Context, ids []uuid.UUID) error
	// UpdatedBetween returns records with updated_at in [from, to],
	// inclusive on both ends. Serves the sales (recent changes) query.
	UpdatedBetween(ctx context.Context, from, to time.Time) ([]models.HistoryRecord, error)
	// ForNode returns records for one id with updated_at in [from, to).
	// Serves the per-node statistics query.
	ForNode(ctx context.Context, id uuid.UUID, from, to time.Time) ([]models.HistoryRecord, error)
}

// Tx bundles the two stores for the duration of one transaction.
type Tx interface {
	Nodes() NodeStore
	History() HistoryStore
}

// Txer is the transaction boundary. InTx runs fn atomically: if fn
// returns an error nothing it did is visible afterwards. The storage
// layer is responsible for serializing concurrent transactions that
// touch overlapping ancestor chains.
type Txer interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}
