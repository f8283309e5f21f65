// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"github.com/google/uuid"

	"megamart/internal/models"
)

// UpsertItem is one already-validated import command. The transport
// layer is responsible for syntax (UUID shape, date format, field
// presence); the service re-checks the semantic rules so it stays safe
// to call from any caller.
type UpsertItem struct {
	ID       uuid.UUID
	Name     string
	Kind     models.Kind
	ParentID *uuid.UUID
	Price    *int64
}

// DeleteResult reports what a delete removed. Ancestors lists the
// remaining chain above the deleted node: their display prices changed
// even though their timestamps did not, so callers holding caches must
// invalidate them too.
type DeleteResult struct {
	RemovedIDs []uuid.UUID
	Ancestors  []uuid.UUID
	OfferCount int64
	TotalPrice int64
}

// Service exposes the catalog operations to the transport layer. Every
// mutating operation runs inside a single storage transaction.
type Service struct {
	store Txer
}

// NewService creates a catalog service on top of a transactional store.
func NewService(store Txer) *Service {
	return &Service{store: store}
}

// idSet accumulates the "needs a history snapshot" ids across a batch.
type idSet map[uuid.UUID]struct{}

func (s idSet) add(ids ...uuid.UUID) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

func (s idSet) slice() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}
