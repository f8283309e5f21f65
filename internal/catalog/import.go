// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"megamart/internal/models"
)

// ApplyBatch applies one import batch atomically at the given timestamp.
// Either every item lands or none does. On success it returns the set of
// node ids whose state changed (items plus every stamped ancestor),
// which is exactly the set of ids whose cached views are now stale.
//
// Execution is two-phase: first all node records are created or renamed,
// then prices, timestamps, and parents are applied. The first phase
// makes batch-internal parent references work in any item order; the
// second keeps the per-item sequence the aggregate bookkeeping needs
// (reprice, stamp the old chain, reparent, stamp the new chain).
func (s *Service) ApplyBatch(ctx context.Context, items []UpsertItem, ts time.Time) ([]uuid.UUID, error) {
	touched := make(idSet)
	err := s.store.InTx(ctx, func(tx Tx) error {
		if err := validateBatch(ctx, tx.Nodes(), items); err != nil {
			return err
		}

		e := &engine{nodes: tx.Nodes()}
		for _, item := range items {
			if _, err := e.createOrUpdate(ctx, item); err != nil {
				return err
			}
		}

		for _, item := range items {
			// Re-read instead of holding the phase-one value: an earlier
			// item's ancestor walk may have rewritten this node's
			// aggregates, and a stale Put would wipe them.
			n, err := tx.Nodes().Get(ctx, item.ID)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", item.ID, err)
			}
			if n == nil {
				return fmt.Errorf("lookup %s: node vanished mid-batch", item.ID)
			}
			if item.Price != nil {
				if err := e.reprice(ctx, n, *item.Price); err != nil {
					return err
				}
			}
			ids, err := e.advanceTime(ctx, n, ts)
			if err != nil {
				return err
			}
			touched.add(ids...)
			if err := e.reparent(ctx, n, item.ParentID); err != nil {
				return err
			}
			ids, err = e.advanceTime(ctx, n, ts)
			if err != nil {
				return err
			}
			touched.add(ids...)
			touched.add(n.ID)
		}

		return snapshotAll(ctx, tx, touched.slice())
	})
	if err != nil {
		return nil, err
	}
	return touched.slice(), nil
}

// snapshotAll appends one history record per touched id, reading the
// final in-transaction state so each consolidated snapshot reflects the
// whole batch.
func snapshotAll(ctx context.Context, tx Tx, ids []uuid.UUID) error {
	nodes := make([]*models.Node, 0, len(ids))
	for _, id := range ids {
		n, err := tx.Nodes().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("snapshot read %s: %w", id, err)
		}
		if n == nil {
			// Unreachable: touched ids come from nodes written in this
			// transaction and nothing deletes during an import.
			return fmt.Errorf("snapshot read %s: node vanished mid-batch", id)
		}
		nodes = append(nodes, n)
	}
	if err := tx.History().AppendAll(ctx, nodes); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// validateBatch enforces the batch rules before anything is mutated:
// unique ids, well-formed kinds and prices, non-empty names, no kind
// switch on existing ids, and parents that resolve to a category either
// already stored or created by this same batch. The one rule that cannot
// be checked statically, reparenting under the node's own subtree, is
// caught by the engine mid-batch and rolls the transaction back.
func validateBatch(ctx context.Context, nodes NodeStore, items []UpsertItem) error {
	seen := make(map[uuid.UUID]models.Kind, len(items))
	for _, item := range items {
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: duplicate id %s in batch", ErrValidation, item.ID)
		}
		seen[item.ID] = item.Kind
	}

	for _, item := range items {
		if !item.Kind.Valid() {
			return fmt.Errorf("%w: unknown kind %q", ErrValidation, item.Kind)
		}
		if item.Name == "" {
			return fmt.Errorf("%w: node %s has empty name", ErrValidation, item.ID)
		}
		switch item.Kind {
		case models.KindCategory:
			if item.Price != nil {
				return fmt.Errorf("%w: category %s must not carry a price", ErrValidation, item.ID)
			}
		case models.KindOffer:
			if item.Price == nil || *item.Price < 0 {
				return fmt.Errorf("%w: offer %s needs a non-negative price", ErrValidation, item.ID)
			}
		}

		existing, err := nodes.Get(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", item.ID, err)
		}
		if existing != nil && existing.Kind != item.Kind {
			return fmt.Errorf("%w: node %s cannot switch kind %s to %s", ErrValidation, item.ID, existing.Kind, item.Kind)
		}

		if item.ParentID == nil {
			continue
		}
		pid := *item.ParentID
		if pid == item.ID {
			return fmt.Errorf("%w: node %s cannot be its own parent", ErrValidation, item.ID)
		}
		if kind, inBatch := seen[pid]; inBatch {
			if kind != models.KindCategory {
				return fmt.Errorf("%w: parent %s of %s is not a category", ErrValidation, pid, item.ID)
			}
			continue
		}
		parent, err := nodes.Get(ctx, pid)
		if err != nil {
			return fmt.Errorf("lookup parent %s: %w", pid, err)
		}
		if parent == nil {
			return fmt.Errorf("%w: parent %s of %s does not exist", ErrValidation, pid, item.ID)
		}
		if !parent.IsCategory() {
			return fmt.Errorf("%w: parent %s of %s is not a category", ErrValidation, pid, item.ID)
		}
	}
	return nil
}
