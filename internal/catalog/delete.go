// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Delete removes a node permanently. For a category the whole subtree
// goes with it, traversed breadth-first one level at a time. Remaining
// ancestors lose the subtree's offer count and price total, and every
// removed id has its history purged. A deleted node leaves no trace.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (DeleteResult, error) {
	var res DeleteResult
	err := s.store.InTx(ctx, func(tx Tx) error {
		target, err := tx.Nodes().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", id, err)
		}
		if target == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		removed := []uuid.UUID{id}
		var count, total int64
		if target.IsCategory() {
			queue := []uuid.UUID{id}
			for len(queue) > 0 {
				level, err := tx.Nodes().WithParentIn(ctx, queue)
				if err != nil {
					return fmt.Errorf("collect children: %w", err)
				}
				queue = queue[:0]
				for _, child := range level {
					removed = append(removed, child.ID)
					if child.IsCategory() {
						queue = append(queue, child.ID)
					} else {
						count++
						if child.Price != nil {
							total += *child.Price
						}
					}
					if err := tx.Nodes().Delete(ctx, child.ID); err != nil {
						return fmt.Errorf("delete %s: %w", child.ID, err)
					}
				}
			}
		} else {
			count = 1
			if target.Price != nil {
				total = *target.Price
			}
		}

		e := &engine{nodes: tx.Nodes()}
		ancestors, err := e.removeSubtreeContribution(ctx, target.ParentID, count, total)
		if err != nil {
			return err
		}

		if err := tx.History().DeleteAll(ctx, removed); err != nil {
			return fmt.Errorf("purge history: %w", err)
		}
		if err := tx.Nodes().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}

		res = DeleteResult{
			RemovedIDs: removed,
			Ancestors:  ancestors,
			OfferCount: count,
			TotalPrice: total,
		}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return res, nil
}
