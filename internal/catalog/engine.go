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

// engine maintains ancestor aggregates for one transaction. Every chain
// walk resolves parents through the node store, so it sees writes made
// earlier in the same transaction. Cycles cannot occur: reparent rejects
// any target inside the node's own subtree before mutating anything.
type engine struct {
	nodes NodeStore
}

// walkAncestors applies mutate to every node on the chain starting at
// from and ending at the first unresolved parent (the root's parent).
// Each mutated node is written back immediately. Returns the visited ids.
func (e *engine) walkAncestors(ctx context.Context, from *uuid.UUID, mutate func(n *models.Node)) ([]uuid.UUID, error) {
	var visited []uuid.UUID
	cur := from
	for cur != nil {
		n, err := e.nodes.Get(ctx, *cur)
		if err != nil {
			return nil, fmt.Errorf("resolve ancestor %s: %w", cur, err)
		}
		if n == nil {
			break
		}
		mutate(n)
		if err := e.nodes.Put(ctx, n); err != nil {
			return nil, fmt.Errorf("store ancestor %s: %w", n.ID, err)
		}
		visited = append(visited, n.ID)
		cur = n.ParentID
	}
	return visited, nil
}

// createOrUpdate applies the name/kind/price part of an upsert. A new
// node is stored unattached (nil parent); the caller wires it into the
// tree via reparent so old- and new-chain bookkeeping stays in one
// place. For an existing node only the name is touched here: price goes
// through reprice and the parent through reparent.
func (e *engine) createOrUpdate(ctx context.Context, item UpsertItem) (*models.Node, error) {
	existing, err := e.nodes.Get(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", item.ID, err)
	}
	if existing != nil {
		if existing.Kind != item.Kind {
			return nil, fmt.Errorf("%w: node %s cannot switch kind %s to %s", ErrValidation, item.ID, existing.Kind, item.Kind)
		}
		existing.Name = item.Name
		if err := e.nodes.Put(ctx, existing); err != nil {
			return nil, fmt.Errorf("store %s: %w", existing.ID, err)
		}
		return existing, nil
	}

	n := &models.Node{
		ID:   item.ID,
		Name: item.Name,
		Kind: item.Kind,
	}
	if item.Kind == models.KindOffer && item.Price != nil {
		p := *item.Price
		n.Price = &p
	}
	if err := e.nodes.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("store %s: %w", n.ID, err)
	}
	return n, nil
}

// reprice sets an offer's price and propagates the difference up the
// ancestor chain. Categories and unchanged prices are no-ops; the
// offer-count aggregates are never touched here.
func (e *engine) reprice(ctx context.Context, n *models.Node, newPrice int64) error {
	if n.IsCategory() {
		return nil
	}
	if n.Price != nil && *n.Price == newPrice {
		return nil
	}
	var diff int64 = newPrice
	if n.Price != nil {
		diff = newPrice - *n.Price
	}
	n.Price = &newPrice
	if err := e.nodes.Put(ctx, n); err != nil {
		return fmt.Errorf("store %s: %w", n.ID, err)
	}
	_, err := e.walkAncestors(ctx, n.ParentID, func(a *models.Node) {
		a.AddPrice(diff)
	})
	return err
}

// reparent moves n under newParent, detaching its contribution from the
// old ancestor chain before attaching it to the new one. The subtraction
// must complete first: when the chains overlap, each shared ancestor
// then sees one subtraction and one addition whose net effect is exact.
func (e *engine) reparent(ctx context.Context, n *models.Node, newParent *uuid.UUID) error {
	if uuidPtrEqual(n.ParentID, newParent) {
		return nil
	}
	if err := e.checkReparentTarget(ctx, n, newParent); err != nil {
		return err
	}

	count, total := n.Contribution()
	_, err := e.walkAncestors(ctx, n.ParentID, func(a *models.Node) {
		a.NumChildren -= count
		a.AddPrice(-total)
	})
	if err != nil {
		return err
	}
	_, err = e.walkAncestors(ctx, newParent, func(a *models.Node) {
		a.NumChildren += count
		a.AddPrice(total)
	})
	if err != nil {
		return err
	}

	n.ParentID = nil
	if newParent != nil {
		pid := *newParent
		n.ParentID = &pid
	}
	if err := e.nodes.Put(ctx, n); err != nil {
		return fmt.Errorf("store %s: %w", n.ID, err)
	}
	return nil
}

// checkReparentTarget rejects a new parent equal to the node itself or
// any node inside its subtree. Accepting either would create a parent
// cycle and corrupt every aggregate on the shared chain.
func (e *engine) checkReparentTarget(ctx context.Context, n *models.Node, newParent *uuid.UUID) error {
	cur := newParent
	for cur != nil {
		if *cur == n.ID {
			return fmt.Errorf("%w: cannot move %s under its own subtree", ErrValidation, n.ID)
		}
		a, err := e.nodes.Get(ctx, *cur)
		if err != nil {
			return fmt.Errorf("resolve ancestor %s: %w", cur, err)
		}
		if a == nil {
			break
		}
		cur = a.ParentID
	}
	return nil
}

// advanceTime stamps the node and every ancestor with the mutation
// timestamp, returning the set of ancestor ids so the caller knows which
// nodes need a fresh history snapshot.
func (e *engine) advanceTime(ctx context.Context, n *models.Node, ts time.Time) ([]uuid.UUID, error) {
	n.UpdatedAt = ts
	if err := e.nodes.Put(ctx, n); err != nil {
		return nil, fmt.Errorf("store %s: %w", n.ID, err)
	}
	return e.walkAncestors(ctx, n.ParentID, func(a *models.Node) {
		a.UpdatedAt = ts
	})
}

// removeSubtreeContribution subtracts a removed subtree's offer count
// and price total from every ancestor above from. Used by delete; the
// detach half of reparent does the same arithmetic inline.
func (e *engine) removeSubtreeContribution(ctx context.Context, from *uuid.UUID, count, total int64) ([]uuid.UUID, error) {
	return e.walkAncestors(ctx, from, func(a *models.Node) {
		a.NumChildren -= count
		a.AddPrice(-total)
	})
}

// uuidPtrEqual compares two *uuid.UUID for equality (both nil or same value).
func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
