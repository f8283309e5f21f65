// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"megamart/internal/catalog"
	"megamart/internal/models"
)

// mirrorNode is the reference model: parent links and raw prices only,
// no maintained aggregates.
type mirrorNode struct {
	parent *uuid.UUID
	kind   models.Kind
	price  int64
}

type mirror map[uuid.UUID]*mirrorNode

// displayPrice recomputes a node's price from scratch: an offer's own
// price, or floor(sum/count) over all offer descendants.
func (m mirror) displayPrice(id uuid.UUID) *int64 {
	n := m[id]
	if n.kind == models.KindOffer {
		p := n.price
		return &p
	}
	var sum, count int64
	for oid, o := range m {
		if o.kind != models.KindOffer {
			continue
		}
		for cur := &oid; cur != nil; {
			if *cur == id {
				sum += o.price
				count++
				break
			}
			parent, ok := m[*cur]
			if !ok {
				break
			}
			cur = parent.parent
		}
	}
	if count == 0 {
		return nil
	}
	avg := sum / count
	return &avg
}

// inSubtree reports whether target sits at or below root in the mirror.
func (m mirror) inSubtree(target, root uuid.UUID) bool {
	for cur := &target; cur != nil; {
		if *cur == root {
			return true
		}
		n, ok := m[*cur]
		if !ok {
			return false
		}
		cur = n.parent
	}
	return false
}

// TestRandomOperationsMatchBruteForce drives the service with a random
// mix of creates, reprices, reparents, and deletes, including batches
// that list a child before its newly created parent, then recomputes
// every display price from first principles after each step.
func TestRandomOperationsMatchBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(20260801))
	svc := newTestService()
	m := mirror{}
	ctx := context.Background()

	var ids []uuid.UUID
	categories := func() []uuid.UUID {
		var out []uuid.UUID
		for _, id := range ids {
			if m[id].kind == models.KindCategory {
				out = append(out, id)
			}
		}
		return out
	}
	randomParent := func() *uuid.UUID {
		cats := categories()
		if len(cats) == 0 || rng.Intn(4) == 0 {
			return nil
		}
		return ptrID(cats[rng.Intn(len(cats))])
	}

	next := byte(1)
	ts := baseTime
	for step := 0; step < 300; step++ {
		ts = ts.Add(time.Minute)

		switch op := rng.Intn(10); {
		case op < 3 || len(ids) == 0: // create category
			id := uid(next)
			next++
			item := category(id, "cat", randomParent())
			mustApply(t, svc, ts, item)
			m[id] = &mirrorNode{parent: item.ParentID, kind: models.KindCategory}
			ids = append(ids, id)

		case op < 6: // create offer, sometimes with its parent in the same batch
			id := uid(next)
			next++
			price := int64(rng.Intn(100000))
			if rng.Intn(3) == 0 {
				// Child listed before its newly created parent.
				pid := uid(next)
				next++
				parentItem := category(pid, "cat", randomParent())
				mustApply(t, svc, ts, offer(id, "offer", ptrID(pid), price), parentItem)
				m[pid] = &mirrorNode{parent: parentItem.ParentID, kind: models.KindCategory}
				m[id] = &mirrorNode{parent: ptrID(pid), kind: models.KindOffer, price: price}
				ids = append(ids, pid, id)
				break
			}
			item := offer(id, "offer", randomParent(), price)
			mustApply(t, svc, ts, item)
			m[id] = &mirrorNode{parent: item.ParentID, kind: models.KindOffer, price: price}
			ids = append(ids, id)

		case op < 8: // reprice a random offer
			id := ids[rng.Intn(len(ids))]
			if m[id].kind != models.KindOffer {
				continue
			}
			price := int64(rng.Intn(100000))
			mustApply(t, svc, ts, offer(id, "offer", m[id].parent, price))
			m[id].price = price

		case op < 9: // reparent a random node
			id := ids[rng.Intn(len(ids))]
			newParent := randomParent()
			item := catalog.UpsertItem{ID: id, Name: "moved", Kind: m[id].kind, ParentID: newParent}
			if m[id].kind == models.KindOffer {
				item.Price = ptrPrice(m[id].price)
			}
			if newParent != nil && m.inSubtree(*newParent, id) {
				// The service must reject the cycle and change nothing.
				if _, err := svc.ApplyBatch(ctx, []catalog.UpsertItem{item}, ts); !errors.Is(err, catalog.ErrValidation) {
					t.Fatalf("step %d: cyclic reparent error = %v, want ErrValidation", step, err)
				}
				continue
			}
			mustApply(t, svc, ts, item)
			m[id].parent = newParent

		default: // delete a random node and its subtree
			id := ids[rng.Intn(len(ids))]
			if _, err := svc.Delete(ctx, id); err != nil {
				t.Fatalf("step %d: Delete(%s) error = %v", step, id, err)
			}
			var kept []uuid.UUID
			for _, other := range ids {
				if m.inSubtree(other, id) {
					delete(m, other)
					continue
				}
				kept = append(kept, other)
			}
			ids = kept
		}

		// Every surviving node's display price must match the recompute.
		for _, id := range ids {
			view, err := svc.GetNode(ctx, id)
			if err != nil {
				t.Fatalf("step %d: GetNode(%s) error = %v", step, id, err)
			}
			want := m.displayPrice(id)
			switch {
			case want == nil && view.Price != nil:
				t.Fatalf("step %d: node %s price = %d, want null", step, id, *view.Price)
			case want != nil && view.Price == nil:
				t.Fatalf("step %d: node %s price = null, want %d", step, id, *want)
			case want != nil && *view.Price != *want:
				t.Fatalf("step %d: node %s price = %d, want %d", step, id, *view.Price, *want)
			}
		}
	}
}
