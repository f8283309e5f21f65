// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"megamart/internal/catalog"
	"megamart/internal/models"
)

func TestHistoryStoreAppendAndQuery(t *testing.T) {
	db := NewDB(testDB(t))
	ctx := context.Background()

	n := testNode("Phone 64GB", 30000)
	t0 := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	t.Cleanup(func() { cleanNodes(t, db.db, n.ID) })

	withTx(t, db, func(tx catalog.Tx) error {
		n.UpdatedAt = t0
		if err := tx.History().AppendAll(ctx, []*models.Node{n}); err != nil {
			return err
		}
		n.UpdatedAt = t1
		p := int64(35000)
		n.Price = &p
		if err := tx.History().AppendAll(ctx, []*models.Node{n}); err != nil {
			return err
		}

		recs, err := tx.History().ForNode(ctx, n.ID, t0, t1.Add(time.Millisecond))
		if err != nil {
			return err
		}
		if len(recs) != 2 {
			t.Fatalf("ForNode() = %d records, want 2", len(recs))
		}
		if !recs[0].UpdatedAt.Equal(t0) || !recs[1].UpdatedAt.Equal(t1) {
			t.Errorf("order = %v, %v, want ascending by time", recs[0].UpdatedAt, recs[1].UpdatedAt)
		}
		if recs[1].Price == nil || *recs[1].Price != 35000 {
			t.Errorf("second snapshot price = %v, want 35000", recs[1].Price)
		}

		// Upper bound excluded.
		recs, err = tx.History().ForNode(ctx, n.ID, t0, t1)
		if err != nil {
			return err
		}
		if len(recs) != 1 {
			t.Errorf("ForNode() half-open = %d records, want 1", len(recs))
		}
		return nil
	})
}

func TestHistoryStoreAppendReplacesEqualTimestamp(t *testing.T) {
	db := NewDB(testDB(t))
	ctx := context.Background()

	n := testNode("Phone 64GB", 30000)
	n.UpdatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	t.Cleanup(func() { cleanNodes(t, db.db, n.ID) })

	withTx(t, db, func(tx catalog.Tx) error {
		if err := tx.History().AppendAll(ctx, []*models.Node{n}); err != nil {
			return err
		}
		// Same (id, updated_at) pair again must not duplicate or error,
		// and the later content wins.
		p := int64(35000)
		n.Price = &p
		if err := tx.History().AppendAll(ctx, []*models.Node{n}); err != nil {
			return err
		}
		recs, err := tx.History().ForNode(ctx, n.ID, n.UpdatedAt, n.UpdatedAt.Add(time.Millisecond))
		if err != nil {
			return err
		}
		if len(recs) != 1 {
			t.Fatalf("got %d records, want 1", len(recs))
		}
		if recs[0].Price == nil || *recs[0].Price != 35000 {
			t.Errorf("price = %v, want the re-appended 35000", recs[0].Price)
		}
		return nil
	})
}

func TestHistoryStoreUpdatedBetweenInclusive(t *testing.T) {
	db := NewDB(testDB(t))
	ctx := context.Background()

	n := testNode("Phone 64GB", 30000)
	from := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	to := from.Add(time.Hour)
	t.Cleanup(func() { cleanNodes(t, db.db, n.ID) })

	withTx(t, db, func(tx catalog.Tx) error {
		for _, ts := range []time.Time{from.Add(-time.Millisecond), from, to, to.Add(time.Millisecond)} {
			n.UpdatedAt = ts
			if err := tx.History().AppendAll(ctx, []*models.Node{n}); err != nil {
				return err
			}
		}
		recs, err := tx.History().UpdatedBetween(ctx, from, to)
		if err != nil {
			return err
		}
		var mine int
		for _, r := range recs {
			if r.ID == n.ID {
				mine++
			}
		}
		if mine != 2 {
			t.Errorf("UpdatedBetween() matched %d snapshots, want both inclusive ends only", mine)
		}
		return nil
	})
}

func TestHistoryStoreDeleteAll(t *testing.T) {
	db := NewDB(testDB(t))
	ctx := context.Background()

	a := testNode("A", 100)
	b := testNode("B", 200)
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	a.UpdatedAt, b.UpdatedAt = ts, ts
	t.Cleanup(func() { cleanNodes(t, db.db, a.ID, b.ID) })

	withTx(t, db, func(tx catalog.Tx) error {
		if err := tx.History().AppendAll(ctx, []*models.Node{a, b}); err != nil {
			return err
		}
		if err := tx.History().DeleteAll(ctx, []uuid.UUID{a.ID}); err != nil {
			return err
		}
		recs, err := tx.History().ForNode(ctx, a.ID, ts, ts.Add(time.Millisecond))
		if err != nil {
			return err
		}
		if len(recs) != 0 {
			t.Errorf("purged node still has %d records", len(recs))
		}
		recs, err = tx.History().ForNode(ctx, b.ID, ts, ts.Add(time.Millisecond))
		if err != nil {
			return err
		}
		if len(recs) != 1 {
			t.Errorf("untouched node has %d records, want 1", len(recs))
		}
		return nil
	})
}
