// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides the catalog's storage backends: a PostgreSQL
// implementation used in production and an in-memory implementation
// used by tests and local tooling. Both satisfy the ports declared in
// the catalog package.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"megamart/internal/catalog"
)

// DB is the PostgreSQL-backed transactional store. Transactions run at
// serializable isolation: ancestor-chain updates from concurrent
// requests must not interleave.
type DB struct {
	db *sql.DB
}

// NewDB wraps an open database handle.
func NewDB(db *sql.DB) *DB {
	return &DB{db: db}
}

// InTx runs fn inside one database transaction. A non-nil error from fn
// rolls everything back; otherwise the transaction commits.
func (d *DB) InTx(ctx context.Context, fn func(tx catalog.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// pgTx hands out store views bound to one *sql.Tx, so every read inside
// the transaction sees its own earlier writes.
type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) Nodes() catalog.NodeStore {
	return &NodeStore{q: t.tx}
}

func (t *pgTx) History() catalog.HistoryStore {
	return &HistoryStore{q: t.tx}
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// placeholders renders "$off, $off+1, ..." for building IN clauses.
func placeholders(off, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("$%d", off+i)
	}
	return out
}
