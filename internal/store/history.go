// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"megamart/internal/models"
)

// HistoryStore appends and queries immutable node snapshots in
// PostgreSQL, keyed by (id, updated_at).
type HistoryStore struct {
	q querier
}

// AppendAll stores one snapshot per node at that node's UpdatedAt.
// Re-appending an existing (id, updated_at) key replaces the snapshot
// content, so a node touched twice within one batch keeps a single
// record holding the final values. The kind column never changes for a
// given id and is left out of the update.
func (s *HistoryStore) AppendAll(ctx context.Context, nodes []*models.Node) error {
	if len(nodes) == 0 {
		return nil
	}
	stmt, err := s.q.PrepareContext(ctx, `
		INSERT INTO node_history (`+nodeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id, updated_at) DO UPDATE SET
			parent_id    = EXCLUDED.parent_id,
			name         = EXCLUDED.name,
			price        = EXCLUDED.price,
			num_children = EXCLUDED.num_children
	`)
	if err != nil {
		return fmt.Errorf("prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		_, err := stmt.ExecContext(ctx, n.ID, nullableParent(n), n.Name, n.Kind, nullablePrice(n), n.NumChildren, n.UpdatedAt)
		if err != nil {
			return fmt.Errorf("append history %s: %w", n.ID, err)
		}
	}
	return nil
}

// DeleteAll purges every snapshot for each of the given ids.
func (s *HistoryStore) DeleteAll(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.q.ExecContext(ctx, `
		DELETE FROM node_history WHERE id IN (`+placeholders(1, len(ids))+`)
	`, args...)
	if err != nil {
		return fmt.Errorf("delete history: %w", err)
	}
	return nil
}

// UpdatedBetween returns snapshots with updated_at in [from, to],
// inclusive on both ends, ordered by timestamp then id.
func (s *HistoryStore) UpdatedBetween(ctx context.Context, from, to time.Time) ([]models.HistoryRecord, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+nodeColumns+` FROM node_history
		WHERE updated_at >= $1 AND updated_at <= $2
		ORDER BY updated_at, id
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("history between: %w", err)
	}
	return collectHistory(rows)
}

// ForNode returns snapshots for one id with updated_at in [from, to).
func (s *HistoryStore) ForNode(ctx context.Context, id uuid.UUID, from, to time.Time) ([]models.HistoryRecord, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+nodeColumns+` FROM node_history
		WHERE id = $1 AND updated_at >= $2 AND updated_at < $3
		ORDER BY updated_at
	`, id, from, to)
	if err != nil {
		return nil, fmt.Errorf("history for node: %w", err)
	}
	return collectHistory(rows)
}

// collectHistory drains rows into history records.
func collectHistory(rows *sql.Rows) ([]models.HistoryRecord, error) {
	defer rows.Close()
	var items []models.HistoryRecord
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		items = append(items, models.HistoryRecord{Node: *n})
	}
	return items, rows.Err()
}
