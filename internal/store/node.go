// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"megamart/internal/models"
)

const nodeColumns = `id, parent_id, name, kind, price, num_children, updated_at`

// NodeStore reads and writes live node state in PostgreSQL. It is
// always used through a transaction handed out by DB.InTx.
type NodeStore struct {
	q querier
}

// scanNode scans a nodes row into a Node struct.
func scanNode(scanner interface{ Scan(...any) error }) (*models.Node, error) {
	var (
		n      models.Node
		parent uuid.NullUUID
		price  sql.NullInt64
	)
	err := scanner.Scan(&n.ID, &parent, &n.Name, &n.Kind, &price, &n.NumChildren, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if parent.Valid {
		pid := parent.UUID
		n.ParentID = &pid
	}
	if price.Valid {
		p := price.Int64
		n.Price = &p
	}
	return &n, nil
}

// nullableParent converts the parent pointer for binding.
func nullableParent(n *models.Node) uuid.NullUUID {
	if n.ParentID == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *n.ParentID, Valid: true}
}

// nullablePrice converts the price pointer for binding.
func nullablePrice(n *models.Node) sql.NullInt64 {
	if n.Price == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n.Price, Valid: true}
}

// Get retrieves a node by id. Returns nil if not found.
func (s *NodeStore) Get(ctx context.Context, id uuid.UUID) (*models.Node, error) {
	row := s.q.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = $1`, id)
	n, err := scanNode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get node: %w", err)
	}
	return n, nil
}

// Put upserts a node. Kind is intentionally not part of the update set:
// a node never switches kind, and the constraint holds even if a caller
// slips past the validation layer.
func (s *NodeStore) Put(ctx context.Context, n *models.Node) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO nodes (`+nodeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			parent_id = EXCLUDED.parent_id,
			name = EXCLUDED.name,
			price = EXCLUDED.price,
			num_children = EXCLUDED.num_children,
			updated_at = EXCLUDED.updated_at
	`, n.ID, nullableParent(n), n.Name, n.Kind, nullablePrice(n), n.NumChildren, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("put node: %w", err)
	}
	return nil
}

// Delete removes a node by id. Missing ids are not an error.
func (s *NodeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.q.ExecContext(ctx, `DELETE FROM nodes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete node: %w", err)
	}
	return nil
}

// ChildrenOf returns the direct children of a node, ordered by id for
// stable output.
func (s *NodeStore) ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]*models.Node, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+nodeColumns+` FROM nodes WHERE parent_id = $1 ORDER BY id
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("children of: %w", err)
	}
	return collectNodes(rows)
}

// WithParentIn returns every node whose parent id is in ids.
func (s *NodeStore) WithParentIn(ctx context.Context, ids []uuid.UUID) ([]*models.Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.q.QueryContext(ctx, `
		SELECT `+nodeColumns+` FROM nodes WHERE parent_id IN (`+placeholders(1, len(ids))+`) ORDER BY id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("with parent in: %w", err)
	}
	return collectNodes(rows)
}

// collectNodes drains rows into a slice, closing them when done.
func collectNodes(rows *sql.Rows) ([]*models.Node, error) {
	defer rows.Close()
	var items []*models.Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}
