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

// recentWindow is how far back the recent-changes query reaches.
const recentWindow = 24 * time.Hour

// GetNode returns the full subtree view rooted at id, with derived
// display prices at every level. The tree is assembled from one store
// query per depth level rather than one per node.
func (s *Service) GetNode(ctx context.Context, id uuid.UUID) (*models.NodeView, error) {
	var view *models.NodeView
	err := s.store.InTx(ctx, func(tx Tx) error {
		root, err := tx.Nodes().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", id, err)
		}
		if root == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}

		byParent, err := collectSubtree(ctx, tx.Nodes(), root)
		if err != nil {
			return err
		}
		view = buildView(root, byParent)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// collectSubtree loads every descendant of root, grouped by parent id.
func collectSubtree(ctx context.Context, nodes NodeStore, root *models.Node) (map[uuid.UUID][]*models.Node, error) {
	byParent := make(map[uuid.UUID][]*models.Node)
	if !root.IsCategory() {
		return byParent, nil
	}
	queue := []uuid.UUID{root.ID}
	for len(queue) > 0 {
		level, err := nodes.WithParentIn(ctx, queue)
		if err != nil {
			return nil, fmt.Errorf("collect children: %w", err)
		}
		queue = queue[:0]
		for _, child := range level {
			byParent[*child.ParentID] = append(byParent[*child.ParentID], child)
			if child.IsCategory() {
				queue = append(queue, child.ID)
			}
		}
	}
	return byParent, nil
}

// buildView renders a node and, recursively, its children.
func buildView(n *models.Node, byParent map[uuid.UUID][]*models.Node) *models.NodeView {
	v := n.View()
	for _, child := range byParent[n.ID] {
		v.Children = append(v.Children, buildView(child, byParent))
	}
	return v
}

// RecentChanges returns every history snapshot written in the 24 hours
// up to and including asOf. Both interval ends are inclusive.
func (s *Service) RecentChanges(ctx context.Context, asOf time.Time) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	err := s.store.InTx(ctx, func(tx Tx) error {
		var err error
		records, err = tx.History().UpdatedBetween(ctx, asOf.Add(-recentWindow), asOf)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recent changes: %w", err)
	}
	return records, nil
}

// History returns the snapshots of one node with timestamps in
// [start, end). The node must currently exist; history of deleted nodes
// is purged with them.
func (s *Service) History(ctx context.Context, id uuid.UUID, start, end time.Time) ([]models.HistoryRecord, error) {
	var records []models.HistoryRecord
	err := s.store.InTx(ctx, func(tx Tx) error {
		n, err := tx.Nodes().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("lookup %s: %w", id, err)
		}
		if n == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		records, err = tx.History().ForNode(ctx, id, start, end)
		return err
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
