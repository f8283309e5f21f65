// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"megamart/internal/catalog"
	"megamart/internal/models"
)

// Memory is an in-memory transactional store. One mutex serializes
// transactions, and each transaction works on a deep copy of the state
// that replaces the live state only on success. That gives the same
// all-or-nothing and read-your-writes guarantees as the database
// without one. Used by tests and local tooling.
type Memory struct {
	mu    sync.Mutex
	state memState
}

type memState struct {
	nodes   map[uuid.UUID]*memNode
	history map[uuid.UUID][]memNode
}

// memNode mirrors models.Node with value fields, so cloning the state
// is a plain map copy.
type memNode struct {
	id          uuid.UUID
	parentID    uuid.NullUUID
	name        string
	kind        string
	price       int64
	hasPrice    bool
	numChildren int64
	updatedAt   time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{state: memState{
		nodes:   map[uuid.UUID]*memNode{},
		history: map[uuid.UUID][]memNode{},
	}}
}

// InTx runs fn against a snapshot of the state and swaps it in on
// success. Any error discards the snapshot untouched.
func (m *Memory) InTx(ctx context.Context, fn func(tx catalog.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(&memTx{state: &work}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (s memState) clone() memState {
	c := memState{
		nodes:   make(map[uuid.UUID]*memNode, len(s.nodes)),
		history: make(map[uuid.UUID][]memNode, len(s.history)),
	}
	for id, n := range s.nodes {
		cp := *n
		c.nodes[id] = &cp
	}
	for id, recs := range s.history {
		c.history[id] = append([]memNode(nil), recs...)
	}
	return c
}

type memTx struct {
	state *memState
}

func (t *memTx) Nodes() catalog.NodeStore      { return &memNodeStore{state: t.state} }
func (t *memTx) History() catalog.HistoryStore { return &memHistoryStore{state: t.state} }

func toMemNode(n *models.Node) memNode {
	mn := memNode{
		id:          n.ID,
		name:        n.Name,
		kind:        string(n.Kind),
		numChildren: n.NumChildren,
		updatedAt:   n.UpdatedAt,
	}
	if n.ParentID != nil {
		mn.parentID = uuid.NullUUID{UUID: *n.ParentID, Valid: true}
	}
	if n.Price != nil {
		mn.price = *n.Price
		mn.hasPrice = true
	}
	return mn
}

func (mn memNode) toModel() *models.Node {
	n := &models.Node{
		ID:          mn.id,
		Name:        mn.name,
		Kind:        models.Kind(mn.kind),
		NumChildren: mn.numChildren,
		UpdatedAt:   mn.updatedAt,
	}
	if mn.parentID.Valid {
		pid := mn.parentID.UUID
		n.ParentID = &pid
	}
	if mn.hasPrice {
		p := mn.price
		n.Price = &p
	}
	return n
}

type memNodeStore struct {
	state *memState
}

func (s *memNodeStore) Get(_ context.Context, id uuid.UUID) (*models.Node, error) {
	n, ok := s.state.nodes[id]
	if !ok {
		return nil, nil
	}
	return n.toModel(), nil
}

func (s *memNodeStore) Put(_ context.Context, n *models.Node) error {
	mn := toMemNode(n)
	s.state.nodes[n.ID] = &mn
	return nil
}

func (s *memNodeStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.state.nodes, id)
	return nil
}

func (s *memNodeStore) ChildrenOf(ctx context.Context, parentID uuid.UUID) ([]*models.Node, error) {
	return s.WithParentIn(ctx, []uuid.UUID{parentID})
}

func (s *memNodeStore) WithParentIn(_ context.Context, ids []uuid.UUID) ([]*models.Node, error) {
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []*models.Node
	for _, n := range s.state.nodes {
		if !n.parentID.Valid {
			continue
		}
		if _, ok := want[n.parentID.UUID]; ok {
			out = append(out, n.toModel())
		}
	}
	// Stable order to match the database's ORDER BY id.
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

type memHistoryStore struct {
	state *memState
}

func (s *memHistoryStore) AppendAll(_ context.Context, nodes []*models.Node) error {
	for _, n := range nodes {
		mn := toMemNode(n)
		recs := s.state.history[n.ID]
		replaced := false
		for i, r := range recs {
			if r.updatedAt.Equal(mn.updatedAt) {
				recs[i] = mn
				replaced = true
				break
			}
		}
		if !replaced {
			recs = append(recs, mn)
		}
		s.state.history[n.ID] = recs
	}
	return nil
}

func (s *memHistoryStore) DeleteAll(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		delete(s.state.history, id)
	}
	return nil
}

func (s *memHistoryStore) UpdatedBetween(_ context.Context, from, to time.Time) ([]models.HistoryRecord, error) {
	var out []models.HistoryRecord
	for _, recs := range s.state.history {
		for _, r := range recs {
			if !r.updatedAt.Before(from) && !r.updatedAt.After(to) {
				out = append(out, models.HistoryRecord{Node: *r.toModel()})
			}
		}
	}
	sortHistory(out)
	return out, nil
}

func (s *memHistoryStore) ForNode(_ context.Context, id uuid.UUID, from, to time.Time) ([]models.HistoryRecord, error) {
	var out []models.HistoryRecord
	for _, r := range s.state.history[id] {
		if !r.updatedAt.Before(from) && r.updatedAt.Before(to) {
			out = append(out, models.HistoryRecord{Node: *r.toModel()})
		}
	}
	sortHistory(out)
	return out, nil
}

func sortHistory(recs []models.HistoryRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].UpdatedAt.Equal(recs[j].UpdatedAt) {
			return recs[i].UpdatedAt.Before(recs[j].UpdatedAt)
		}
		return recs[i].ID.String() < recs[j].ID.String()
	})
}
