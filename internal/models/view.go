// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// WireTimeFormat is the timestamp layout used on the wire, matching the
// catalog API contract (millisecond precision, UTC, trailing Z).
const WireTimeFormat = "2006-01-02T15:04:05.000Z"

// NodeView is the JSON representation of a node returned by the subtree
// endpoint. Children is null for offers and a (possibly empty) array for
// categories.
type NodeView struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Date     string      `json:"date"`
	ParentID *string     `json:"parentId"`
	Type     Kind        `json:"type"`
	Price    *int64      `json:"price"`
	Children []*NodeView `json:"children"`
}

// HistoryView is the JSON representation of a history record. It carries
// the same fields as NodeView minus children: snapshots are flat.
type HistoryView struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	ParentID *string `json:"parentId"`
	Type     Kind    `json:"type"`
	Price    *int64  `json:"price"`
}

// View renders the node itself, without children. Callers building a
// subtree attach Children afterwards.
func (n *Node) View() *NodeView {
	v := &NodeView{
		ID:    n.ID.String(),
		Name:  n.Name,
		Date:  n.UpdatedAt.UTC().Format(WireTimeFormat),
		Type:  n.Kind,
		Price: n.DisplayPrice(),
	}
	if n.ParentID != nil {
		pid := n.ParentID.String()
		v.ParentID = &pid
	}
	if n.IsCategory() {
		v.Children = []*NodeView{}
	}
	return v
}

// View renders the history record for the statistics and sales endpoints.
func (r *HistoryRecord) View() *HistoryView {
	v := &HistoryView{
		ID:    r.ID.String(),
		Name:  r.Name,
		Date:  r.UpdatedAt.UTC().Format(WireTimeFormat),
		Type:  r.Kind,
		Price: r.DisplayPrice(),
	}
	if r.ParentID != nil {
		pid := r.ParentID.String()
		v.ParentID = &pid
	}
	return v
}
