// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Kind distinguishes the two catalog node types. A node never changes
// its kind after creation.
type Kind string

const (
	KindCategory Kind = "CATEGORY"
	KindOffer    Kind = "OFFER"
)

// Valid reports whether k is one of the two known kinds.
func (k Kind) Valid() bool {
	return k == KindCategory || k == KindOffer
}

// Node represents a catalog entry: either a category or an offer.
//
// For offers, Price is the directly-set price and NumChildren is unused.
// For categories, Price is the running sum of all offer prices in the
// subtree and NumChildren is the count of those offers; both are
// maintained incrementally and never set by clients.
type Node struct {
	ID          uuid.UUID  `json:"id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Name        string     `json:"name"`
	Kind        Kind       `json:"kind"`
	Price       *int64     `json:"price"`
	NumChildren int64      `json:"num_children"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsCategory reports whether the node is an aggregation node.
func (n *Node) IsCategory() bool {
	return n.Kind == KindCategory
}

// DisplayPrice returns the price shown to clients: an offer's own price,
// or the floor of a category's subtree average. A category with no offer
// descendants has no price.
func (n *Node) DisplayPrice() *int64 {
	if !n.IsCategory() {
		return n.Price
	}
	if n.NumChildren == 0 || n.Price == nil {
		return nil
	}
	avg := *n.Price / n.NumChildren
	return &avg
}

// Contribution returns what this node adds to every ancestor's
// aggregates: its offer count and its total price.
func (n *Node) Contribution() (count int64, total int64) {
	if n.IsCategory() {
		count = n.NumChildren
	} else {
		count = 1
	}
	if n.Price != nil {
		total = *n.Price
	}
	return count, total
}

// AddPrice adjusts the running price sum by delta. A nil price is
// treated as zero, so the first offer attached to a fresh category
// starts the sum.
func (n *Node) AddPrice(delta int64) {
	if n.Price == nil {
		n.Price = &delta
		return
	}
	sum := *n.Price + delta
	n.Price = &sum
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	if n.ParentID != nil {
		pid := *n.ParentID
		c.ParentID = &pid
	}
	if n.Price != nil {
		p := *n.Price
		c.Price = &p
	}
	return &c
}

// HistoryRecord is an immutable snapshot of a node's state at one
// timestamp, keyed by (ID, UpdatedAt). Records are only ever appended
// or bulk-deleted, never mutated.
type HistoryRecord struct {
	Node
}

// Snapshot freezes the current node state into a history record.
func Snapshot(n *Node) HistoryRecord {
	return HistoryRecord{Node: *n.Clone()}
}
