// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"

	"github.com/google/uuid"
)

func price(p int64) *int64 { return &p }

func TestKindValid(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindCategory, true},
		{KindOffer, true},
		{"BUNDLE", false},
		{"", false},
		{"offer", false}, // case sensitive
	}
	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.want {
			t.Errorf("Kind(%q).Valid() = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestDisplayPrice(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want *int64
	}{
		{
			name: "offer returns its own price",
			node: Node{Kind: KindOffer, Price: price(30000)},
			want: price(30000),
		},
		{
			name: "offer with zero price returns zero",
			node: Node{Kind: KindOffer, Price: price(0)},
			want: price(0),
		},
		{
			name: "empty category has no price",
			node: Node{Kind: KindCategory},
			want: nil,
		},
		{
			name: "category divides sum by count, floored",
			node: Node{Kind: KindCategory, Price: price(100001), NumChildren: 3},
			want: price(33333),
		},
		{
			name: "category with exact division",
			node: Node{Kind: KindCategory, Price: price(80000), NumChildren: 2},
			want: price(40000),
		},
		{
			name: "category with zero count ignores stale sum",
			node: Node{Kind: KindCategory, Price: price(500), NumChildren: 0},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.node.DisplayPrice()
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("DisplayPrice() = %d, want nil", *got)
			case tt.want != nil && got == nil:
				t.Errorf("DisplayPrice() = nil, want %d", *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("DisplayPrice() = %d, want %d", *got, *tt.want)
			}
		})
	}
}

func TestContribution(t *testing.T) {
	tests := []struct {
		name      string
		node      Node
		wantCount int64
		wantTotal int64
	}{
		{"offer", Node{Kind: KindOffer, Price: price(30000)}, 1, 30000},
		{"offer without price yet", Node{Kind: KindOffer}, 1, 0},
		{"category with offers", Node{Kind: KindCategory, Price: price(80000), NumChildren: 2}, 2, 80000},
		{"empty category", Node{Kind: KindCategory}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, total := tt.node.Contribution()
			if count != tt.wantCount || total != tt.wantTotal {
				t.Errorf("Contribution() = (%d, %d), want (%d, %d)", count, total, tt.wantCount, tt.wantTotal)
			}
		})
	}
}

func TestAddPrice(t *testing.T) {
	n := Node{Kind: KindCategory}

	// A nil sum starts from the delta.
	n.AddPrice(30000)
	if n.Price == nil || *n.Price != 30000 {
		t.Fatalf("after first add: %v, want 30000", n.Price)
	}

	n.AddPrice(-10000)
	if *n.Price != 20000 {
		t.Errorf("after subtract: %d, want 20000", *n.Price)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	pid := uuid.New()
	n := &Node{ID: uuid.New(), ParentID: &pid, Kind: KindOffer, Price: price(100)}

	c := n.Clone()
	*c.Price = 999
	*c.ParentID = uuid.New()

	if *n.Price != 100 {
		t.Errorf("clone shares price pointer: %d", *n.Price)
	}
	if *n.ParentID != pid {
		t.Error("clone shares parent pointer")
	}
}
