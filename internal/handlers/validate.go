// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"megamart/internal/catalog"
	"megamart/internal/models"
)

// importRequest is the body of POST /imports. Unknown fields are
// rejected by the decoder, so the shape is exact.
type importRequest struct {
	Items      []importItem `json:"items"`
	UpdateDate string       `json:"updateDate"`
}

// importItem is one batch entry as received on the wire. Name is a
// pointer so an absent or null name is distinguishable from an empty
// string.
type importItem struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	ParentID *string `json:"parentId"`
	Type     string  `json:"type"`
	Price    *int64  `json:"price"`
}

var errBadItem = errors.New("malformed import item")

// parseWireDate parses a timestamp in the API's ISO 8601 format. Any
// RFC 3339 offset is accepted, timestamps are compared in UTC.
func parseWireDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// buildUpsertItems converts wire items into batch items, rejecting
// anything that is not syntactically well formed. Semantic rules such
// as parent kind and price constraints are enforced by the batch itself.
func buildUpsertItems(items []importItem) ([]catalog.UpsertItem, error) {
	out := make([]catalog.UpsertItem, 0, len(items))
	for _, it := range items {
		id, err := uuid.Parse(it.ID)
		if err != nil {
			return nil, errBadItem
		}
		if it.Name == nil {
			return nil, errBadItem
		}

		var parentID *uuid.UUID
		if it.ParentID != nil {
			pid, err := uuid.Parse(*it.ParentID)
			if err != nil {
				return nil, errBadItem
			}
			parentID = &pid
		}

		out = append(out, catalog.UpsertItem{
			ID:       id,
			Name:     *it.Name,
			Kind:     models.Kind(it.Type),
			ParentID: parentID,
			Price:    it.Price,
		})
	}
	return out, nil
}
