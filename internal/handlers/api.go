// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the catalog HTTP endpoints: batch import,
// delete, subtree view, recent changes, and per-node statistics. It
// validates request syntax, maps core errors to the wire envelope, and
// keeps the Valkey subtree cache coherent after mutations.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"megamart/internal/cache"
	"megamart/internal/catalog"
	"megamart/internal/models"
)

// API groups the catalog handlers and their dependencies. The cache may
// be nil, in which case every read goes to the service.
type API struct {
	svc   *catalog.Service
	cache *cache.NodeCache
}

// NewAPI creates the handler group for the catalog endpoints.
func NewAPI(svc *catalog.Service, nodeCache *cache.NodeCache) *API {
	return &API{svc: svc, cache: nodeCache}
}

// Imports handles POST /imports: one atomic batch of upserts stamped
// with the request's updateDate.
func (a *API) Imports(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		badRequest(w)
		return
	}
	if req.Items == nil {
		badRequest(w)
		return
	}
	ts, err := parseWireDate(req.UpdateDate)
	if err != nil {
		badRequest(w)
		return
	}
	items, err := buildUpsertItems(req.Items)
	if err != nil {
		badRequest(w)
		return
	}

	touched, err := a.svc.ApplyBatch(r.Context(), items, ts)
	if err != nil {
		if errors.Is(err, catalog.ErrValidation) {
			badRequest(w)
			return
		}
		slog.Error("import batch failed", "error", err)
		internalError(w)
		return
	}

	a.cache.Invalidate(r.Context(), touched...)
	success(w)
}

// DeleteNode handles DELETE /delete/{id}: removes a node and, for a
// category, its whole subtree, history included.
func (a *API) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w)
		return
	}

	res, err := a.svc.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("delete failed", "id", id, "error", err)
		internalError(w)
		return
	}

	// Removed nodes and the remaining ancestors all render differently now.
	stale := append(res.RemovedIDs, res.Ancestors...)
	a.cache.Invalidate(r.Context(), stale...)
	success(w)
}

// GetNode handles GET /nodes/{id}: the full subtree view with derived
// prices, served from the Valkey cache when possible.
func (a *API) GetNode(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w)
		return
	}

	if body, ok := a.cache.Get(r.Context(), id); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}

	view, err := a.svc.GetNode(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("get node failed", "id", id, "error", err)
		internalError(w)
		return
	}

	body, err := json.Marshal(view)
	if err != nil {
		slog.Error("get node encode failed", "id", id, "error", err)
		internalError(w)
		return
	}
	a.cache.Set(r.Context(), id, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Sales handles GET /sales?date=D: every history snapshot written in
// the 24 hours up to and including D.
func (a *API) Sales(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseWireDate(r.URL.Query().Get("date"))
	if err != nil {
		badRequest(w)
		return
	}

	records, err := a.svc.RecentChanges(r.Context(), asOf)
	if err != nil {
		slog.Error("sales query failed", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, itemsResponse{Items: historyViews(records)})
}

// Statistic handles GET /node/{id}/statistic?dateStart=S&dateEnd=E:
// the node's snapshots in the half-open interval [S, E).
func (a *API) Statistic(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w)
		return
	}
	start, err := parseWireDate(r.URL.Query().Get("dateStart"))
	if err != nil {
		badRequest(w)
		return
	}
	end, err := parseWireDate(r.URL.Query().Get("dateEnd"))
	if err != nil {
		badRequest(w)
		return
	}

	records, err := a.svc.History(r.Context(), id, start, end)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			notFound(w)
			return
		}
		slog.Error("statistic query failed", "id", id, "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, itemsResponse{Items: historyViews(records)})
}

// itemsResponse wraps list results the way the original API does.
type itemsResponse struct {
	Items []*models.HistoryView `json:"items"`
}

// historyViews renders records for the wire, never returning nil so the
// JSON is always an array.
func historyViews(records []models.HistoryRecord) []*models.HistoryView {
	views := make([]*models.HistoryView, 0, len(records))
	for i := range records {
		views = append(views, records[i].View())
	}
	return views
}
