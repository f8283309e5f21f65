package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Seed populates an empty database with a small demo tree for local
// development: one root category holding two offers. Aggregates and the
// matching history snapshots are written directly with pre-computed
// values, so the seeded state is exactly what an import would produce.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&count); err != nil {
		return fmt.Errorf("seed check nodes: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	const (
		rootID   = "069cb8d7-bbdd-47d3-ad8f-82ef4c269df1"
		offerAID = "3fa85f64-5717-4562-b3fc-2c963f66a111"
		offerBID = "3fa85f64-5717-4562-b3fc-2c963f66a222"
	)
	now := time.Now().UTC().Truncate(time.Millisecond)

	rows := []struct {
		id       string
		parentID *string
		name     string
		kind     string
		price    *int64
		children int64
	}{
		// Root aggregates cover both offers: sum 148000, count 2.
		{rootID, nil, "Electronics", "CATEGORY", ptr(int64(148000)), 2},
		{offerAID, ptr(rootID), "Phone 128GB", "OFFER", ptr(int64(59000)), 0},
		{offerBID, ptr(rootID), "Laptop 14\"", "OFFER", ptr(int64(89000)), 0},
	}

	for _, r := range rows {
		for _, table := range []string{"nodes", "node_history"} {
			_, err := db.Exec(`
				INSERT INTO `+table+` (id, parent_id, name, kind, price, num_children, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, r.id, r.parentID, r.name, r.kind, r.price, r.children, now)
			if err != nil {
				return fmt.Errorf("seed insert %s: %w", r.name, err)
			}
		}
	}

	slog.Info("database seeded with demo catalog", "root", rootID)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
