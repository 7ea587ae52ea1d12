package store

import (
	"context"
	"fmt"

	"github.com/Simplici0/selah/internal/catalog"
)

// ListSuppliers returns all suppliers ordered by name.
func (s *Store) ListSuppliers(ctx context.Context) ([]catalog.Supplier, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := make([]catalog.Supplier, 0)
	for rows.Next() {
		var sup catalog.Supplier
		if err := rows.Scan(&sup.ID, &sup.Name); err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, sup)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suppliers: %w", err)
	}

	return suppliers, nil
}

// SupplierExists reports whether a supplier with id exists.
func (s *Store) SupplierExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, s.q(`SELECT EXISTS(SELECT 1 FROM suppliers WHERE id = ?)`), id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check supplier existence: %w", err)
	}
	return exists, nil
}

// InsertSupplier adds a supplier and returns its id.
func (s *Store) InsertSupplier(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, s.q(`INSERT INTO suppliers (name) VALUES (?) RETURNING id`), name).Scan(&id)
	if err != nil {
		return 0, writeError("supplier", err)
	}
	return id, nil
}
