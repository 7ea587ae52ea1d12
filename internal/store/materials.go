package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Simplici0/selah/internal/catalog"
	"github.com/Simplici0/selah/internal/pricing"
)

// MaterialExists reports whether a material with id is already registered.
func (s *Store) MaterialExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, s.q(`SELECT EXISTS(SELECT 1 FROM materials WHERE id = ?)`), id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check material existence: %w", err)
	}
	return exists, nil
}

// InsertMaterial persists a validated material. A duplicate id fails with a persistence error.
func (s *Store) InsertMaterial(ctx context.Context, m catalog.Material) error {
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO materials (
			id, kind, stone, shape, color, description, texture,
			length, width, strip_cost, quantity, unit_cost, supplier_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		m.ID, m.Kind, m.Stone, m.Shape, m.Color, m.Description, m.Texture,
		m.Length, m.Width, m.StripCost, m.Quantity, m.UnitCost, m.SupplierID,
	)
	if err != nil {
		return writeError("material", err)
	}
	return nil
}

// UnitCost returns the per-unit cost of a material, or ErrNotFound.
func (s *Store) UnitCost(ctx context.Context, id string) (decimal.Decimal, error) {
	var cost decimal.Decimal
	err := s.db.QueryRowContext(ctx, s.q(`SELECT unit_cost FROM materials WHERE id = ?`), id).Scan(&cost)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ErrNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("query unit cost: %w", err)
	}
	return cost, nil
}

// CostLookup adapts UnitCost to the pricing engine. Unknown materials and lookup
// failures price as zero and are logged as degraded lookups.
func (s *Store) CostLookup(ctx context.Context, logger *zap.Logger) pricing.CostLookup {
	return func(materialID string) decimal.Decimal {
		cost, err := s.UnitCost(ctx, materialID)
		if err != nil {
			logger.Warn("material cost lookup degraded to zero",
				zap.String("material_id", materialID),
				zap.Error(err),
			)
			return decimal.Zero
		}
		return cost
	}
}

// ListMaterials returns the material catalog with supplier names, ordered by id.
func (s *Store) ListMaterials(ctx context.Context) ([]catalog.MaterialListing, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			m.id, m.kind, m.stone, m.shape, m.color, m.description, m.texture,
			m.length, m.width, m.strip_cost, m.quantity, m.unit_cost, m.supplier_id,
			COALESCE(p.name, '')
		FROM materials m
		LEFT JOIN suppliers p ON m.supplier_id = p.id
		ORDER BY m.id
	`)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	defer rows.Close()

	materials := make([]catalog.MaterialListing, 0)
	for rows.Next() {
		var m catalog.MaterialListing
		if err := rows.Scan(
			&m.ID, &m.Kind, &m.Stone, &m.Shape, &m.Color, &m.Description, &m.Texture,
			&m.Length, &m.Width, &m.StripCost, &m.Quantity, &m.UnitCost, &m.SupplierID,
			&m.SupplierName,
		); err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate materials: %w", err)
	}

	return materials, nil
}
