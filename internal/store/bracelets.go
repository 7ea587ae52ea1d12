package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/selah/internal/catalog"
	"github.com/Simplici0/selah/internal/errs"
)

func (s *Store) insertBracelet(ctx context.Context, tx *sql.Tx, b catalog.Bracelet) error {
	_, err := tx.ExecContext(ctx, s.q(`
		INSERT INTO bracelets (product_id, description, cost, price, tier, tier_price)
		VALUES (?, ?, ?, ?, ?, ?)
	`), b.ProductID, b.Description, b.Cost, b.Price, b.Tier, b.TierPrice)
	if err != nil {
		return writeError("bracelet", err)
	}
	return nil
}

// consumeQuote deletes a live pending quote inside tx and reports whether this call removed it.
func (s *Store) consumeQuote(ctx context.Context, tx *sql.Tx, quoteID string) (bool, error) {
	cutoff := s.now().Add(-QuoteTTL).Unix()
	res, err := tx.ExecContext(ctx, s.q(`DELETE FROM quotes WHERE id = ? AND created_unix >= ?`), quoteID, cutoff)
	if err != nil {
		return false, fmt.Errorf("consume quote: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("consume quote: %w", err)
	}
	return n == 1, nil
}

// RegisterBracelet stores b and consumes the pending quote it was priced from, atomically.
// A quote that is unknown, expired or already consumed is rejected as not computed.
// When the insert fails the quote is kept so the user can retry.
func (s *Store) RegisterBracelet(ctx context.Context, quoteID string, b catalog.Bracelet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Persistence(errs.ReasonUnavailable, "No se pudo conectar con la base de datos.", err)
	}

	consumed, err := s.consumeQuote(ctx, tx, quoteID)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if !consumed {
		_ = tx.Rollback()
		return errs.Validation(errs.ReasonNotComputed, "", "Primero debes calcular el precio.")
	}

	if err := s.insertBracelet(ctx, tx, b); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return writeError("bracelet", err)
	}
	return nil
}

// ListBracelets returns the bracelet catalog ordered by product id.
func (s *Store) ListBracelets(ctx context.Context) ([]catalog.Bracelet, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product_id, description, cost, price, tier, tier_price
		FROM bracelets
		ORDER BY product_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query bracelets: %w", err)
	}
	defer rows.Close()

	bracelets := make([]catalog.Bracelet, 0)
	for rows.Next() {
		var b catalog.Bracelet
		if err := rows.Scan(&b.ProductID, &b.Description, &b.Cost, &b.Price, &b.Tier, &b.TierPrice); err != nil {
			return nil, fmt.Errorf("scan bracelet: %w", err)
		}
		bracelets = append(bracelets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bracelets: %w", err)
	}

	return bracelets, nil
}
