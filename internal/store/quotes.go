package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/selah/internal/catalog"
	"github.com/Simplici0/selah/internal/pricing"
)

// QuoteTTL is how long a computed price stays available for registration.
const QuoteTTL = 24 * time.Hour

type quoteSelection struct {
	MaterialID *string `json:"material_id"`
	Quantity   int     `json:"quantity"`
}

type quoteRequest struct {
	Thread     string           `json:"thread"`
	Selections []quoteSelection `json:"selections"`
}

func encodeRequest(req pricing.Request) ([]byte, error) {
	out := quoteRequest{Thread: req.Thread.String(), Selections: make([]quoteSelection, 0, pricing.MaxSelections)}
	for _, sel := range req.Selections {
		qs := quoteSelection{Quantity: sel.Quantity}
		if sel.Selected {
			id := sel.MaterialID
			qs.MaterialID = &id
		}
		out.Selections = append(out.Selections, qs)
	}
	return json.Marshal(out)
}

func decodeRequest(data []byte) (pricing.Request, error) {
	var in quoteRequest
	if err := json.Unmarshal(data, &in); err != nil {
		return pricing.Request{}, err
	}

	thread, err := pricing.ParseThreadType(in.Thread)
	if err != nil {
		return pricing.Request{}, err
	}

	req := pricing.NewRequest()
	req.Thread = thread
	for i, qs := range in.Selections {
		if i >= pricing.MaxSelections {
			break
		}
		if qs.MaterialID != nil {
			req.Selections[i] = pricing.Select(*qs.MaterialID, qs.Quantity)
		} else {
			req.Selections[i] = pricing.Selection{Quantity: qs.Quantity}
		}
	}
	return req, nil
}

// SaveQuote stores a computed price under a fresh random token.
func (s *Store) SaveQuote(ctx context.Context, req pricing.Request, result pricing.Result) (catalog.Quote, error) {
	payload, err := encodeRequest(req)
	if err != nil {
		return catalog.Quote{}, fmt.Errorf("encode quote request: %w", err)
	}

	quote := catalog.Quote{
		ID:        uuid.NewString(),
		Request:   req,
		Result:    result,
		CreatedAt: s.now().UTC().Truncate(time.Second),
	}

	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO quotes (
			id, request_json, material_cost, fixed_cost, marketing,
			final_price, tier, tier_price, created_unix
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		quote.ID, string(payload),
		result.MaterialCost, result.FixedCost, result.Marketing,
		result.FinalPrice, string(result.Tier), result.TierReferencePrice,
		quote.CreatedAt.Unix(),
	)
	if err != nil {
		return catalog.Quote{}, writeError("quote", err)
	}

	return quote, nil
}

// GetQuote loads a pending quote. Unknown, malformed and expired tokens return ErrNotFound.
func (s *Store) GetQuote(ctx context.Context, id string) (catalog.Quote, error) {
	if _, err := uuid.Parse(id); err != nil {
		return catalog.Quote{}, ErrNotFound
	}

	var (
		quote   catalog.Quote
		payload string
		tier    string
		created int64
	)
	err := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, request_json, material_cost, fixed_cost, marketing,
			final_price, tier, tier_price, created_unix
		FROM quotes
		WHERE id = ?
	`), id).Scan(
		&quote.ID, &payload,
		&quote.Result.MaterialCost, &quote.Result.FixedCost, &quote.Result.Marketing,
		&quote.Result.FinalPrice, &tier, &quote.Result.TierReferencePrice,
		&created,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.Quote{}, ErrNotFound
	}
	if err != nil {
		return catalog.Quote{}, fmt.Errorf("query quote: %w", err)
	}

	quote.Result.Tier = pricing.Tier(tier)
	quote.CreatedAt = time.Unix(created, 0).UTC()
	if s.now().Sub(quote.CreatedAt) > QuoteTTL {
		return catalog.Quote{}, ErrNotFound
	}

	quote.Request, err = decodeRequest([]byte(payload))
	if err != nil {
		return catalog.Quote{}, fmt.Errorf("decode quote request: %w", err)
	}

	return quote, nil
}

// DeleteQuote discards a pending quote. Deleting an unknown quote is not an error.
func (s *Store) DeleteQuote(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, s.q(`DELETE FROM quotes WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}

// PurgeExpiredQuotes removes quotes older than QuoteTTL and returns how many were removed.
func (s *Store) PurgeExpiredQuotes(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-QuoteTTL).Unix()
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM quotes WHERE created_unix < ?`), cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge quotes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge quotes: %w", err)
	}
	return n, nil
}
