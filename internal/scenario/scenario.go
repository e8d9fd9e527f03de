package scenario

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GizzLda/Excel/internal/margin"
)

// ErrNotFound is returned when no preset matches a slug.
var ErrNotFound = errors.New("scenario preset not found")

// Preset is a named example transaction offered to the user as a starting point.
type Preset struct {
	Slug              string          `json:"slug"`
	Name              string          `json:"name"`
	SalePrice         float64         `json:"sale_price"`
	PurchasePrice     float64         `json:"purchase_price"`
	SaleType          margin.SaleType `json:"sale_type"`
	IncludeCreditCost bool            `json:"include_credit_cost"`
}

// Evaluate runs the margin evaluation for the preset's prices.
func (p Preset) Evaluate() margin.Result {
	return margin.Evaluate(p.SalePrice, p.PurchasePrice, p.SaleType, p.IncludeCreditCost)
}

// Store reads presets from the catalog database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// List returns all presets in display order.
func (s *Store) List(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, name, sale_price, purchase_price, sale_type, include_credit_cost
		FROM scenario_presets
		ORDER BY position, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query scenario presets: %w", err)
	}
	defer rows.Close()

	presets := make([]Preset, 0)
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scenario preset: %w", err)
		}
		presets = append(presets, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenario presets: %w", err)
	}

	return presets, nil
}

// Get returns the preset with the given slug.
func (s *Store) Get(ctx context.Context, slug string) (Preset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT slug, name, sale_price, purchase_price, sale_type, include_credit_cost
		FROM scenario_presets
		WHERE slug = ?
	`, slug)

	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
	}
	if err != nil {
		return Preset{}, fmt.Errorf("query scenario preset %s: %w", slug, err)
	}
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(row scanner) (Preset, error) {
	var p Preset
	var saleType string
	if err := row.Scan(&p.Slug, &p.Name, &p.SalePrice, &p.PurchasePrice, &saleType, &p.IncludeCreditCost); err != nil {
		return Preset{}, err
	}

	st, err := margin.ParseSaleType(saleType)
	if err != nil {
		return Preset{}, err
	}
	p.SaleType = st
	return p, nil
}
