package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/GizzLda/Excel/internal/margin"
	"github.com/GizzLda/Excel/internal/scenario"
)

// DefaultPresets is the catalog installed on startup.
var DefaultPresets = []scenario.Preset{
	{Slug: "iphone-13-credito", Name: "iPhone 13 (Crédito)", SalePrice: 520, PurchasePrice: 400, SaleType: margin.SaleCredit, IncludeCreditCost: true},
	{Slug: "samsung-s22-pronto", Name: "Samsung S22 (Pronto)", SalePrice: 430, PurchasePrice: 320, SaleType: margin.SaleCash},
	{Slug: "xiaomi-12-credito-sem-custo", Name: "Xiaomi 12 (Crédito sem custo)", SalePrice: 300, PurchasePrice: 220, SaleType: margin.SaleCredit},
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run installs the given presets in an idempotent way. Existing slugs are left untouched.
func Run(ctx context.Context, db *sql.DB, presets []scenario.Preset) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}
	for i, p := range presets {
		if err := ensurePreset(ctx, tx, p, i, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensurePreset(ctx context.Context, tx *sql.Tx, p scenario.Preset, position int, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM scenario_presets WHERE slug = ? LIMIT 1)`, p.Slug).Scan(&exists); err != nil {
		return fmt.Errorf("check preset %s existence: %w", p.Slug, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO scenario_presets (slug, name, sale_price, purchase_price, sale_type, include_credit_cost, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.Slug, p.Name, p.SalePrice, p.PurchasePrice, string(p.SaleType), p.IncludeCreditCost, position); err != nil {
		return fmt.Errorf("insert preset %s: %w", p.Slug, err)
	}
	stats.Inserts++
	return nil
}
