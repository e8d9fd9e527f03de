// Package summary renders the plain-text calculation summary users copy out of the app.
package summary

import (
	"strings"

	"github.com/GizzLda/Excel/internal/format"
	"github.com/GizzLda/Excel/internal/margin"
)

// Margin summarises a direct margin evaluation.
func Margin(salePrice, purchasePrice float64, saleType margin.SaleType, r margin.Result) string {
	lines := []string{
		"Modo: Calcular Margem",
		"Tipo venda: " + saleType.Label(),
		"Preço venda: " + format.Amount(salePrice),
		"Preço compra: " + format.Amount(purchasePrice),
	}
	lines = append(lines, resultLines(r)...)
	return strings.Join(lines, "\n")
}

// Solver summarises a maximum purchase price search. r is the evaluation at the
// price found and may be nil when the search failed.
func Solver(p margin.SolveParams, o margin.Outcome, r *margin.Result) string {
	lines := []string{
		"Modo: Preço Máximo de Compra",
		"Tipo venda: " + p.SaleType.Label(),
		"Preço venda: " + format.Amount(p.SalePrice),
	}

	if p.TargetKind == margin.TargetPercentOfPurchase {
		lines = append(lines,
			"Objetivo: Margem em %",
			"Valor objetivo: "+format.Percent(&p.TargetValue),
		)
	} else {
		lines = append(lines,
			"Objetivo: Margem em EUR",
			"Valor objetivo: "+format.Amount(p.TargetValue),
		)
	}

	lines = append(lines,
		"Preço máximo de compra: "+format.Currency(o.MaxPurchasePrice),
		"Mensagem: "+o.Message,
	)
	if r != nil {
		lines = append(lines, resultLines(*r)...)
	}
	return strings.Join(lines, "\n")
}

func resultLines(r margin.Result) []string {
	r = r.Rounded()
	lines := []string{
		"IVA Margem: " + format.Amount(r.MarginVAT),
		"Custo Crédito: " + format.Amount(r.CreditCost),
		"Margem: " + format.Amount(r.Margin),
		"Margem %: " + format.Percent(r.MarginPercent),
	}
	for _, w := range r.Warnings {
		lines = append(lines, "Aviso: "+w)
	}
	return lines
}
