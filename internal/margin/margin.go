package margin

import (
	"fmt"
	"strings"
)

const (
	// VATRate is the VAT rate embedded in the gross resale margin.
	VATRate = 0.23
	// CreditCostRate is the financing surcharge on credit sales, as a fraction of sale price.
	CreditCostRate = 0.065
	// CashRevenueFactor is the share of the sale price kept on a cash sale.
	CashRevenueFactor = 0.95
)

// Warning messages attached to a Result, in evaluation order.
const (
	WarnPurchaseNotBelowSale = "purchase price ≥ sale price"
	WarnPurchaseNotPositive  = "purchase price must exceed 0 to compute margin percent"
	WarnNegativeMargin       = "margin is negative"
	WarnUnknownSaleType      = "unknown sale type: margin not computed"
)

// SaleType selects the margin formula applied to a sale.
type SaleType string

const (
	SaleCredit SaleType = "credit"
	SaleCash   SaleType = "cash"
)

// ParseSaleType maps user input to a SaleType.
func ParseSaleType(raw string) (SaleType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "credit", "credito", "crédito":
		return SaleCredit, nil
	case "cash", "pronto":
		return SaleCash, nil
	}
	return "", fmt.Errorf("unknown sale type %q", raw)
}

func (s SaleType) valid() bool {
	return s == SaleCredit || s == SaleCash
}

// Label returns the display name of the sale type.
func (s SaleType) Label() string {
	if s == SaleCash {
		return "Pronto pagamento"
	}
	return "A crédito"
}

// Result is the breakdown of a single margin evaluation.
type Result struct {
	MarginVAT      float64  `json:"margin_vat"`
	CreditCost     float64  `json:"credit_cost"`
	NetSaleRevenue float64  `json:"net_sale_revenue"`
	Margin         float64  `json:"margin"`
	MarginPercent  *float64 `json:"margin_percent"` // fraction of purchase price; nil when purchase price <= 0
	Warnings       []string `json:"warnings"`
}

// Rounded returns a copy with money amounts rounded to cents.
func (r Result) Rounded() Result {
	out := Result{
		MarginVAT:      Round2(r.MarginVAT),
		CreditCost:     Round2(r.CreditCost),
		NetSaleRevenue: Round2(r.NetSaleRevenue),
		Margin:         Round2(r.Margin),
		Warnings:       make([]string, len(r.Warnings)),
	}
	copy(out.Warnings, r.Warnings)
	if r.MarginPercent != nil {
		pct := *r.MarginPercent
		out.MarginPercent = &pct
	}
	return out
}

// Evaluate computes the margin of selling at salePrice an item bought at purchasePrice.
// includeCreditCost only applies to credit sales. Inputs must be finite.
// An unknown sale type yields a zero Result carrying only WarnUnknownSaleType.
func Evaluate(salePrice, purchasePrice float64, saleType SaleType, includeCreditCost bool) Result {
	if !saleType.valid() {
		return Result{Warnings: []string{WarnUnknownSaleType}}
	}

	marginVAT := vatOnMargin(salePrice, purchasePrice)

	var creditCost, netSaleRevenue, margin float64
	switch saleType {
	case SaleCash:
		netSaleRevenue = salePrice * CashRevenueFactor
		margin = netSaleRevenue - marginVAT - purchasePrice
	case SaleCredit:
		if includeCreditCost {
			creditCost = salePrice * CreditCostRate
		}
		netSaleRevenue = salePrice - creditCost
		margin = salePrice - creditCost - marginVAT - purchasePrice
	}

	var marginPercent *float64
	if purchasePrice > 0 {
		pct := margin / purchasePrice
		marginPercent = &pct
	}

	warnings := make([]string, 0, 3)
	if purchasePrice >= salePrice {
		warnings = append(warnings, WarnPurchaseNotBelowSale)
	}
	if purchasePrice <= 0 {
		warnings = append(warnings, WarnPurchaseNotPositive)
	}
	if margin < 0 {
		warnings = append(warnings, WarnNegativeMargin)
	}

	return Result{
		MarginVAT:      marginVAT,
		CreditCost:     creditCost,
		NetSaleRevenue: netSaleRevenue,
		Margin:         margin,
		MarginPercent:  marginPercent,
		Warnings:       warnings,
	}
}

// vatOnMargin extracts the VAT contained in a VAT-inclusive gross margin.
// Credit cost never enters the VAT base, and a loss carries no VAT.
func vatOnMargin(salePrice, purchasePrice float64) float64 {
	gross := salePrice - purchasePrice
	if gross <= 0 {
		return 0
	}
	return gross - gross/(1+VATRate)
}
