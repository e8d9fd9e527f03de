package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/GizzLda/Excel/internal/format"
	"github.com/GizzLda/Excel/internal/margin"
)

type marginForm struct {
	SalePrice         float64
	PurchasePrice     float64
	SaleType          margin.SaleType
	IncludeCreditCost bool
}

func parseMarginForm(r *http.Request) (marginForm, error) {
	var f marginForm

	var err error
	if f.SalePrice, err = format.ParseAmount(r.FormValue("sale_price"), "sale_price"); err != nil {
		return f, err
	}
	if f.PurchasePrice, err = format.ParseAmount(r.FormValue("purchase_price"), "purchase_price"); err != nil {
		return f, err
	}
	if f.SaleType, err = parseSaleType(r.FormValue("sale_type")); err != nil {
		return f, err
	}
	f.IncludeCreditCost = format.ParseFlag(r.FormValue("include_credit_cost"))

	return f, nil
}

// parseSolveForm reads solver parameters. Percent targets arrive in percent
// units (20 means 20%) and are converted to a fraction.
func parseSolveForm(r *http.Request) (margin.SolveParams, error) {
	var p margin.SolveParams

	var err error
	if p.SalePrice, err = format.ParseAmount(r.FormValue("sale_price"), "sale_price"); err != nil {
		return p, err
	}
	if p.SaleType, err = parseSaleType(r.FormValue("sale_type")); err != nil {
		return p, err
	}
	p.IncludeCreditCost = format.ParseFlag(r.FormValue("include_credit_cost"))

	kind := strings.TrimSpace(r.FormValue("target_kind"))
	if kind == "" {
		p.TargetKind = margin.TargetAbsoluteEUR
	} else if p.TargetKind, err = margin.ParseTargetKind(kind); err != nil {
		return p, fmt.Errorf("target_kind must be eur or percent")
	}

	if p.TargetValue, err = format.ParseAmount(r.FormValue("target_value"), "target_value"); err != nil {
		return p, err
	}
	if p.TargetKind == margin.TargetPercentOfPurchase {
		p.TargetValue /= 100
	}

	if p.Tolerance, err = format.ParseOptionalAmount(r.FormValue("tolerance"), "tolerance"); err != nil {
		return p, err
	}
	if raw := strings.TrimSpace(r.FormValue("max_iterations")); raw != "" {
		if p.MaxIterations, err = strconv.Atoi(raw); err != nil {
			return p, fmt.Errorf("max_iterations must be an integer")
		}
	}

	return p, nil
}

func parseSaleType(raw string) (margin.SaleType, error) {
	if strings.TrimSpace(raw) == "" {
		return margin.SaleCredit, nil
	}
	st, err := margin.ParseSaleType(raw)
	if err != nil {
		return "", fmt.Errorf("sale_type must be credit or cash")
	}
	return st, nil
}
