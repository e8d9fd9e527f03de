package margin

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	DefaultTolerance     = 0.01
	DefaultMaxIterations = 200
)

// Solver outcome messages.
const (
	MsgInvalidParameters = "invalid parameters"
	MsgUnreachable       = "target margin unreachable in range [0, salePrice]"
	MsgConverged         = "maximum price found successfully."
	MsgApproximate       = "approximate result: iteration limit reached"
	MsgNotConverged      = "target margin not reached within tolerance"
)

var (
	ErrInvalidParameters = errors.New("invalid solver parameters")
	ErrUnreachable       = errors.New("target margin unreachable")
	ErrNotConverged      = errors.New("solver did not converge")
)

// TargetKind selects how a solver target value is read.
type TargetKind string

const (
	// TargetAbsoluteEUR is a margin amount in euros.
	TargetAbsoluteEUR TargetKind = "eur"
	// TargetPercentOfPurchase is a margin as a fraction of purchase price (0.20 = 20%).
	TargetPercentOfPurchase TargetKind = "percent"
)

// ParseTargetKind maps user input to a TargetKind.
func ParseTargetKind(raw string) (TargetKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "eur", "absolute":
		return TargetAbsoluteEUR, nil
	case "percent", "pct", "%":
		return TargetPercentOfPurchase, nil
	}
	return "", fmt.Errorf("unknown target kind %q", raw)
}

func (k TargetKind) valid() bool {
	return k == TargetAbsoluteEUR || k == TargetPercentOfPurchase
}

// Status classifies a solver outcome.
type Status string

const (
	StatusConverged         Status = "converged"
	StatusApproximate       Status = "approximate"
	StatusInvalidParameters Status = "invalid_parameters"
	StatusUnreachable       Status = "unreachable"
	StatusNotConverged      Status = "not_converged"
)

// SolveParams describes a maximum purchase price search.
// Zero Tolerance or MaxIterations selects the default.
type SolveParams struct {
	SalePrice         float64
	SaleType          SaleType
	IncludeCreditCost bool
	TargetKind        TargetKind
	TargetValue       float64
	Tolerance         float64
	MaxIterations     int
}

// Outcome is the result of Solve.
type Outcome struct {
	Success          bool     `json:"success"`
	Status           Status   `json:"status"`
	MaxPurchasePrice *float64 `json:"max_purchase_price"`
	Iterations       int      `json:"iterations"`
	Message          string   `json:"message"`
}

// Err returns nil for successful outcomes and a sentinel-wrapping error otherwise.
func (o Outcome) Err() error {
	switch o.Status {
	case StatusConverged, StatusApproximate:
		return nil
	case StatusInvalidParameters:
		return fmt.Errorf("%w: %s", ErrInvalidParameters, o.Message)
	case StatusUnreachable:
		return fmt.Errorf("%w: %s", ErrUnreachable, o.Message)
	default:
		return fmt.Errorf("%w: %s", ErrNotConverged, o.Message)
	}
}

// Solve finds the highest purchase price in [0, SalePrice] whose margin still
// meets the target. Margin falls as purchase price rises, so the search is a
// bisection over Evaluate.
func Solve(p SolveParams) Outcome {
	tolerance := p.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}
	maxIterations := p.MaxIterations
	if maxIterations == 0 {
		maxIterations = DefaultMaxIterations
	}

	if !isFinite(p.SalePrice) || p.SalePrice <= 0 ||
		!isFinite(p.TargetValue) || p.TargetValue < 0 ||
		!isFinite(tolerance) || tolerance < 0 ||
		maxIterations < 0 ||
		!p.SaleType.valid() || !p.TargetKind.valid() {
		return failure(StatusInvalidParameters, MsgInvalidParameters, 0)
	}

	diff := func(purchasePrice float64) float64 {
		r := Evaluate(p.SalePrice, purchasePrice, p.SaleType, p.IncludeCreditCost)
		if p.TargetKind == TargetPercentOfPurchase {
			if purchasePrice <= 0 || r.MarginPercent == nil {
				return math.Inf(1)
			}
			return *r.MarginPercent - p.TargetValue
		}
		return r.Margin - p.TargetValue
	}

	// atCents reports the cent price for a converged mid. Rounding can push the
	// margin out of tolerance, so the neighbouring cent toward the root is tried.
	atCents := func(mid float64) (float64, bool) {
		price := Round2(mid)
		d := diff(price)
		if math.Abs(d) <= tolerance {
			return price, true
		}
		next := Round2(price - 0.01)
		if d > 0 {
			next = Round2(price + 0.01)
		}
		if next < 0 || next > p.SalePrice || math.Abs(diff(next)) > tolerance {
			return 0, false
		}
		return next, true
	}

	// A percent margin is undefined at a zero price.
	finish := func(status Status, message string, price float64, iterations int) Outcome {
		price = Round2(price)
		if p.TargetKind == TargetPercentOfPurchase && price <= 0 {
			return failure(StatusUnreachable, MsgUnreachable, iterations)
		}
		return success(status, message, price, iterations)
	}

	low, high := 0.0, p.SalePrice
	if diff(low) < 0 || diff(high) > 0 {
		return failure(StatusUnreachable, MsgUnreachable, 0)
	}

	best, found := 0.0, false
	for i := 1; i <= maxIterations; i++ {
		mid := (low + high) / 2
		d := diff(mid)
		if d >= 0 {
			best, found = mid, true
			low = mid
		} else {
			high = mid
		}

		if math.Abs(d) <= tolerance {
			if price, ok := atCents(mid); ok {
				return finish(StatusConverged, MsgConverged, price, i)
			}
		}
	}

	if !found {
		return failure(StatusNotConverged, MsgNotConverged, maxIterations)
	}
	return finish(StatusApproximate, MsgApproximate, best, maxIterations)
}

func success(status Status, message string, price float64, iterations int) Outcome {
	rounded := Round2(price)
	return Outcome{
		Success:          true,
		Status:           status,
		MaxPurchasePrice: &rounded,
		Iterations:       iterations,
		Message:          message,
	}
}

func failure(status Status, message string, iterations int) Outcome {
	return Outcome{
		Status:     status,
		Iterations: iterations,
		Message:    message,
	}
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
