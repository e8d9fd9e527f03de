package margin

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_AbsoluteTargetOnCredit(t *testing.T) {
	outcome := Solve(SolveParams{
		SalePrice:         500,
		SaleType:          SaleCredit,
		IncludeCreditCost: true,
		TargetKind:        TargetAbsoluteEUR,
		TargetValue:       40,
	})

	require.True(t, outcome.Success)
	assert.Equal(t, StatusConverged, outcome.Status)
	assert.Equal(t, MsgConverged, outcome.Message)
	require.NotNil(t, outcome.MaxPurchasePrice)
	// margin = (500-p)/1.23 - 32.5 = 40  =>  p = 410.825
	assert.InDelta(t, 410.825, *outcome.MaxPurchasePrice, 0.03)
	assert.Greater(t, outcome.Iterations, 0)
	assert.LessOrEqual(t, outcome.Iterations, DefaultMaxIterations)
	assert.NoError(t, outcome.Err())
}

func TestSolve_PercentTargetOnCash(t *testing.T) {
	outcome := Solve(SolveParams{
		SalePrice:   450,
		SaleType:    SaleCash,
		TargetKind:  TargetPercentOfPurchase,
		TargetValue: 0.1,
	})

	require.True(t, outcome.Success)
	require.NotNil(t, outcome.MaxPurchasePrice)

	r := Evaluate(450, *outcome.MaxPurchasePrice, SaleCash, false)
	require.NotNil(t, r.MarginPercent)
	assert.InDelta(t, 0.1, *r.MarginPercent, DefaultTolerance+1e-4)
}

func TestSolve_PercentTargetTightTolerance(t *testing.T) {
	outcome := Solve(SolveParams{
		SalePrice:   450,
		SaleType:    SaleCash,
		TargetKind:  TargetPercentOfPurchase,
		TargetValue: 0.1,
		Tolerance:   1e-5,
	})

	require.Equal(t, StatusConverged, outcome.Status)
	assert.InDelta(t, 376.07, *outcome.MaxPurchasePrice, 0.02)
}

func TestSolve_RoundTripReproducesTarget(t *testing.T) {
	cases := []struct {
		saleType   SaleType
		creditCost bool
		target     float64
	}{
		{SaleCredit, true, 0},
		{SaleCredit, true, 40},
		{SaleCredit, false, 120.5},
		{SaleCash, false, 10},
		{SaleCash, false, 300},
	}
	for _, tc := range cases {
		outcome := Solve(SolveParams{
			SalePrice:         500,
			SaleType:          tc.saleType,
			IncludeCreditCost: tc.creditCost,
			TargetKind:        TargetAbsoluteEUR,
			TargetValue:       tc.target,
		})
		require.True(t, outcome.Success, "%+v: %s", tc, outcome.Message)

		got := Evaluate(500, *outcome.MaxPurchasePrice, tc.saleType, tc.creditCost).Margin
		assert.InDelta(t, tc.target, got, DefaultTolerance, "%+v", tc)
	}
}

func TestSolve_RoundTripAcrossPriceGrid(t *testing.T) {
	for sale := 50.0; sale <= 2000; sale += 7.31 {
		for target := 0.0; target <= sale/2; target += 3.17 {
			outcome := Solve(SolveParams{
				SalePrice:         sale,
				SaleType:          SaleCredit,
				IncludeCreditCost: true,
				TargetKind:        TargetAbsoluteEUR,
				TargetValue:       target,
			})
			require.Equal(t, StatusConverged, outcome.Status, "sale=%v target=%v", sale, target)

			got := Evaluate(sale, *outcome.MaxPurchasePrice, SaleCredit, true).Margin
			if math.Abs(got-target) > DefaultTolerance {
				t.Fatalf("sale=%v target=%v price=%v: margin %v outside tolerance",
					sale, target, *outcome.MaxPurchasePrice, got)
			}
		}
	}

	// rounding the converged price to 841.07 misses the target by 0.014
	outcome := Solve(SolveParams{
		SalePrice:         1460.83,
		SaleType:          SaleCredit,
		IncludeCreditCost: true,
		TargetKind:        TargetAbsoluteEUR,
		TargetValue:       408.93,
	})
	require.True(t, outcome.Success)
	got := Evaluate(1460.83, *outcome.MaxPurchasePrice, SaleCredit, true).Margin
	assert.InDelta(t, 408.93, got, DefaultTolerance)
}

func TestSolve_PercentTargetNeedingZeroPrice(t *testing.T) {
	outcome := Solve(SolveParams{
		SalePrice:   450,
		SaleType:    SaleCash,
		TargetKind:  TargetPercentOfPurchase,
		TargetValue: 1e9,
	})

	assert.False(t, outcome.Success)
	assert.Equal(t, StatusUnreachable, outcome.Status)
	assert.Nil(t, outcome.MaxPurchasePrice)
	assert.True(t, errors.Is(outcome.Err(), ErrUnreachable))
}

func TestSolve_UnreachableTarget(t *testing.T) {
	outcome := Solve(SolveParams{
		SalePrice:         200,
		SaleType:          SaleCredit,
		IncludeCreditCost: true,
		TargetKind:        TargetAbsoluteEUR,
		TargetValue:       10000,
	})

	assert.False(t, outcome.Success)
	assert.Equal(t, StatusUnreachable, outcome.Status)
	assert.Contains(t, outcome.Message, "unreachable")
	assert.Nil(t, outcome.MaxPurchasePrice)
	assert.Zero(t, outcome.Iterations)
	assert.True(t, errors.Is(outcome.Err(), ErrUnreachable))
}

func TestSolve_InvalidParameters(t *testing.T) {
	valid := SolveParams{
		SalePrice:   500,
		SaleType:    SaleCredit,
		TargetKind:  TargetAbsoluteEUR,
		TargetValue: 40,
	}
	cases := map[string]func(p *SolveParams){
		"zero sale price":     func(p *SolveParams) { p.SalePrice = 0 },
		"negative sale price": func(p *SolveParams) { p.SalePrice = -1 },
		"NaN sale price":      func(p *SolveParams) { p.SalePrice = math.NaN() },
		"infinite sale price": func(p *SolveParams) { p.SalePrice = math.Inf(1) },
		"negative target":     func(p *SolveParams) { p.TargetValue = -0.01 },
		"NaN target":          func(p *SolveParams) { p.TargetValue = math.NaN() },
		"negative tolerance":  func(p *SolveParams) { p.Tolerance = -1 },
		"negative iterations": func(p *SolveParams) { p.MaxIterations = -3 },
		"unknown sale type":   func(p *SolveParams) { p.SaleType = "barter" },
		"unknown target kind": func(p *SolveParams) { p.TargetKind = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := valid
			mutate(&p)
			outcome := Solve(p)

			assert.False(t, outcome.Success)
			assert.Equal(t, StatusInvalidParameters, outcome.Status)
			assert.Equal(t, MsgInvalidParameters, outcome.Message)
			assert.Zero(t, outcome.Iterations)
			assert.Nil(t, outcome.MaxPurchasePrice)
			assert.True(t, errors.Is(outcome.Err(), ErrInvalidParameters))
		})
	}
}

func TestSolve_IterationLimitWithCandidate(t *testing.T) {
	outcome := Solve(SolveParams{
		SalePrice:         500,
		SaleType:          SaleCredit,
		IncludeCreditCost: true,
		TargetKind:        TargetAbsoluteEUR,
		TargetValue:       40,
		Tolerance:         1e-9,
		MaxIterations:     1,
	})

	// the single probe at 250 still clears the target
	assert.True(t, outcome.Success)
	assert.Equal(t, StatusApproximate, outcome.Status)
	assert.Equal(t, MsgApproximate, outcome.Message)
	assert.Equal(t, 1, outcome.Iterations)
	assert.Equal(t, 250.0, *outcome.MaxPurchasePrice)
}

func TestSolve_IterationLimitWithoutCandidate(t *testing.T) {
	outcome := Solve(SolveParams{
		SalePrice:         500,
		SaleType:          SaleCredit,
		IncludeCreditCost: true,
		TargetKind:        TargetAbsoluteEUR,
		TargetValue:       300,
		Tolerance:         1e-9,
		MaxIterations:     1,
	})

	assert.False(t, outcome.Success)
	assert.Equal(t, StatusNotConverged, outcome.Status)
	assert.Equal(t, 1, outcome.Iterations)
	assert.Nil(t, outcome.MaxPurchasePrice)
	assert.True(t, errors.Is(outcome.Err(), ErrNotConverged))
}

func TestSolve_ResultIsRoundedToCents(t *testing.T) {
	outcome := Solve(SolveParams{
		SalePrice:   333.33,
		SaleType:    SaleCash,
		TargetKind:  TargetAbsoluteEUR,
		TargetValue: 17.17,
	})

	require.True(t, outcome.Success)
	p := *outcome.MaxPurchasePrice
	assert.Equal(t, Round2(p), p)
}

func TestParseTargetKind(t *testing.T) {
	kind, err := ParseTargetKind(" EUR ")
	require.NoError(t, err)
	assert.Equal(t, TargetAbsoluteEUR, kind)

	kind, err = ParseTargetKind("percent")
	require.NoError(t, err)
	assert.Equal(t, TargetPercentOfPurchase, kind)

	_, err = ParseTargetKind("bps")
	assert.Error(t, err)
}
