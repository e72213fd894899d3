// Package surface generates the synthetic implied-volatility surface.
package surface

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"volsurface/internal/errors"
)

// Model constants. The surface is anchored on a fixed spot.
const (
	Spot = 100.0

	MinMoneyness = 0.7
	MaxMoneyness = 1.3

	MinTenor = 1.0 / 12.0 // years
	MaxTenor = 2.0

	BaseVol       = 0.2
	SmileCurve    = 0.1
	TermSlope     = 0.05
	TermShift     = 0.5
	MinAxisLength = 2
)

// Surface holds the strike axis, tenor axis and the volatility grid.
// Vols has shape (len(Strikes), len(Tenors)); Vols.At(i, j) belongs to
// Strikes[i] and Tenors[j].
type Surface struct {
	Strikes []float64
	Tenors  []float64
	Vols    *mat.Dense
}

// Generate builds a surface with nStrikes strikes and nTenors tenors.
// Both counts must be at least 2; no upper bound is imposed here.
func Generate(nStrikes, nTenors int) (*Surface, error) {
	if nStrikes < MinAxisLength {
		return nil, errors.NewValidationError("n_strikes", nStrikes, "must be an integer >= 2")
	}
	if nTenors < MinAxisLength {
		return nil, errors.NewValidationError("n_tenors", nTenors, "must be an integer >= 2")
	}

	strikes := linspace(MinMoneyness*Spot, MaxMoneyness*Spot, nStrikes)
	tenors := linspace(MinTenor, MaxTenor, nTenors)

	vols := mat.NewDense(nStrikes, nTenors, nil)
	for i, k := range strikes {
		for j, t := range tenors {
			vols.Set(i, j, ImpliedVol(k, t))
		}
	}

	return &Surface{
		Strikes: strikes,
		Tenors:  tenors,
		Vols:    vols,
	}, nil
}

// ImpliedVol evaluates the smile plus term-structure formula at strike k and tenor t.
func ImpliedVol(k, t float64) float64 {
	return Smile(k/Spot) + Term(t)
}

// Smile returns the smile component for a given moneyness.
func Smile(moneyness float64) float64 {
	d := moneyness - 1
	return BaseVol + SmileCurve*d*d
}

// Term returns the term-structure component for tenor t in years.
func Term(t float64) float64 {
	return TermSlope * math.Log(t+TermShift)
}

// Dims returns the grid shape (strikes, tenors).
func (s *Surface) Dims() (int, int) {
	return s.Vols.Dims()
}

// At returns the volatility at strike index i and tenor index j.
func (s *Surface) At(i, j int) float64 {
	return s.Vols.At(i, j)
}

// SmileAt returns the volatility slice across strikes for tenor index j.
func (s *Surface) SmileAt(j int) []float64 {
	return mat.Col(nil, j, s.Vols)
}

// TermStructureAt returns the volatility slice across tenors for strike index i.
func (s *Surface) TermStructureAt(i int) []float64 {
	return mat.Row(nil, i, s.Vols)
}

// linspace returns n evenly spaced values over [lo, hi] with both
// endpoints set exactly.
func linspace(lo, hi float64, n int) []float64 {
	out := floats.Span(make([]float64, n), lo, hi)
	out[0] = lo
	out[n-1] = hi
	return out
}
