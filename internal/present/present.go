// Package present maps a volatility surface into renderable descriptions:
// a 3-D surface figure and a labelled data table.
package present

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"volsurface/internal/errors"
)

// Labels used by the surface figure.
const (
	Title       = "Implied Volatility Surface"
	TenorTitle  = "Tenor (Years)"
	StrikeTitle = "Strike"
	VolTitle    = "Implied Volatility"

	DefaultWidth  = 800
	DefaultHeight = 800
)

// SurfacePlot is a figure description in the shape plotly.js consumes.
type SurfacePlot struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single surface mesh. X holds tenors and Y holds strikes, both
// expanded to the grid shape; Z holds volatilities.
type Trace struct {
	Type string      `json:"type"`
	X    [][]float64 `json:"x"`
	Y    [][]float64 `json:"y"`
	Z    [][]float64 `json:"z"`
}

// Layout carries the figure title, axis titles and display size.
type Layout struct {
	Title  string `json:"title"`
	Scene  Scene  `json:"scene"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Scene names the three axes of the 3-D plot.
type Scene struct {
	XAxis Axis `json:"xaxis"`
	YAxis Axis `json:"yaxis"`
	ZAxis Axis `json:"zaxis"`
}

// Axis is a titled plot axis.
type Axis struct {
	Title string `json:"title"`
}

// Table is a labelled matrix: one row per strike, one column per tenor.
type Table struct {
	Index   []string    `json:"index"`
	Columns []string    `json:"columns"`
	Data    [][]float64 `json:"data"`
}

// ToSurfacePlot builds the surface figure for the given axes and grid.
func ToSurfacePlot(strikes, tenors []float64, vols mat.Matrix) (*SurfacePlot, error) {
	if err := checkShape("surface", strikes, tenors, vols); err != nil {
		return nil, err
	}

	x, y := meshgrid(tenors, strikes)

	return &SurfacePlot{
		Data: []Trace{{
			Type: "surface",
			X:    x,
			Y:    y,
			Z:    rows(vols),
		}},
		Layout: Layout{
			Title: Title,
			Scene: Scene{
				XAxis: Axis{Title: TenorTitle},
				YAxis: Axis{Title: StrikeTitle},
				ZAxis: Axis{Title: VolTitle},
			},
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
	}, nil
}

// ToTable builds the data table for the given axes and grid. Cell values
// are copied without rounding.
func ToTable(strikes, tenors []float64, vols mat.Matrix) (*Table, error) {
	if err := checkShape("table", strikes, tenors, vols); err != nil {
		return nil, err
	}

	index := make([]string, len(strikes))
	for i, k := range strikes {
		index[i] = FormatStrike(k)
	}
	columns := make([]string, len(tenors))
	for j, t := range tenors {
		columns[j] = FormatTenor(t)
	}

	return &Table{
		Index:   index,
		Columns: columns,
		Data:    rows(vols),
	}, nil
}

// FormatStrike renders a strike row label, e.g. "70.00".
func FormatStrike(k float64) string {
	return fmt.Sprintf("%.2f", k)
}

// FormatTenor renders a tenor column label, e.g. "2.00Y".
func FormatTenor(t float64) string {
	return fmt.Sprintf("%.2fY", t)
}

// Lookup returns the cell at the given row and column labels.
func (t *Table) Lookup(row, col string) (float64, bool) {
	i := indexOf(t.Index, row)
	j := indexOf(t.Columns, col)
	if i < 0 || j < 0 {
		return 0, false
	}
	return t.Data[i][j], true
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

func checkShape(op string, strikes, tenors []float64, vols mat.Matrix) error {
	if isNil(vols) {
		return errors.NewShapeError(op, len(strikes), len(tenors), 0, 0)
	}
	r, c := vols.Dims()
	if len(strikes) == 0 || len(tenors) == 0 || r != len(strikes) || c != len(tenors) {
		return errors.NewShapeError(op, len(strikes), len(tenors), r, c)
	}
	return nil
}

func isNil(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	d, ok := m.(*mat.Dense)
	return ok && d == nil
}

// meshgrid expands two axes to the (len(ys), len(xs)) grid shape:
// xx[i][j] = xs[j], yy[i][j] = ys[i].
func meshgrid(xs, ys []float64) (xx, yy [][]float64) {
	xx = make([][]float64, len(ys))
	yy = make([][]float64, len(ys))
	for i, y := range ys {
		xx[i] = make([]float64, len(xs))
		yy[i] = make([]float64, len(xs))
		copy(xx[i], xs)
		for j := range xs {
			yy[i][j] = y
		}
	}
	return xx, yy
}

func rows(m mat.Matrix) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}
