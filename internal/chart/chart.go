// Package chart renders volatility smiles to PNG.
package chart

import (
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"volsurface/internal/errors"
	"volsurface/internal/present"
	"volsurface/internal/surface"
)

// Options controls the rendered image.
type Options struct {
	Width  int
	Height int
	Title  string
}

// DefaultOptions returns the default chart options.
func DefaultOptions() Options {
	return Options{
		Width:  800,
		Height: 600,
		Title:  "Implied Volatility Smiles",
	}
}

// RenderSmiles draws one line per tenor (volatility against strike) and
// writes the PNG to w.
func RenderSmiles(w io.Writer, s *surface.Surface, opts Options) error {
	if s == nil || s.Vols == nil {
		return errors.NewShapeError("chart", 0, 0, 0, 0)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return errors.NewValidationError("chart size", [2]int{opts.Width, opts.Height}, "width and height must be positive")
	}

	series := make([]gochart.Series, 0, len(s.Tenors))
	for j, t := range s.Tenors {
		series = append(series, gochart.ContinuousSeries{
			Name:    present.FormatTenor(t),
			XValues: s.Strikes,
			YValues: s.SmileAt(j),
			Style: gochart.Style{
				StrokeColor: gochart.GetDefaultColor(j),
				StrokeWidth: 2,
			},
		})
	}

	graph := gochart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      gochart.XAxis{Name: present.StrikeTitle},
		YAxis:      gochart.YAxis{Name: present.VolTitle},
		Series:     series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return errors.NewRenderError("png", err)
	}
	return nil
}
