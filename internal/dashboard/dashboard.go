// Package dashboard hosts the interactive surface view: it reads control
// values, applies the slider policy and runs the generator and presenter on
// every refresh.
package dashboard

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"volsurface/internal/config"
	"volsurface/internal/errors"
	"volsurface/internal/logging"
	"volsurface/internal/present"
	"volsurface/internal/surface"
)

// Controls are the user-adjustable inputs of the dashboard.
type Controls struct {
	NStrikes  int  `json:"n_strikes"`
	NTenors   int  `json:"n_tenors"`
	ShowTable bool `json:"show_table"`
}

// Bounds is the slider policy: each control is clamped to [Min, Max].
type Bounds struct {
	MinStrikes, MaxStrikes, DefaultStrikes int
	MinTenors, MaxTenors, DefaultTenors    int
	ShowTable                              bool
}

// BoundsFromConfig builds the slider policy from the dashboard config section.
func BoundsFromConfig(c config.DashboardConfig) Bounds {
	return Bounds{
		MinStrikes:     c.MinStrikes,
		MaxStrikes:     c.MaxStrikes,
		DefaultStrikes: c.DefaultStrikes,
		MinTenors:      c.MinTenors,
		MaxTenors:      c.MaxTenors,
		DefaultTenors:  c.DefaultTenors,
		ShowTable:      c.ShowTable,
	}
}

// Defaults returns the initial control values.
func (b Bounds) Defaults() Controls {
	return Controls{
		NStrikes:  b.DefaultStrikes,
		NTenors:   b.DefaultTenors,
		ShowTable: b.ShowTable,
	}
}

// Clamp forces both grid sizes into their slider ranges.
func (b Bounds) Clamp(c Controls) Controls {
	c.NStrikes = clamp(c.NStrikes, b.MinStrikes, b.MaxStrikes)
	c.NTenors = clamp(c.NTenors, b.MinTenors, b.MaxTenors)
	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseControls reads controls from query values, falling back to the
// defaults for absent keys. Non-integer sizes are rejected.
func (b Bounds) ParseControls(q url.Values) (Controls, error) {
	c := b.Defaults()

	if v := q.Get("strikes"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return c, errors.NewValidationError("strikes", v, "must be an integer")
		}
		c.NStrikes = n
	}
	if v := q.Get("tenors"); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return c, errors.NewValidationError("tenors", v, "must be an integer")
		}
		c.NTenors = n
	}
	if v := q.Get("table"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			return c, errors.NewValidationError("table", v, "must be a boolean")
		}
		c.ShowTable = show
	}

	return c, nil
}

// View is one rendered refresh: the effective controls, the surface figure
// and, when requested, the data table.
type View struct {
	Controls Controls             `json:"controls"`
	Plot     *present.SurfacePlot `json:"plot"`
	Table    *present.Table       `json:"table,omitempty"`
}

// Dashboard builds views under a slider policy.
type Dashboard struct {
	bounds Bounds
	logger zerolog.Logger
}

// New creates a Dashboard.
func New(bounds Bounds, logger zerolog.Logger) *Dashboard {
	return &Dashboard{
		bounds: bounds,
		logger: logging.WithOperation(logger, "dashboard"),
	}
}

// Bounds returns the slider policy.
func (d *Dashboard) Bounds() Bounds {
	return d.bounds
}

// Surface clamps the controls and generates the surface.
func (d *Dashboard) Surface(c Controls) (Controls, *surface.Surface, error) {
	c = d.bounds.Clamp(c)
	s, err := surface.Generate(c.NStrikes, c.NTenors)
	if err != nil {
		return c, nil, errors.Wrap(err, "generating surface")
	}
	return c, s, nil
}

// Build recomputes the whole view from scratch.
func (d *Dashboard) Build(c Controls) (*View, error) {
	start := time.Now()

	c, s, err := d.Surface(c)
	if err != nil {
		return nil, err
	}

	plot, err := present.ToSurfacePlot(s.Strikes, s.Tenors, s.Vols)
	if err != nil {
		return nil, errors.Wrap(err, "building surface plot")
	}

	view := &View{Controls: c, Plot: plot}
	if c.ShowTable {
		table, err := present.ToTable(s.Strikes, s.Tenors, s.Vols)
		if err != nil {
			return nil, errors.Wrap(err, "building table")
		}
		view.Table = table
	}

	logging.LogSurface(d.logger, c.NStrikes, c.NTenors, c.ShowTable, time.Since(start))
	return view, nil
}
