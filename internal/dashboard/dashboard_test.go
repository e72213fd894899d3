package dashboard

import (
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"volsurface/internal/config"
	"volsurface/internal/errors"
)

func testBounds() Bounds {
	return BoundsFromConfig(config.Default().Dashboard)
}

func TestClamp(t *testing.T) {
	b := testBounds()

	tests := []struct {
		in, want Controls
	}{
		{Controls{NStrikes: 20, NTenors: 10}, Controls{NStrikes: 20, NTenors: 10}},
		{Controls{NStrikes: 1, NTenors: 0}, Controls{NStrikes: 10, NTenors: 5}},
		{Controls{NStrikes: 500, NTenors: 21}, Controls{NStrikes: 50, NTenors: 20}},
		{Controls{NStrikes: 10, NTenors: 20, ShowTable: true}, Controls{NStrikes: 10, NTenors: 20, ShowTable: true}},
	}

	for _, tt := range tests {
		if got := b.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestParseControls(t *testing.T) {
	b := testBounds()

	c, err := b.ParseControls(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if c != (Controls{NStrikes: 20, NTenors: 10}) {
		t.Errorf("defaults = %+v", c)
	}

	c, err = b.ParseControls(url.Values{"strikes": {"35"}, "tenors": {" 7 "}, "table": {"true"}})
	if err != nil {
		t.Fatal(err)
	}
	if c != (Controls{NStrikes: 35, NTenors: 7, ShowTable: true}) {
		t.Errorf("parsed = %+v", c)
	}

	for _, q := range []url.Values{
		{"strikes": {"abc"}},
		{"tenors": {"2.5"}},
		{"table": {"maybe"}},
	} {
		if _, err := b.ParseControls(q); !errors.Is(err, errors.ErrInvalidParameter) {
			t.Errorf("ParseControls(%v): expected ErrInvalidParameter, got %v", q, err)
		}
	}
}

func TestBuild(t *testing.T) {
	d := New(testBounds(), zerolog.Nop())

	view, err := d.Build(Controls{NStrikes: 20, NTenors: 10})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if view.Table != nil {
		t.Error("table should be omitted when ShowTable is false")
	}
	if len(view.Plot.Data[0].Z) != 20 || len(view.Plot.Data[0].Z[0]) != 10 {
		t.Errorf("unexpected plot shape")
	}

	view, err = d.Build(Controls{NStrikes: 3, NTenors: 99, ShowTable: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if view.Controls.NStrikes != 10 || view.Controls.NTenors != 20 {
		t.Errorf("controls not clamped: %+v", view.Controls)
	}
	if view.Table == nil || len(view.Table.Index) != 10 || len(view.Table.Columns) != 20 {
		t.Errorf("unexpected table: %+v", view.Table)
	}
}

func TestBuildWithoutPolicyRejectsShortAxes(t *testing.T) {
	// A policy that lets degenerate sizes through still fails in the generator.
	d := New(Bounds{MinStrikes: 0, MaxStrikes: 50, MinTenors: 0, MaxTenors: 20}, zerolog.Nop())

	if _, err := d.Build(Controls{NStrikes: 1, NTenors: 5}); !errors.Is(err, errors.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}
