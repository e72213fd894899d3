package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"

	"volsurface/internal/chart"
	"volsurface/internal/dashboard"
	"volsurface/internal/errors"
	"volsurface/internal/logging"
	"volsurface/internal/present"
	"volsurface/internal/surface"
)

// gridFlags resolves --strikes/--tenors, falling back to the dashboard
// defaults of the active config when a flag is not given.
func gridFlags(cmd *cobra.Command, app *App) (int, int) {
	nStrikes, _ := cmd.Flags().GetInt("strikes")
	nTenors, _ := cmd.Flags().GetInt("tenors")
	if !cmd.Flags().Changed("strikes") {
		nStrikes = app.Config.Dashboard.DefaultStrikes
	}
	if !cmd.Flags().Changed("tenors") {
		nTenors = app.Config.Dashboard.DefaultTenors
	}
	return nStrikes, nTenors
}

func addGridFlags(cmd *cobra.Command, app *App) {
	cmd.Flags().Int("strikes", app.Config.Dashboard.DefaultStrikes, "number of strikes (>= 2)")
	cmd.Flags().Int("tenors", app.Config.Dashboard.DefaultTenors, "number of tenors (>= 2)")
}

func newSurfaceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "surface",
		Short: "Generate the volatility surface",
		Long: `Generate the volatility surface and print a summary.

Grid sizes are passed to the generator as given; only the dashboard clamps
them to the slider ranges. With --json the surface figure and table are
printed in the same shape the dashboard API returns.`,
		Example: `  volsurface surface --strikes 20 --tenors 10 --table
  volsurface surface --strikes 2 --tenors 2 --table --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			nStrikes, nTenors := gridFlags(cmd, app)
			showTable, _ := cmd.Flags().GetBool("table")
			if !cmd.Flags().Changed("table") {
				showTable = app.Config.Dashboard.ShowTable
			}

			s, err := surface.Generate(nStrikes, nTenors)
			if err != nil {
				return err
			}
			plot, err := present.ToSurfacePlot(s.Strikes, s.Tenors, s.Vols)
			if err != nil {
				return err
			}
			var table *present.Table
			if showTable {
				if table, err = present.ToTable(s.Strikes, s.Tenors, s.Vols); err != nil {
					return err
				}
			}

			app.Logger.Debug().Int("n_strikes", nStrikes).Int("n_tenors", nTenors).Msg("Surface generated")

			if output.IsJSON() {
				return output.JSON(dashboard.View{
					Controls: dashboard.Controls{NStrikes: nStrikes, NTenors: nTenors, ShowTable: showTable},
					Plot:     plot,
					Table:    table,
				})
			}

			showSurfaceSummary(output, s)
			if table != nil {
				output.Println()
				output.Bold("Volatility Matrix:")
				renderTable(output, table)
			}
			return nil
		},
	}

	addGridFlags(cmd, app)
	cmd.Flags().Bool("table", false, "print the raw volatility matrix")

	return cmd
}

func showSurfaceSummary(output *Output, s *surface.Surface) {
	vols := s.Vols.RawMatrix().Data
	nStrikes, nTenors := s.Dims()

	output.Box(present.Title, []string{
		fmt.Sprintf("Strikes:  %d (%s to %s)", nStrikes, present.FormatStrike(s.Strikes[0]), present.FormatStrike(s.Strikes[nStrikes-1])),
		fmt.Sprintf("Tenors:   %d (%s to %s)", nTenors, present.FormatTenor(s.Tenors[0]), present.FormatTenor(s.Tenors[nTenors-1])),
		fmt.Sprintf("Spot:     %.2f", surface.Spot),
		fmt.Sprintf("Min vol:  %.4f", floats.Min(vols)),
		fmt.Sprintf("Max vol:  %.4f", floats.Max(vols)),
	})
}

func renderTable(output *Output, t *present.Table) {
	headers := append([]string{present.StrikeTitle}, t.Columns...)
	tbl := NewTable(output, headers...)
	for i, label := range t.Index {
		cells := make([]string, 0, len(t.Columns)+1)
		cells = append(cells, label)
		for _, v := range t.Data[i] {
			cells = append(cells, fmt.Sprintf("%.4f", v))
		}
		tbl.AddRow(cells...)
	}
	tbl.Render()
}

func newChartCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render volatility smiles to a PNG file",
		Example: `  volsurface chart --strikes 30 --tenors 6 --out smiles.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			nStrikes, nTenors := gridFlags(cmd, app)
			path, _ := cmd.Flags().GetString("out")

			opts := chart.DefaultOptions()
			opts.Width = app.Config.Chart.Width
			opts.Height = app.Config.Chart.Height
			if cmd.Flags().Changed("width") {
				opts.Width, _ = cmd.Flags().GetInt("width")
			}
			if cmd.Flags().Changed("height") {
				opts.Height, _ = cmd.Flags().GetInt("height")
			}

			s, err := surface.Generate(nStrikes, nTenors)
			if err != nil {
				return err
			}

			f, err := os.Create(path)
			if err != nil {
				return errors.Wrapf(err, "creating %s", path)
			}
			if err := chart.RenderSmiles(f, s, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return errors.Wrapf(err, "writing %s", path)
			}

			app.Logger.Debug().Str("path", path).Int("width", opts.Width).Int("height", opts.Height).Msg("Chart written")

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"path": path, "width": opts.Width, "height": opts.Height})
			}
			output.Success("✓ Wrote %s", path)
			return nil
		},
	}

	addGridFlags(cmd, app)
	cmd.Flags().StringP("out", "o", "smiles.png", "output PNG path")
	cmd.Flags().Int("width", app.Config.Chart.Width, "image width in pixels")
	cmd.Flags().Int("height", app.Config.Chart.Height, "image height in pixels")

	return cmd
}

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		Long: `Serve the interactive volatility surface dashboard.

The page offers the strike and tenor sliders and the raw data toggle. Every
change is sent over a websocket and the surface is rebuilt from scratch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.Config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logging.WithLogger(ctx, app.Logger)

			output := NewOutput(cmd)
			output.Info("Dashboard: http://%s/", displayAddr(cfg.Server.Addr))

			return dashboard.NewServer(&cfg, logging.FromContext(ctx)).Start(ctx)
		},
	}

	cmd.Flags().String("addr", app.Config.Server.Addr, "listen address")

	return cmd
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
