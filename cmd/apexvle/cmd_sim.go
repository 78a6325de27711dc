package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"apexvle/internal/aspen"
	"apexvle/internal/aspen/explore"
	"apexvle/internal/aspen/flash"
	"apexvle/internal/export"
	"apexvle/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	simSnapshot string
	simSave     bool
	simSetup    bool

	vpCaseFile string
	vpOut      string
	vpPlot     string
	vpWatch    bool

	bubbleOut  string
	bubblePlot string
	treeRoot   string
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Drive the process simulator",
	Long: `Drives the simulator through its automation tree. The backend comes from
simulator.backend in config (or APEXVLE_SIM_BACKEND). Only one sim command may
run per workspace at a time.`,
}

var vpCurveCmd = &cobra.Command{
	Use:   "vp-curve",
	Short: "Set up a flash case and sweep its vapor-pressure curve",
	Args:  cobra.NoArgs,
	RunE:  runVPCurve,
}

var bubbleCurveCmd = &cobra.Command{
	Use:   "bubble-curve",
	Short: "Bubble pressures of 60 mol% acetic acid in water, 80-140 °C",
	Args:  cobra.NoArgs,
	RunE:  runBubbleCurve,
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the simulation tree depth first",
	Args:  cobra.NoArgs,
	RunE:  runTree,
}

var addComponentCmd = &cobra.Command{
	Use:   "add-component <ID>",
	Short: "Add a component unless it is already specified",
	Args:  cobra.ExactArgs(1),
	RunE:  runAddComponent,
}

var exploreCmd = &cobra.Command{
	Use:   "explore [path...]",
	Short: "Report on key tree sections and parameter sets",
	RunE:  runExplore,
}

func init() {
	simCmd.PersistentFlags().StringVar(&simSnapshot, "snapshot", "", "Open this saved simulation (offline backend: YAML snapshot)")
	simCmd.PersistentFlags().BoolVar(&simSave, "save", false, "Write the simulation back to --snapshot when done")
	simCmd.PersistentFlags().BoolVar(&simSetup, "setup", false, "Apply the default ternary flash case before running")

	vpCurveCmd.Flags().StringVar(&vpCaseFile, "case", "", "Flash case YAML (default from config, else the built-in ternary case)")
	vpCurveCmd.Flags().StringVarP(&vpOut, "out", "o", "vp_curve.csv", "Output CSV")
	vpCurveCmd.Flags().StringVar(&vpPlot, "plot", "", "Also draw the curve to this PNG (matplotlib)")
	vpCurveCmd.Flags().Lookup("plot").NoOptDefVal = "vp_curve.png"
	vpCurveCmd.Flags().BoolVar(&vpWatch, "watch", false, "Rerun whenever the case file changes")

	bubbleCurveCmd.Flags().StringVarP(&bubbleOut, "out", "o", "vapor_pressure_aspen_wils_hoc_results.csv", "Output CSV")
	bubbleCurveCmd.Flags().StringVar(&bubblePlot, "plot", "", "Also draw P-T and y-T panels to this PNG (matplotlib)")
	bubbleCurveCmd.Flags().Lookup("plot").NoOptDefVal = "vapor_pressure_aspen_wils_hoc.png"
	treeCmd.Flags().StringVar(&treeRoot, "root", `\Data`, "Node to start from")

	simCmd.AddCommand(vpCurveCmd)
	simCmd.AddCommand(bubbleCurveCmd)
	simCmd.AddCommand(treeCmd)
	simCmd.AddCommand(addComponentCmd)
	simCmd.AddCommand(exploreCmd)
}

// withSim takes the workspace lock, opens the simulation and runs fn.
func withSim(ctx context.Context, fn func(app aspen.App) error) error {
	unlock, err := aspen.Lock(resolvePath(cfg.Simulator.LockDir))
	if err != nil {
		return err
	}
	defer unlock()

	caseFile := resolvePath(simSnapshot)
	if caseFile != "" && simSave {
		// --save may create the snapshot.
		if _, err := os.Stat(caseFile); os.IsNotExist(err) {
			caseFile = ""
		}
	}
	app, err := aspen.Open(ctx, aspen.Options{
		Backend:  cfg.Simulator.Backend,
		CaseFile: caseFile,
		Visible:  cfg.Simulator.Visible,
	})
	if err != nil {
		return err
	}
	defer app.Close()

	if simSetup {
		if err := flash.Setup(app, flash.DefaultTernaryCase()); err != nil {
			return err
		}
	}
	if err := fn(app); err != nil {
		return err
	}
	if simSave {
		return saveSnapshot(app)
	}
	return nil
}

func saveSnapshot(app aspen.App) error {
	if simSnapshot == "" {
		return errors.New("--save needs --snapshot")
	}
	off, ok := app.(*aspen.Offline)
	if !ok {
		return fmt.Errorf("backend %s cannot save snapshots", cfg.Simulator.Backend)
	}
	path := resolvePath(simSnapshot)
	if err := off.SaveSnapshot(path); err != nil {
		return err
	}
	fmt.Printf("%s saved %s\n", okMark, path)
	return nil
}

func loadFlashCase() (flash.Case, string, error) {
	path := vpCaseFile
	if path == "" {
		path = cfg.Simulator.CaseFile
	}
	if path == "" {
		return flash.DefaultTernaryCase(), "", nil
	}
	path = resolvePath(path)
	c, err := flash.LoadCase(path)
	return c, path, err
}

func runVPCurve(cmd *cobra.Command, args []string) error {
	c, path, err := loadFlashCase()
	if err != nil {
		return err
	}
	if !vpWatch {
		ctx, cancel := commandContext()
		defer cancel()
		return withSim(ctx, func(app aspen.App) error {
			return sweepAndReport(ctx, app, c, resolvePath(vpOut), resolvePath(vpPlot))
		})
	}
	if path == "" {
		return errors.New("--watch needs a case file (--case or simulator.case_file)")
	}

	// A watch runs until interrupted, not until --timeout.
	wctx, stop := interruptContext()
	defer stop()

	rerun := func(ctx context.Context) error {
		c, err := flash.LoadCase(path)
		if err != nil {
			fmt.Printf("%s %v\n", failMark, err)
			return err
		}
		return withSim(ctx, func(app aspen.App) error {
			return sweepAndReport(ctx, app, c, resolvePath(vpOut), resolvePath(vpPlot))
		})
	}
	if err := rerun(wctx); err != nil {
		logger.Warn("Initial sweep failed", zap.Error(err))
	}

	w, err := flash.NewCaseWatcher(path, rerun)
	if err != nil {
		return err
	}
	if err := w.Start(wctx); err != nil {
		return err
	}
	fmt.Println(mutedStyle.Render("watching " + path + " (Ctrl-C to stop)"))
	<-wctx.Done()
	w.Stop()
	logging.Watch("Watch ended after %d rerun(s)", w.Runs())
	return nil
}

func runBubbleCurve(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()
	return withSim(ctx, func(app aspen.App) error {
		return sweepAndReport(ctx, app, flash.DefaultBinaryBubbleCase(), resolvePath(bubbleOut), resolvePath(bubblePlot))
	})
}

// sweepAndReport runs c, prints the curve and writes it to out, and to a
// figure at plot unless plot is empty.
func sweepAndReport(ctx context.Context, app aspen.App, c flash.Case, out, plot string) error {
	runCtx, cancel := context.WithTimeout(ctx, cfg.GetRunTimeout())
	defer cancel()

	curve, err := flash.SetupAndSweep(runCtx, app, c)
	if err != nil && curve == nil {
		return err
	}

	fmt.Println(title(fmt.Sprintf("%s (%s)", c.Name, c.Method)))
	fmt.Println(renderTable(curveHeaders(curve), curveRows(curve)))

	s := curve.Summary()
	fmt.Printf("\n%s %d/%d points\n", okMark, s.Succeeded, s.Total)
	if s.Succeeded > 0 {
		fmt.Printf("Temperature range: %.1f - %.1f %s\n", s.TMin, s.TMax, curve.TemperatureUnit)
		fmt.Printf("Pressure range: %.4g - %.4g %s\n", s.PMin, s.PMax, curve.PressureUnit)
		if len(curve.Components) > 0 {
			fmt.Printf("%s vapor fraction range: %.3f - %.3f\n", curve.Components[0], s.Y1Min, s.Y1Max)
		}
		if werr := export.Records(out, curve.Header(), curve.Records()); werr != nil {
			return werr
		}
		fmt.Printf("%s results -> %s\n", okMark, out)
		if plot != "" {
			if perr := flash.Plot(curve, plot); perr != nil {
				fmt.Printf("%s %v\n", failMark, perr)
				return perr
			}
			fmt.Printf("%s plot -> %s\n", okMark, plot)
		}
	}
	logger.Info("Sweep done",
		zap.String("run_id", curve.RunID),
		zap.String("case", c.Name),
		zap.Int("ok", s.Succeeded),
		zap.Int("total", s.Total),
		zap.Duration("elapsed", curve.Elapsed))
	return err
}

func curveHeaders(curve *flash.Curve) []string {
	h := []string{"T (" + curve.TemperatureUnit + ")", "P (" + curve.PressureUnit + ")"}
	for _, name := range curve.Components {
		h = append(h, "y_"+name)
	}
	return h
}

func curveRows(curve *flash.Curve) [][]string {
	rows := make([][]string, 0, len(curve.Points))
	for _, p := range curve.Points {
		t := strconv.FormatFloat(p.Temperature, 'f', 1, 64)
		if !p.OK() {
			row := []string{failMark + " " + t, "FAILED"}
			for range curve.Components {
				row = append(row, "N/A")
			}
			rows = append(rows, row)
			continue
		}
		row := []string{t, strconv.FormatFloat(p.Pressure, 'f', 4, 64)}
		for i := range curve.Components {
			if i < len(p.Vapor) {
				row = append(row, strconv.FormatFloat(p.Vapor[i], 'f', 4, 64))
			} else {
				row = append(row, "N/A")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func runTree(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()
	return withSim(ctx, func(app aspen.App) error {
		root, err := app.Node(treeRoot)
		if err != nil {
			return err
		}
		prefix := strings.Join(aspen.SplitPath(treeRoot), ".")
		for _, row := range explore.Flatten(root, prefix) {
			fmt.Println(row)
		}
		return nil
	})
}

func runAddComponent(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()
	return withSim(ctx, func(app aspen.App) error {
		idx, added, err := explore.AddComponent(app, args[0])
		if err != nil {
			return err
		}
		if added {
			fmt.Printf("Component '%s' added at position %d.\n", args[0], idx)
		} else {
			fmt.Printf("Component '%s' already exists.\n", args[0])
		}
		comps, err := app.Components()
		if err != nil {
			return err
		}
		fmt.Println(mutedStyle.Render("components: " + strings.Join(comps, ", ")))
		return nil
	})
}

func runExplore(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()
	return withSim(ctx, func(app aspen.App) error {
		for _, r := range explore.Explore(app, args) {
			if r.Err != nil {
				fmt.Printf("%s: %v\n", r.Path, r.Err)
				continue
			}
			fmt.Printf("\n%s\n", title(r.Path))
			fmt.Printf("  Name: %s\n", r.Name)
			fmt.Printf("  Has children: %t\n", r.HasChildren)
			fmt.Printf("  Completion status: %d (%s)\n", uint32(r.Status), r.Status)
			if r.HasChildren {
				fmt.Printf("  Children (%d):\n", len(r.Children)+r.More)
				for i, c := range r.Children {
					fmt.Printf("    [%d] %s\n", i, c)
				}
				if r.More > 0 {
					fmt.Printf("    ... and %d more\n", r.More)
				}
			}
		}

		sets, err := explore.Parameters(app)
		if err != nil {
			return err
		}
		fmt.Printf("\n%s\n", title("Parameter sets"))
		for _, s := range sets {
			mark := ""
			if s.Wilson {
				mark = "  (Wilson)"
			}
			fmt.Printf("  %-6s %s [%d]%s\n", s.Kind, s.Name, s.Size, mark)
		}
		return nil
	})
}

// interruptContext cancels only on SIGINT/SIGTERM.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
