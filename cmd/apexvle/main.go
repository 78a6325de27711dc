package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"apexvle/internal/apex"
	"apexvle/internal/config"
	"apexvle/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	workspace  string
	configPath string
	timeout    time.Duration

	// Set up by PersistentPreRunE
	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "apexvle",
	Short: "Apex property database dumps and simulator VLE sweeps",
	Long: `apexvle pulls chemical identities, constants, databank metadata and binary
interaction coefficients out of an Apex physical-properties database, and drives
a process simulator's automation tree to set up VLE flashes and harvest
vapor-pressure curves.

Configuration lives in <workspace>/.apexvle/config.yaml.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if workspace == "" {
			if workspace, err = os.Getwd(); err != nil {
				return fmt.Errorf("failed to resolve workspace: %w", err)
			}
		}
		if err := logging.Initialize(workspace); err != nil {
			logger.Warn("Categorised logging disabled", zap.Error(err))
		}

		path := configPath
		if path == "" {
			path = config.DefaultConfigPath(workspace)
		}
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", path, err)
		}
		logger.Debug("Loaded config", zap.String("path", path), zap.String("driver", cfg.Apex.Driver), zap.String("backend", cfg.Simulator.Backend))
		logging.Boot("apexvle %s: workspace=%s config=%s", cmd.CommandPath(), workspace, path)
		logging.BootDebug("apex driver=%s, sim backend=%s, out dir=%s", cfg.Apex.Driver, cfg.Simulator.Backend, cfg.Export.OutDir)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: <workspace>/.apexvle/config.yaml)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "Operation timeout")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(chemCmd)
	rootCmd.AddCommand(mixCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(vleCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(tablesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// commandContext bounds a command by --timeout and cancels on SIGINT/SIGTERM.
func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return sigCtx, func() {
		stop()
		cancel()
	}
}

// resolvePath makes p relative to the workspace unless it is absolute.
func resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(workspace, p)
}

// resolveDSN treats plain file DSNs as workspace-relative.
func resolveDSN(dsn string) string {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return dsn
	}
	return resolvePath(dsn)
}

func openApex(ctx context.Context) (*apex.Session, error) {
	sess, err := apex.Open(ctx, apex.Options{
		Driver:       cfg.Apex.Driver,
		DSN:          resolveDSN(cfg.Apex.DSN),
		MaxOpenConns: cfg.Apex.MaxOpenConns,
		BusyTimeout:  cfg.Apex.BusyTimeout,
		QueryTimeout: cfg.GetQueryTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("open apex database: %w", err)
	}
	logger.Debug("Opened Apex session", zap.String("driver", sess.Driver()), zap.String("dsn", cfg.Apex.DSN))
	return sess, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
