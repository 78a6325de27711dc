package aspen

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"apexvle/internal/logging"
)

// Backends accepted by Open.
const (
	BackendOffline = "offline"
	BackendCOM     = "com"
)

// Options selects and configures the simulator backend.
type Options struct {
	Backend string
	// CaseFile is an existing simulation to open. The offline backend reads
	// YAML snapshots written by SaveSnapshot.
	CaseFile string
	Visible  bool
}

// Open starts an automation session.
func Open(ctx context.Context, opts Options) (App, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendOffline
	}
	switch backend {
	case BackendOffline:
		app := NewOffline()
		if opts.CaseFile != "" {
			switch strings.ToLower(filepath.Ext(opts.CaseFile)) {
			case ".yaml", ".yml":
			default:
				return nil, fmt.Errorf("offline backend cannot open %s: only YAML snapshots are supported", opts.CaseFile)
			}
			if err := app.LoadSnapshot(opts.CaseFile); err != nil {
				return nil, err
			}
		}
		if opts.Visible {
			logging.SimWarn("Offline backend has no user interface; ignoring visible=true")
		}
		logging.Sim("Opened offline simulation (case=%q)", opts.CaseFile)
		return app, nil
	case BackendCOM:
		return nil, fmt.Errorf("%w: %s automation is not reachable from this build", ErrBackendUnavailable, backend)
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrBackendUnavailable, opts.Backend)
}
