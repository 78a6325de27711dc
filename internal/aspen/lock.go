package aspen

import (
	"fmt"
	"os"
	"path/filepath"

	"apexvle/internal/logging"

	"github.com/gofrs/flock"
)

// Lock takes the per-directory automation lock so two sweeps do not drive the
// same simulation at once. The returned func releases it.
func Lock(dir string) (func() error, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	lockFile := filepath.Join(dir, "sim.lock")
	fileLock := flock.New(lockFile)
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquiring lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w (%s)", ErrSessionBusy, lockFile)
	}
	logging.SimDebug("Acquired simulator lock %s", lockFile)
	return fileLock.Unlock, nil
}
