package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"apexvle/internal/apex"
	"apexvle/internal/logging"

	"golang.org/x/sync/errgroup"
)

// TableResult summarizes one table dump.
type TableResult struct {
	Table    string        `yaml:"table"`
	Path     string        `yaml:"path"`
	Columns  []string      `yaml:"columns"`
	Rows     int           `yaml:"rows"`
	Skipped  int           `yaml:"skipped"`
	Duration time.Duration `yaml:"duration"`
}

// TableOptions configures Table.
type TableOptions struct {
	Append bool     // append to an existing file; header only when the file is empty
	OnSkip SkipFunc // optional, in addition to logging
}

// Table dumps "SELECT * FROM table" to a CSV file.
func Table(ctx context.Context, sess *apex.Session, table, path string, opts TableOptions) (TableResult, error) {
	start := time.Now()
	res := TableResult{Table: table, Path: path}

	rows, err := sess.QueryTable(ctx, table)
	if err != nil {
		return res, err
	}
	defer rows.Close()
	res.Columns = rows.Columns()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return res, fmt.Errorf("create output dir: %w", err)
		}
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if opts.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return res, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	headerDone := false
	if opts.Append {
		if st, err := f.Stat(); err == nil && st.Size() > 0 {
			headerDone = true
		}
	}

	onSkip := func(index int, row map[string]interface{}, err error) {
		logging.ExportWarn("%s: skipped row %d %v: %v", table, index, row, err)
		if opts.OnSkip != nil {
			opts.OnSkip(index, row, err)
		}
	}

	w := NewWriter(f, res.Columns, headerDone, onSkip)
	if err := w.WriteHeader(); err != nil {
		return res, err
	}
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := w.WriteRow(rows.Row()); err != nil {
			return res, err
		}
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("read %s: %w", table, err)
	}
	if err := w.Flush(); err != nil {
		return res, fmt.Errorf("flush %s: %w", path, err)
	}

	res.Rows = w.Written()
	res.Skipped = w.Skipped()
	res.Duration = time.Since(start)
	logging.Export("%s -> %s: %d rows, %d skipped in %v", table, path, res.Rows, res.Skipped, res.Duration)
	return res, nil
}

// Tables dumps several tables into dir concurrently, one <Table>.csv per table.
// Results come back in the order of tables.
func Tables(ctx context.Context, sess *apex.Session, tables []string, dir string, parallelism int) ([]TableResult, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	results := make([]TableResult, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, table := range tables {
		i, table := i, table
		g.Go(func() error {
			res, err := Table(gctx, sess, table, filepath.Join(dir, table+".csv"), TableOptions{})
			if err != nil {
				return fmt.Errorf("export %s: %w", table, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
