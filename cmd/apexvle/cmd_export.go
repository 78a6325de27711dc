package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"apexvle/internal/export"
	"apexvle/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportTableName string
	exportOut       string
	exportAppend    bool
	exportTables    []string
	exportDir       string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump Apex tables to CSV",
}

var exportTableCmd = &cobra.Command{
	Use:   "table",
	Short: "Dump one table (ChemInfo by default) to a CSV file",
	Long: `Writes every row of an Apex table to CSV with a header row. Rows that cannot
be encoded are reported and skipped. With --append the header is only written
when the file is new or empty.`,
	Args: cobra.NoArgs,
	RunE: runExportTable,
}

var exportAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Dump several tables in parallel, one CSV each",
	Args:  cobra.NoArgs,
	RunE:  runExportAll,
}

func init() {
	exportTableCmd.Flags().StringVar(&exportTableName, "table", "", "Table to dump (default from config, ChemInfo)")
	exportTableCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output CSV (default from config, apex_cheminfo.csv)")
	exportTableCmd.Flags().BoolVar(&exportAppend, "append", false, "Append to an existing file")

	exportAllCmd.Flags().StringSliceVar(&exportTables, "tables", []string{"ChemInfo", "Databank", "Property"}, "Tables to dump")
	exportAllCmd.Flags().StringVar(&exportDir, "dir", "", "Output directory (default from config)")

	exportCmd.AddCommand(exportTableCmd)
	exportCmd.AddCommand(exportAllCmd)
}

func runExportTable(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	table := exportTableName
	if table == "" {
		table = cfg.Export.DefaultTable
	}
	out := exportOut
	if out == "" {
		out = filepath.Join(cfg.Export.OutDir, cfg.Export.DefaultFile)
	}
	out = resolvePath(out)

	sess, err := openApex(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := export.Table(ctx, sess, table, out, export.TableOptions{
		Append: exportAppend,
		OnSkip: func(index int, row map[string]interface{}, err error) {
			fmt.Printf("%s row %d skipped: %v\n", failMark, index, err)
		},
	})
	if err != nil {
		return err
	}
	logger.Info("Exported table", zap.String("table", table), zap.String("path", out), zap.Int("rows", res.Rows), zap.Int("skipped", res.Skipped))

	if cfg.Export.Manifest {
		m := export.NewManifest(cfg.Apex.DSN)
		m.Add(res)
		if _, err := m.Write(filepath.Dir(out)); err != nil {
			logging.ExportWarn("Manifest not written: %v", err)
		}
	}
	fmt.Printf("%s %s: %d rows -> %s", okMark, table, res.Rows, out)
	if res.Skipped > 0 {
		fmt.Printf(" (%d skipped)", res.Skipped)
	}
	fmt.Println()
	return nil
}

func runExportAll(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	dir := exportDir
	if dir == "" {
		dir = cfg.Export.OutDir
	}
	dir = resolvePath(dir)

	sess, err := openApex(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	m := export.NewManifest(cfg.Apex.DSN)
	results, err := export.Tables(ctx, sess, exportTables, dir, cfg.Export.Parallelism)
	if err != nil {
		return err
	}
	m.Add(results...)

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{r.Table, strconv.Itoa(r.Rows), strconv.Itoa(r.Skipped), r.Path}
	}
	fmt.Println(title("Export " + m.RunID))
	fmt.Println(renderTable([]string{"Table", "Rows", "Skipped", "File"}, rows))

	if cfg.Export.Manifest {
		path, err := m.Write(dir)
		if err != nil {
			return err
		}
		fmt.Println(mutedStyle.Render("manifest: " + path))
	}
	total, skipped := m.TotalRows()
	logger.Info("Exported tables", zap.Int("tables", len(results)), zap.Int("rows", total), zap.Int("skipped", skipped))
	return nil
}
