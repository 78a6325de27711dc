package main

import (
	"fmt"
	"strconv"

	"apexvle/internal/apex"

	"github.com/spf13/cobra"
)

var (
	vleType   string
	vlePoints bool
)

var vleCmd = &cobra.Command{
	Use:   "vle",
	Short: "Experimental mixture VLE data",
}

var vleSetsCmd = &cobra.Command{
	Use:   "sets <chemA> <chemB>",
	Short: "List VLE data sets for a binary pair by chemical id",
	Args:  cobra.ExactArgs(2),
	RunE:  runVLESets,
}

func init() {
	vleSetsCmd.Flags().StringVar(&vleType, "type", string(apex.VLETPxy), "Data type: TPxy, Pxy or Txy")
	vleSetsCmd.Flags().BoolVar(&vlePoints, "points", false, "Also print the points of the first set")
	vleCmd.AddCommand(vleSetsCmd)
}

func runVLESets(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	var ids [2]int64
	for i, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return fmt.Errorf("chemical id %q: %w", a, err)
		}
		ids[i] = id
	}
	dt, err := apex.ParseVLEDataType(vleType)
	if err != nil {
		return err
	}

	sess, err := openApex(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	sets, err := sess.MixtureVLESets(ctx, ids[0], ids[1], dt)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Printf("No %s data for %d/%d\n", dt, ids[0], ids[1])
		return nil
	}

	// The reference of the first set is what callers usually want.
	fmt.Println(sets[0].Ref)

	rows := make([][]string, len(sets))
	for i, s := range sets {
		rows[i] = []string{strconv.FormatInt(s.SetID, 10), string(s.DataType), s.Ref}
	}
	fmt.Println(renderTable([]string{"SetID", "Type", "Reference"}, rows))

	if vlePoints {
		pts, err := sess.MixtureVLEPoints(ctx, sets[0].SetID)
		if err != nil {
			return err
		}
		prows := make([][]string, len(pts))
		for i, p := range pts {
			prows[i] = []string{ff(p.T), ff(p.P), ff(p.X1), ff(p.Y1)}
		}
		fmt.Println(renderTable([]string{"T", "P", "x1", "y1"}, prows))
	}
	return nil
}

func ff(v float64) string { return strconv.FormatFloat(v, 'g', 6, 64) }
