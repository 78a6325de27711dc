package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var chemCmd = &cobra.Command{
	Use:   "chem",
	Short: "Look up chemicals by CAS number",
}

var chemIDCmd = &cobra.Command{
	Use:   "id <cas>...",
	Short: "Resolve CAS numbers to Apex chemical ids",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChemID,
}

var chemMWCmd = &cobra.Command{
	Use:   "mw <cas>...",
	Short: "Print molecular weights for CAS numbers",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runChemMW,
}

func init() {
	chemCmd.AddCommand(chemIDCmd)
	chemCmd.AddCommand(chemMWCmd)
}

func runChemID(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	sess, err := openApex(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	ids, err := sess.ChemIDsFromCAS(ctx, args)
	if err != nil {
		return err
	}
	rows := make([][]string, len(args))
	for i, cas := range args {
		rows[i] = []string{cas, strconv.FormatInt(ids[i], 10)}
	}
	fmt.Println(renderTable([]string{"CAS", "ChemID"}, rows))
	return nil
}

func runChemMW(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	sess, err := openApex(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	ids, err := sess.ChemIDsFromCAS(ctx, args)
	if err != nil {
		return err
	}
	mws, err := sess.MolecularWeights(ctx, ids)
	if err != nil {
		return err
	}
	rows := make([][]string, len(args))
	for i, cas := range args {
		rows[i] = []string{cas, strconv.FormatInt(ids[i], 10), strconv.FormatFloat(mws[i], 'f', -1, 64)}
	}
	fmt.Println(renderTable([]string{"CAS", "ChemID", "MW"}, rows))
	return nil
}
