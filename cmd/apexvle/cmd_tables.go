package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables in the Apex database",
	Args:  cobra.NoArgs,
	RunE:  runTables,
}

func runTables(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	sess, err := openApex(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	tables, err := sess.Tables(ctx)
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		fmt.Println("No tables found")
		return nil
	}
	for _, t := range tables {
		fmt.Println(t)
	}
	return nil
}
