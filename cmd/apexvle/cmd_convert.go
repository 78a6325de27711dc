package main

import (
	"fmt"

	"apexvle/internal/composition"
	"apexvle/internal/logging"

	"github.com/spf13/cobra"
)

var (
	convertFractions string
	convertMWs       string
	convertPrecision int
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert between mass and mole fractions",
}

var massToMoleCmd = &cobra.Command{
	Use:   "mass-to-mole",
	Short: "Mass fractions to mole fractions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(composition.MoleFromMass, "mass", "mole")
	},
}

var moleToMassCmd = &cobra.Command{
	Use:   "mole-to-mass",
	Short: "Mole fractions to mass fractions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(composition.MassFromMole, "mole", "mass")
	},
}

func init() {
	for _, c := range []*cobra.Command{massToMoleCmd, moleToMassCmd} {
		c.Flags().StringVar(&convertFractions, "fractions", "", "Comma-separated fractions (required)")
		c.Flags().StringVar(&convertMWs, "mws", "", "Comma-separated molecular weights (required)")
		c.Flags().IntVar(&convertPrecision, "precision", 6, "Decimal places to print")
		c.MarkFlagRequired("fractions")
		c.MarkFlagRequired("mws")
		convertCmd.AddCommand(c)
	}
}

func runConvert(fn func(fracs, mws []float64) ([]float64, error), from, to string) error {
	fracs, err := composition.ParseVector(convertFractions)
	if err != nil {
		return fmt.Errorf("--fractions: %w", err)
	}
	mws, err := composition.ParseVector(convertMWs)
	if err != nil {
		return fmt.Errorf("--mws: %w", err)
	}
	out, err := fn(fracs, mws)
	if err != nil {
		return fmt.Errorf("%s to %s: %w", from, to, err)
	}
	logging.Convert("Converted %d %s fraction(s) to %s", len(out), from, to)
	logging.ConvertDebug("%s %v -> %s %v (mws %v)", from, fracs, to, out, mws)
	fmt.Println(composition.FormatVector(out, convertPrecision))
	return nil
}
