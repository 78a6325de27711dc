package main

import (
	"fmt"
	"strconv"

	"apexvle/internal/apex"
	"apexvle/internal/composition"
	"apexvle/internal/export"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mixCAS   string
	mixMass  string
	mixBanks []string
	mixDesc  string
	mixOut   string
)

var mixCmd = &cobra.Command{
	Use:   "mix",
	Short: "Resolve a mixture and list its binary coefficient sets",
	Long: `Resolves the CAS numbers of a mixture, converts the mass composition to mole
fractions with Apex molecular weights, then lists the binary interaction
coefficient sets available for every pair in the chosen databanks.`,
	Args: cobra.NoArgs,
	RunE: runMix,
}

func init() {
	mixCmd.Flags().StringVar(&mixCAS, "cas", "64-19-7,7732-18-5", "Comma-separated CAS numbers")
	mixCmd.Flags().StringVar(&mixMass, "mass", "0.7,0.3", "Comma-separated mass fractions")
	mixCmd.Flags().StringSliceVar(&mixBanks, "banks", []string{"ASPEN VLE-IG", "ASPEN VLE-HOC", "ASPEN VLE-RK"}, "Databank names")
	mixCmd.Flags().StringVar(&mixDesc, "desc", "WILSON", "Keep databanks whose description contains this text")
	mixCmd.Flags().StringVarP(&mixOut, "out", "o", "", "Write coefficient values to this CSV")
}

func runMix(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	cas := splitList(mixCAS)
	mass, err := composition.ParseVector(mixMass)
	if err != nil {
		return fmt.Errorf("--mass: %w", err)
	}
	if len(mass) != len(cas) {
		return fmt.Errorf("%d CAS numbers but %d mass fractions", len(cas), len(mass))
	}

	sess, err := openApex(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	ids, err := sess.ChemIDsFromCAS(ctx, cas)
	if err != nil {
		return err
	}
	mws, err := sess.MolecularWeights(ctx, ids)
	if err != nil {
		return err
	}
	mole, err := composition.MoleFromMass(mass, mws)
	if err != nil {
		return err
	}

	rows := make([][]string, len(cas))
	for i := range cas {
		rows[i] = []string{
			cas[i],
			strconv.FormatInt(ids[i], 10),
			strconv.FormatFloat(mws[i], 'f', -1, 64),
			strconv.FormatFloat(mass[i], 'f', 4, 64),
			strconv.FormatFloat(mole[i], 'f', 4, 64),
		}
	}
	fmt.Println(title("Mixture"))
	fmt.Println(renderTable([]string{"CAS", "ChemID", "MW", "w", "x"}, rows))

	banks, err := sess.Databanks(ctx, apex.DatabankFilter{Names: mixBanks, DescriptionContains: mixDesc})
	if err != nil {
		return err
	}
	infos, err := sess.CoeffSetsInfo(ctx, ids, banks)
	if err != nil {
		return err
	}
	sets, err := sess.CoeffSets(ctx, infos)
	if err != nil {
		return err
	}
	logger.Info("Mixture resolved", zap.Int("components", len(ids)), zap.Int("databanks", len(banks)), zap.Int("coeff_sets", len(sets)))

	fmt.Println(title(fmt.Sprintf("Coefficient sets (%d databanks)", len(banks))))
	if len(sets) == 0 {
		fmt.Println(mutedStyle.Render("none"))
	}
	for _, s := range sets {
		fmt.Printf("%d  %s  (%d params)\n", s.SetID, s.Describe(banks), len(s.Params))
	}

	if mixOut != "" {
		path := resolvePath(mixOut)
		if err := export.Records(path, export.CoeffSetHeader, export.CoeffSetRecords(sets, banks)); err != nil {
			return err
		}
		fmt.Printf("%s coefficients -> %s\n", okMark, path)
	}
	return nil
}
