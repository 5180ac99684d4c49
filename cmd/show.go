package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/normtree/pkg/engine"
)

var showWhy bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the compliance tree with effective statuses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, snap, err := openView(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		printSnapshot(cmd, snap, showWhy)
		return nil
	},
}

func printSnapshot(cmd *cobra.Command, snap *engine.Snapshot, why bool) {
	out := cmd.OutOrStdout()
	engine.RenderTree(out, snap)
	sum := snap.Summary()
	fmt.Fprintf(out, "\nSummary: %d checks, %d failing, %d recorded FAIL\n", sum.Nodes, sum.EffectiveFail, sum.StoredFail)
	if why {
		fmt.Fprintln(out)
		fmt.Fprint(out, snap.GetReport())
	}
}

func init() {
	showCmd.Flags().BoolVar(&showWhy, "why", false, "Explain which recorded failures make each ancestor fail")
	rootCmd.AddCommand(showCmd)
}
