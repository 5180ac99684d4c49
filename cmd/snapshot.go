package cmd

import (
	"github.com/spf13/cobra"

	"github.com/user/normtree/pkg/engine"
	"github.com/user/normtree/pkg/logging"
)

const DefaultSnapshotPath = ".normtree-snapshot.json"

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save the current tree or compare it with a saved baseline",
}

var saveSnapshotCmd = &cobra.Command{
	Use:   "save [file]",
	Short: "Save the current tree as a baseline",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := snapshotPath(args)
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, snap, err := openView(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		if err := snap.SaveSnapshot(path); err != nil {
			return err
		}
		logging.Infof("Saved %d checks to snapshot '%s'.", snap.Summary().Nodes, path)
		return nil
	},
}

var diffSnapshotCmd = &cobra.Command{
	Use:   "diff [file]",
	Short: "Compare the current tree against a saved baseline",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := snapshotPath(args)
		baseline, err := engine.LoadSnapshot(path)
		if err != nil {
			return err
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, current, err := openView(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		engine.RenderDiff(cmd.OutOrStdout(), current.CompareSnapshot(baseline), path)
		return nil
	},
}

func snapshotPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return DefaultSnapshotPath
}

func init() {
	snapshotCmd.AddCommand(saveSnapshotCmd)
	snapshotCmd.AddCommand(diffSnapshotCmd)
	rootCmd.AddCommand(snapshotCmd)
}
