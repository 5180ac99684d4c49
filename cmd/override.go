package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/normtree/pkg/engine"
	"github.com/user/normtree/pkg/logging"
	"github.com/user/normtree/pkg/tree"
)

var observedFlag string

var overrideCmd = &cobra.Command{
	Use:   "override <node-id>",
	Short: "Flip a node's recorded status, given the status you observed",
	Long: `Override writes the opposite of --observed as the node's recorded status,
then reloads the tree. --observed must be the node's recorded (stored) status,
not the effective status shown for a failing parent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		observed, err := tree.ParseOperatorStatus(observedFlag)
		if err != nil {
			return fmt.Errorf("--observed: %w", err)
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess, _, err := openView(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		id := tree.ID(args[0])
		if snap := sess.Snapshot(); snap != nil {
			if stored, ok := snap.StoredStatus(id); ok && stored != observed {
				logging.Warnf("node %s is recorded as %s in the tree just loaded, not %s", id, stored, observed)
			}
		}

		next, err := sess.Override(cmd.Context(), id, observed)
		if err != nil {
			return err
		}
		logging.Infof("Node %s recorded as %s.", id, next)
		return refreshAndPrint(cmd, sess)
	},
}

var flipCmd = &cobra.Command{
	Use:   "flip <node-id>",
	Short: "Flip a node's recorded status using the freshly loaded tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess, _, err := openView(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		next, snap, err := sess.Flip(cmd.Context(), tree.ID(args[0]))
		if err != nil {
			if next != "" {
				logging.Infof("Node %s recorded as %s, but the tree could not be reloaded.", args[0], next)
			}
			return err
		}
		logging.Infof("Node %s recorded as %s.", args[0], next)
		printSnapshot(cmd, snap, false)
		return nil
	},
}

func refreshAndPrint(cmd *cobra.Command, sess *engine.Session) error {
	snap, err := sess.Refresh(cmd.Context())
	if err != nil {
		return fmt.Errorf("override saved, but reload failed: %w", err)
	}
	printSnapshot(cmd, snap, false)
	return nil
}

func init() {
	overrideCmd.Flags().StringVarP(&observedFlag, "observed", "o", "", "Recorded status you observed (PASS or FAIL)")
	_ = overrideCmd.MarkFlagRequired("observed")
	rootCmd.AddCommand(overrideCmd)
	rootCmd.AddCommand(flipCmd)
}
