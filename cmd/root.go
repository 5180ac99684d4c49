package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/user/normtree/pkg/config"
	"github.com/user/normtree/pkg/engine"
	"github.com/user/normtree/pkg/logging"
	"github.com/user/normtree/pkg/store"
	"github.com/user/normtree/pkg/tree"
)

var rootCmd = &cobra.Command{
	Use:   "normtree",
	Short: "View and override hierarchical compliance check results",
	Long: `normtree loads a compliance result tree from the store, shows the
effective PASS/FAIL status of every check (a check fails when it or anything
below it fails), and lets an operator override a check's recorded status.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.DebugEnabled = DebugMode
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if NoColor || cfg.NoColor {
			logging.DisableColor()
		}
		return nil
	},
}

var (
	DebugMode bool
	NoColor   bool
	StoreURL  string
	RootID    string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&NoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&StoreURL, "store", "", "Store base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&RootID, "root", "", "Show the subtree rooted at this node id instead of the store's root")
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if StoreURL != "" {
		cfg.StoreURL = StoreURL
	}
	if RootID != "" {
		cfg.RootID = RootID
	}
	return cfg, nil
}

func newSession(cfg *config.Config) *engine.Session {
	return engine.NewSession(store.NewClient(cfg.StoreURL), cfg.Timeout())
}

// openView loads the configured view: the store's root, or the subtree at
// cfg.RootID when one is set.
func openView(ctx context.Context, cfg *config.Config) (*engine.Session, *engine.Snapshot, error) {
	sess := newSession(cfg)
	var (
		snap *engine.Snapshot
		err  error
	)
	if cfg.RootID != "" {
		snap, err = sess.Reload(ctx, tree.ID(cfg.RootID))
	} else {
		snap, err = sess.Load(ctx)
	}
	if err != nil {
		return nil, nil, err
	}
	return sess, snap, nil
}
