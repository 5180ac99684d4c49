package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user/normtree/pkg/logging"
	"github.com/user/normtree/pkg/store"
	"github.com/user/normtree/pkg/tree"
)

var (
	serveAddr string
	serveSeed string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a development store seeded from a YAML tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := store.LoadSeed(serveSeed)
		if err != nil {
			return err
		}
		mem, err := store.NewMemory(root)
		if err != nil {
			return err
		}
		logging.Infof("Serving tree %s (%d nodes) on %s", root.ID, tree.Count(root), serveAddr)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return store.NewServer(mem).Serve(ctx, serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "Listen address")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "tree.yaml", "YAML file with the tree to serve")
	rootCmd.AddCommand(serveCmd)
}
