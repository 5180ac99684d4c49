package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/normtree/pkg/adk"
)

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Ask the configured model to summarize what is failing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		_, snap, err := openView(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		provider, err := adk.NewProvider(cmd.Context(), cfg.Explain.Provider, cfg.Explain.APIKey, cfg.Explain.Model)
		if err != nil {
			if errors.Is(err, adk.ErrNoAPIKey) {
				return fmt.Errorf("%w: run 'normtree config setup' or set GOOGLE_API_KEY", err)
			}
			return err
		}
		if closer, ok := provider.(interface{ Close() }); ok {
			defer closer.Close()
		}

		summary, err := adk.NewExplainer(provider).Explain(cmd.Context(), snap)
		if err != nil {
			return err
		}
		if summary == "" {
			summary = "No failing checks."
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
