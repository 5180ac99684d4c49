package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/normtree/pkg/adk"
	"github.com/user/normtree/pkg/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (store, timeout, explain model)",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path, _ := config.GetConfigPath()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Config file: %s\n", path)
		fmt.Fprintf(out, "Store URL:   %s\n", cfg.StoreURL)
		rootID := cfg.RootID
		if rootID == "" {
			rootID = "(store default)"
		}
		fmt.Fprintf(out, "Root id:     %s\n", rootID)
		fmt.Fprintf(out, "Timeout:     %s\n", cfg.Timeout())
		fmt.Fprintf(out, "Explain:     %s / %s (key set: %t)\n", cfg.Explain.Provider, cfg.Explain.Model, cfg.Explain.APIKey != "")
		return nil
	},
}

var setStoreCmd = &cobra.Command{
	Use:   "set-store <url>",
	Short: "Set the store base URL and optional request timeout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		timeout, _ := cmd.Flags().GetInt("timeout")
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		cfg.StoreURL = args[0]
		if timeout > 0 {
			cfg.TimeoutSeconds = timeout
		}
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Store set to %s (timeout %ds)\n", cfg.StoreURL, cfg.TimeoutSeconds)
		return nil
	},
}

var setRootCmd = &cobra.Command{
	Use:   "set-root [node-id]",
	Short: "Remember a subtree root to open by default (no argument clears it)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		cfg.RootID = ""
		if len(args) == 1 {
			cfg.RootID = strings.TrimSpace(args[0])
		}
		return config.SaveConfig(cfg)
	},
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Manually set the API key used by 'explain'",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		if key == "" {
			return fmt.Errorf("--key is required")
		}
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		cfg.SetAPIKey(key)
		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key saved for provider: %s\n", cfg.Explain.Provider)
		return nil
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		p, err := adk.NewProvider(cmd.Context(), cfg.Explain.Provider, cfg.Explain.APIKey, "")
		if err != nil {
			return err
		}
		if closer, ok := p.(interface{ Close() }); ok {
			defer closer.Close()
		}
		models, err := p.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetching models: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Available Models (%s):\n", cfg.Explain.Provider)
		for _, m := range models {
			mark := " "
			if m == cfg.Explain.Model {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, m)
		}
		return nil
	},
}

func init() {
	setStoreCmd.Flags().Int("timeout", 0, "Request timeout in seconds")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setStoreCmd)
	configCmd.AddCommand(setRootCmd)
	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(listModelsCmd)
	rootCmd.AddCommand(configCmd)
}
