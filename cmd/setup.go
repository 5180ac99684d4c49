package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/normtree/pkg/adk"
	"github.com/user/normtree/pkg/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		ask := func(prompt string) string {
			fmt.Fprint(out, prompt)
			if !scanner.Scan() {
				return ""
			}
			return strings.TrimSpace(scanner.Text())
		}

		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}

		fmt.Fprintln(out, "Welcome to normtree Setup Wizard")
		fmt.Fprintln(out, "--------------------------------")

		// 1. Store
		fmt.Fprintf(out, "Step 1: Store URL [%s]\n", cfg.StoreURL)
		if v := ask("> "); v != "" {
			cfg.StoreURL = v
		}
		fmt.Fprintln(out, "Checking the store...")
		if _, snap, err := openView(cmd.Context(), cfg); err != nil {
			fmt.Fprintf(out, "Warning: could not load the tree: %v\n", err)
		} else {
			sum := snap.Summary()
			fmt.Fprintf(out, "Loaded tree %s: %d checks, overall %s.\n", snap.Root.ID, sum.Nodes, sum.Root)
		}

		// 2. Explain key (optional)
		fmt.Fprintln(out, "\nStep 2: Gemini API key for 'explain' (leave empty to skip)")
		apiKey := ask("> ")
		if apiKey != "" {
			cfg.SetAPIKey(apiKey)

			// 3. Model
			fmt.Fprintln(out, "\nStep 3: Validating key and fetching available models...")
			p, err := adk.NewProvider(cmd.Context(), cfg.Explain.Provider, apiKey, "")
			if err != nil {
				return err
			}
			if closer, ok := p.(interface{ Close() }); ok {
				defer closer.Close()
			}
			models, err := p.ListModels(cmd.Context())
			if err != nil || len(models) == 0 {
				fmt.Fprintf(out, "Warning: Could not fetch models from API: %v\n", err)
				if v := ask(fmt.Sprintf("Model name [%s] > ", cfg.Explain.Model)); v != "" {
					cfg.Explain.Model = v
				}
			} else {
				for i, m := range models {
					fmt.Fprintf(out, "%d. %s\n", i+1, m)
				}
				sel, err := strconv.Atoi(ask("Select Model (number) > "))
				if err != nil || sel < 1 || sel > len(models) {
					fmt.Fprintln(out, "Invalid selection. Using first available model.")
					sel = 1
				}
				cfg.Explain.Model = models[sel-1]
			}
		}

		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Fprintln(out, "--------------------------------")
		fmt.Fprintln(out, "Setup Complete!")
		fmt.Fprintf(out, "Store: %s\n", cfg.StoreURL)
		fmt.Fprintln(out, "You can now run 'normtree show' or 'normtree interactive'")
		return nil
	},
}

func init() {
	configCmd.AddCommand(setupCmd)
}
