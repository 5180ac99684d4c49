package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/normtree/pkg/engine"
	"github.com/user/normtree/pkg/tree"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Browse the tree and override checks in a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sess, _, err := openView(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		return runInteractive(cmd.Context(), sess, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

const interactiveHelp = `Commands:
  show                     print the tree
  why                      list recorded failures and what they make fail
  flip <id>                flip the recorded status of <id> and reload
  override <id> <status>   flip starting from the status you observed, then reload
  refresh                  reload the tree from the store
  quit                     leave`

// runInteractive reads commands from in until EOF or quit. Errors from
// commands are printed and the last good tree stays displayed.
func runInteractive(ctx context.Context, sess *engine.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintln(out, "---------------------------------------------------------")
	fmt.Fprintf(out, "normtree session on tree %s. Type 'help' for commands.\n", sess.RootID())
	fmt.Fprintln(out, "---------------------------------------------------------")

	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
		case "quit", "exit":
			return nil
		case "help":
			fmt.Fprintln(out, interactiveHelp)
		case "show":
			engine.RenderTree(out, sess.Snapshot())
		case "why":
			fmt.Fprint(out, sess.Snapshot().GetReport())
		case "refresh":
			snap, err := sess.Refresh(ctx)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			engine.RenderTree(out, snap)
		case "flip":
			if len(args) != 1 {
				fmt.Fprintln(out, "usage: flip <id>")
				continue
			}
			next, snap, err := sess.Flip(ctx, tree.ID(args[0]))
			if err != nil {
				if next != "" {
					fmt.Fprintf(out, "Node %s recorded as %s, but reload failed.\n", args[0], next)
				}
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Node %s recorded as %s.\n", args[0], next)
			engine.RenderTree(out, snap)
		case "override":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: override <id> <PASS|FAIL>")
				continue
			}
			observed, err := tree.ParseOperatorStatus(args[1])
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			next, err := sess.Override(ctx, tree.ID(args[0]), observed)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Node %s recorded as %s.\n", args[0], next)
			snap, err := sess.Refresh(ctx)
			if err != nil {
				fmt.Fprintf(out, "Error: %v\n", err)
				continue
			}
			engine.RenderTree(out, snap)
		default:
			fmt.Fprintf(out, "Unknown command %q. Type 'help'.\n", cmd)
		}
	}
	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
