package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/robofsm/internal/presentation/graph"
	"github.com/aretw0/robofsm/pkg/playbook"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <play>",
	Short: "Export a play as text, Mermaid or JSON",
	Example: `  robofsm export pass -o fsm_export.txt
  robofsm export block --target R5 --format mermaid`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		target, _ := cmd.Flags().GetString("target")
		formatName, _ := cmd.Flags().GetString("format")

		format, err := graph.ParseFormat(formatName)
		if err != nil {
			return err
		}
		p, err := playbook.Lookup(args[0])
		if err != nil {
			return err
		}
		c, err := app.console(cmd, consoleConfig{})
		if err != nil {
			return err
		}
		m, err := c.Build(p, target)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}
			defer f.Close()
			w = f
		}
		if err := graph.Write(w, format, p.Name, m); err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "FSM successfully exported to file '%s'\n", output)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")
	exportCmd.Flags().String("target", "", "Target robot (defaults to the play default)")
	exportCmd.Flags().String("format", string(graph.FormatText), "Output format (text, mermaid, json)")
}
