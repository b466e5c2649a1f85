package main

import (
	"fmt"

	"github.com/aretw0/robofsm"
	"github.com/aretw0/robofsm/internal/validator"
	"github.com/aretw0/robofsm/pkg/adapters/yamlgraph"
	"github.com/aretw0/robofsm/pkg/playbook"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [play...]",
	Short: "Check the integrity of plays or a YAML graph",
	Long: `Reports unreachable states, undeclared targets, probabilities outside [0, 1]
and suspicious shapes (transitions on final states, non-final dead ends).
Without arguments every play is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		out := cmd.OutOrStdout()

		type target struct {
			name    string
			machine *robofsm.Machine
		}
		var targets []target

		if file != "" {
			def, err := yamlgraph.LoadFile(file, app.actions(out).Resolver(""))
			if err != nil {
				return err
			}
			m, err := def.Build()
			if err != nil {
				return err
			}
			targets = append(targets, target{name: file, machine: m})
		} else {
			names := args
			if len(names) == 0 {
				names = playbook.Names()
			}
			for _, name := range names {
				p, err := playbook.Lookup(name)
				if err != nil {
					return err
				}
				m, err := p.Build(playbook.Config{})
				if err != nil {
					return err
				}
				targets = append(targets, target{name: p.Name, machine: m})
			}
		}

		failed := 0
		for _, t := range targets {
			report := validator.Validate(t.machine)
			if len(report.Issues) == 0 {
				fmt.Fprintf(out, "✓ %s\n", t.name)
				continue
			}
			mark := "✓"
			if !report.OK() {
				mark = "✗"
				failed++
			}
			fmt.Fprintf(out, "%s %s\n", mark, t.name)
			for _, issue := range report.Issues {
				fmt.Fprintf(out, "  %s\n", issue)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d invalid graph(s)", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("file", "f", "", "YAML graph to validate instead of plays")
}
