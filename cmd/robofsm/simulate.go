package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/robofsm"
	"github.com/aretw0/robofsm/internal/presentation/graph"
	"github.com/aretw0/robofsm/pkg/adapters/yamlgraph"
	"github.com/aretw0/robofsm/pkg/playbook"
	"github.com/aretw0/robofsm/pkg/session"
	"github.com/spf13/cobra"
)

// newSessionKeyword asks for a generated session ID.
const newSessionKeyword = "new"

var simulateCmd = &cobra.Command{
	Use:   "simulate [play]",
	Short: "Step through a play or a YAML graph",
	Long: `Simulates a predefined play (pass, shoot, block, intercept) or a graph file.
By default the scripted success sequence is sent; --fail sends the failure
sequence and --events sends a custom one.`,
	Example: `  robofsm simulate pass
  robofsm simulate block --target R5 --fail --auto
  robofsm simulate --file examples/graphs/dribble.yaml --auto
  robofsm simulate intercept --session new`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		auto, _ := cmd.Flags().GetBool("auto")
		fail, _ := cmd.Flags().GetBool("fail")
		file, _ := cmd.Flags().GetString("file")
		target, _ := cmd.Flags().GetString("target")
		events, _ := cmd.Flags().GetStringSlice("events")
		sessionID, _ := cmd.Flags().GetString("session")

		if (file == "") == (len(args) == 0) {
			return fmt.Errorf("give either a play name or --file")
		}
		if sessionID == newSessionKeyword {
			sessionID = session.NewID()
			fmt.Fprintf(cmd.OutOrStdout(), ">>> New session '%s'.\n", sessionID)
		}

		c, err := app.console(cmd, consoleConfig{auto: auto, sessionID: sessionID})
		if err != nil {
			return err
		}

		var (
			m     *robofsm.Machine
			title string
			steps []robofsm.Step
		)
		if file != "" {
			opts, err := app.machineOptions()
			if err != nil {
				return err
			}
			def, err := yamlgraph.LoadFile(file, app.actions(cmd.OutOrStdout()).Resolver(target))
			if err != nil {
				return err
			}
			if m, err = def.Build(append(opts, robofsm.WithLifecycleHooks(app.metrics.Hooks(def.Graph.Name)))...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nFSM Visualization:\n%s", graph.RenderASCII(m))
			title, steps = def.Graph.Name, def.Graph.Steps
		} else {
			p, err := playbook.Lookup(args[0])
			if err != nil {
				return err
			}
			if m, err = c.Build(p, target); err != nil {
				return err
			}
			c.Present(p, m)
			title, steps = p.Title, p.Steps
			if fail {
				steps = p.FailSteps
			}
		}

		if len(events) > 0 {
			steps = customSteps(events)
		}
		if len(steps) == 0 {
			return fmt.Errorf("no event sequence: declare steps in the graph or pass --events")
		}

		_, err = c.Simulate(cmd.Context(), m, title, steps)
		return err
	},
}

// customSteps turns raw events into steps with an unknown expected state.
func customSteps(events []string) []robofsm.Step {
	steps := make([]robofsm.Step, 0, len(events))
	for _, e := range events {
		if e = strings.ToUpper(strings.TrimSpace(e)); e != "" {
			steps = append(steps, robofsm.Step{Event: e, Expect: "?"})
		}
	}
	return steps
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Bool("auto", false, "Send every event without waiting for Enter")
	simulateCmd.Flags().Bool("fail", false, "Send the failure sequence of the play")
	simulateCmd.Flags().StringP("file", "f", "", "YAML graph to simulate instead of a play")
	simulateCmd.Flags().String("target", "", "Target robot (defaults to the play default)")
	simulateCmd.Flags().StringSlice("events", nil, "Custom event sequence, comma separated")
	simulateCmd.Flags().String("session", "", `Persist and resume under this session ID ("new" generates one)`)
}
