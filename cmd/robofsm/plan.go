package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/robofsm/internal/presentation/graph"
	"github.com/aretw0/robofsm/pkg/domain"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   `plan "<instruction>"`,
	Short: "Map an instruction to a play and show its state machine",
	Example: `  robofsm plan "Pass the ball to R4"
  robofsm plan Block R5 --simulate --auto`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		simulate, _ := cmd.Flags().GetBool("simulate")
		auto, _ := cmd.Flags().GetBool("auto")
		sessionID, _ := cmd.Flags().GetString("session")

		c, err := app.console(cmd, consoleConfig{auto: auto, sessionID: sessionID})
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		plan, m, err := c.Describe(text)
		if errors.Is(err, domain.ErrUnrecognizedInstruction) {
			return fmt.Errorf("%w: %q (try pass, shoot, block or intercept)", domain.ErrUnrecognizedInstruction, text)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\nPlan: %s\n\n", plan.Description)
		if err := graph.WriteListing(out, m); err != nil {
			return err
		}

		if !simulate {
			return nil
		}
		_, err = c.Simulate(cmd.Context(), m, plan.Description, plan.Play.Steps)
		return err
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().Bool("simulate", false, "Run the simulation of the plan")
	planCmd.Flags().Bool("auto", false, "Send every event without waiting for Enter")
	planCmd.Flags().String("session", "", "Persist the simulation under this session ID")
}
