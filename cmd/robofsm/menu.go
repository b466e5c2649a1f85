package main

import (
	"github.com/spf13/cobra"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Open the interactive planning menu (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

func runMenu(cmd *cobra.Command) error {
	c, err := app.console(cmd, consoleConfig{})
	if err != nil {
		return err
	}
	return c.Run(cmd.Context())
}

func init() {
	rootCmd.AddCommand(menuCmd)
}
