package main

import (
	"github.com/spf13/cobra"
)

var glossaryCmd = &cobra.Command{
	Use:     "glossary",
	Aliases: []string{"help-topics"},
	Short:   "Show the help and glossary page",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := app.console(cmd, consoleConfig{})
		if err != nil {
			return err
		}
		return c.Glossary()
	},
}

func init() {
	rootCmd.AddCommand(glossaryCmd)
}
