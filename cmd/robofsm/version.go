package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/robofsm"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of robofsm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "robofsm version %s\n", strings.TrimSpace(robofsm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
