package main

import (
	"fmt"

	"github.com/aretw0/robofsm/internal/metrics"
	httpAdapter "github.com/aretw0/robofsm/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the playbook HTTP API",
	Long: `Serves the playbook as JSON over HTTP: list plays, fetch their graphs
(JSON or Mermaid), validate them, map instructions to plans and run headless
simulations. /metrics and /healthz are served on the same address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = app.cfg.HTTP.Addr
		}

		handler := httpAdapter.NewHandler(httpAdapter.Options{
			Gatherer: app.registry,
			Hooks:    app.metrics.Hooks,
			Logger:   app.logger,
		})

		fmt.Fprintf(cmd.OutOrStdout(), "Starting RoboFSM server on %s\n", addr)
		if err := metrics.Serve(cmd.Context(), addr, handler, app.logger); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "RoboFSM server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Address to listen on (default from http.addr, :8080)")
}
