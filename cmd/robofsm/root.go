package main

import (
	"github.com/aretw0/robofsm/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	v       = config.New()
	app     *application
)

var rootCmd = &cobra.Command{
	Use:   "robofsm",
	Short: "RoboFSM plans and simulates robot soccer behaviors as finite state machines",
	Long: `RoboFSM turns natural language instructions ("Pass the ball to R2") into
finite state machines for RoboCup SSL robots, and lets you inspect, simulate,
export and validate them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApplication(cmd.Context(), v, cfgFile)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		return app.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (YAML)")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Write logs to a rotating file instead of stderr")
	flags.String("robot", "R1", "Acting robot")
	flags.String("store", config.BackendFile, "Session store backend (memory, file, redis)")
	flags.String("store-dir", ".robofsm/sessions", "Directory of the file session store")
	flags.String("redis-addr", "localhost:6379", "Redis address of the redis session store")
	flags.String("selection", config.StrategyFirst, "Fallback selection strategy (first, weighted)")
	flags.Uint64("seed", 1, "Seed of the weighted selection")
	flags.String("metrics-addr", "", "Expose Prometheus metrics on this address while the command runs (e.g. :9090)")

	for key, flag := range map[string]string{
		"log.level":          "log-level",
		"log.file":           "log-file",
		"robot":              "robot",
		"store.backend":      "store",
		"store.dir":          "store-dir",
		"store.redis.addr":   "redis-addr",
		"selection.strategy": "selection",
		"selection.seed":     "seed",
		"metrics.addr":       "metrics-addr",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}
}
