package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/robofsm"
	"github.com/aretw0/robofsm/internal/config"
	"github.com/aretw0/robofsm/internal/console"
	"github.com/aretw0/robofsm/internal/metrics"
	"github.com/aretw0/robofsm/internal/presentation/tui"
	"github.com/aretw0/robofsm/pkg/persistence/middleware"
	"github.com/aretw0/robofsm/pkg/playbook"
	"github.com/aretw0/robofsm/pkg/robot"
	"github.com/aretw0/robofsm/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// application holds what every command shares: configuration, logger,
// metrics and the lazily opened session store.
type application struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Collector
	store    *middleware.StoreMetrics

	sessions     *session.Manager
	closeStore   func() error
	stopMetrics  context.CancelFunc
	metricsError chan error
}

func newApplication(ctx context.Context, v *viper.Viper, file string) (*application, error) {
	cfg, err := config.Load(v, file)
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return nil, err
	}

	storeMetrics, err := middleware.NewStoreMetrics(reg)
	if err != nil {
		return nil, err
	}

	a := &application{cfg: cfg, logger: logger, registry: reg, metrics: collector, store: storeMetrics}
	if cfg.Metrics.Addr != "" {
		mctx, cancel := context.WithCancel(ctx)
		a.stopMetrics = cancel
		a.metricsError = make(chan error, 1)
		go func() {
			a.metricsError <- metrics.Serve(mctx, cfg.Metrics.Addr, metrics.Handler(reg), logger)
		}()
	}
	return a, nil
}

// Sessions opens the configured store on first use.
func (a *application) Sessions() (*session.Manager, error) {
	if a.sessions != nil {
		return a.sessions, nil
	}
	mgr, closeFn, err := a.cfg.OpenSessions(a.logger, middleware.Logging(a.logger), a.store.Middleware())
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	a.sessions, a.closeStore = mgr, closeFn
	return mgr, nil
}

func (a *application) Close() error {
	var errs []error
	if a.closeStore != nil {
		errs = append(errs, a.closeStore())
	}
	if a.stopMetrics != nil {
		a.stopMetrics()
		errs = append(errs, <-a.metricsError)
	}
	return errors.Join(errs...)
}

// actions binds entry actions to the configured robot, narrating on out.
func (a *application) actions(out io.Writer) playbook.Actions {
	return playbook.Actions{
		Actuator: robot.NewLogActuator(a.logger, out),
		Robot:    a.cfg.Robot,
		Logger:   a.logger,
	}
}

func (a *application) machineOptions() ([]robofsm.Option, error) {
	return a.cfg.MachineOptions(a.logger)
}

type consoleConfig struct {
	auto      bool
	sessionID string
}

func (a *application) console(cmd *cobra.Command, cc consoleConfig) (*console.Console, error) {
	opts, err := a.machineOptions()
	if err != nil {
		return nil, err
	}

	var sessions *session.Manager
	if cc.sessionID != "" {
		if sessions, err = a.Sessions(); err != nil {
			return nil, err
		}
	}

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	return console.New(console.Options{
		In:             in,
		Out:            out,
		Actions:        a.actions(out),
		MachineOptions: opts,
		Hooks:          a.metrics.Hooks,
		Sessions:       sessions,
		SessionID:      cc.sessionID,
		Auto:           cc.auto,
		Styled:         tui.IsInteractive(in) && out == os.Stdout,
		Logger:         a.logger,
	}), nil
}
