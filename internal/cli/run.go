package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/synaptecltd/reactor/internal/config"
	"github.com/synaptecltd/reactor/internal/driver"
	"github.com/synaptecltd/reactor/internal/recorder"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	ConfigPath string
	Ticks      uint64
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation in real time",
		Long: `Run the reactor in real time, one tick per tick period, until interrupted
or the tick limit is reached.

Example:
  reactorsim run --config reactor.yaml
  REACTOR_SEED=7 reactorsim run --ticks 360 --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDriver(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "reactor.yaml", "path to the YAML config file")
	cmd.Flags().Uint64Var(&opts.Ticks, "ticks", 0, "stop after this many ticks (overrides the config, 0 keeps it)")

	return cmd
}

func runDriver(cmd *cobra.Command, opts *RunOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	slog.SetDefault(logger)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if opts.Ticks > 0 {
		cfg.Simulation.Ticks = opts.Ticks
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Warn("init sqlite recorder failed, using noop", "error", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer func() {
				if closeErr := sr.Close(); closeErr != nil {
					logger.Error("error closing recorder", "error", closeErr)
				}
			}()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	controls := cfg.InitialControls()
	d := driver.New(driver.Options{
		Seed:           cfg.Simulation.Seed,
		Noise:          cfg.Simulation.Noise,
		SecondsPerTick: cfg.Simulation.SecondsPerTick,
		Controls:       &controls,
		Disturbances:   cfg.Disturbances,
		Recorder:       rec,
		Logger:         logger,
		MaxTicks:       cfg.Simulation.Ticks,
	})

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("reactor simulator starting",
		"config", opts.ConfigPath,
		"seed", cfg.Simulation.Seed,
		"disturbances", len(cfg.Disturbances),
	)
	d.Start()
	if err := d.Run(ctx, cfg.TickSpec(), cfg.Schedule.ReportCron); err != nil {
		return err
	}

	s := d.Status()
	logger.Info("reactor simulator stopped",
		"clock", s.Clock,
		"phase", s.Phase,
		"safety", fmt.Sprintf("%.1f", s.SafetyRating),
	)
	return nil
}
