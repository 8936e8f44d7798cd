package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/synaptecltd/reactor"
	"github.com/synaptecltd/reactor/disturbance"
	"github.com/synaptecltd/reactor/internal/config"
	"github.com/synaptecltd/reactor/internal/driver"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	ConfigPath string // optional, only its disturbances are used
	Ticks      uint64
	Seed       uint64
	NoNoise    bool
	Rods       float64
	Coolant    float64
	Turbine    float64
	ScramAt    uint64 // tick before which SCRAM is pressed, 0 never
	Format     string // "text" | "json"
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Advance the simulation as fast as possible and print every tick",
		Long: `Advance the reactor for a fixed number of ticks without waiting between
them and print one line per tick, or a JSON array of snapshots.

The run stops early once a SCRAM has brought the reactor to cold shutdown.

Example:
  reactorsim simulate --ticks 30 --rods 20 --coolant 40
  reactorsim simulate --no-noise --scram-at 10 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulation(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config to take disturbances from")
	cmd.Flags().Uint64Var(&opts.Ticks, "ticks", 60, "number of ticks to advance")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "seed for the noise and disturbances")
	cmd.Flags().BoolVar(&opts.NoNoise, "no-noise", false, "disable sensor noise")
	cmd.Flags().Float64Var(&opts.Rods, "rods", reactor.DefaultControlRods, "initial control rod insertion in percent")
	cmd.Flags().Float64Var(&opts.Coolant, "coolant", reactor.DefaultCoolantFlow, "initial coolant flow in percent")
	cmd.Flags().Float64Var(&opts.Turbine, "turbine", reactor.DefaultTurbineSpeed, "initial turbine speed in percent")
	cmd.Flags().Uint64Var(&opts.ScramAt, "scram-at", 0, "press SCRAM before this tick (0 never)")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	return cmd
}

func runSimulation(cmd *cobra.Command, opts *SimulateOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	var disturbances disturbance.Container
	if opts.ConfigPath != "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		disturbances = cfg.Disturbances
	}

	d := driver.New(driver.Options{
		Seed:         opts.Seed,
		Noise:        !opts.NoNoise,
		Controls:     &reactor.Controls{ControlRods: opts.Rods, CoolantFlow: opts.Coolant, TurbineSpeed: opts.Turbine},
		Disturbances: disturbances,
		Logger:       logger,
	})
	d.Start()

	snaps := make([]reactor.Snapshot, 0, opts.Ticks)
	for tick := uint64(1); tick <= opts.Ticks; tick++ {
		if tick == opts.ScramAt {
			d.Scram()
		}
		snap, ok := d.Tick()
		if !ok {
			break
		}
		snaps = append(snaps, snap)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), snaps)
	}
	return writeText(cmd.OutOrStdout(), snaps)
}

func writeText(w io.Writer, snaps []reactor.Snapshot) error {
	for _, s := range snaps {
		if _, err := fmt.Fprintf(w, "tick=%d phase=%s temperature=%.2f pressure=%.2f radiation=%.2f power=%.2f faults=%d\n",
			s.Tick, s.Phase, s.Temperature, s.Pressure, s.Radiation, s.Power, len(s.Faults)); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, snaps []reactor.Snapshot) error {
	data, err := json.MarshalIndent(snaps, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshots: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
