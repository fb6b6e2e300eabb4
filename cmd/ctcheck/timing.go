package main

import (
	"fmt"

	"git.gammaspectra.live/P2Pool/subtle/timing"
	"git.gammaspectra.live/P2Pool/subtle/types"
	"git.gammaspectra.live/P2Pool/subtle/utils"
	"github.com/spf13/cobra"
)

func newTimingCommand() *cobra.Command {
	cfg := timing.DefaultConfig()
	var seed string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "timing [target...]",
		Short: "Run timing-variance tests on the primitives",
		Long: "Runs each target on a fixed input class and a random input class and compares\n" +
			"their execution times with Welch's t-test. Exits with status 1 if any |t| exceeds the threshold.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Measurements < 1 {
				return fmt.Errorf("invalid measurements %d: must be at least 1", cfg.Measurements)
			}
			if cfg.Inner < 1 {
				return fmt.Errorf("invalid inner %d: must be at least 1", cfg.Inner)
			}
			if cfg.CropPercentile <= 0 || cfg.CropPercentile > 1 {
				return fmt.Errorf("invalid crop %g: must be in (0, 1]", cfg.CropPercentile)
			}
			if seed != "" {
				var err error
				if cfg.Seed, err = types.HashFromString(seed); err != nil {
					return fmt.Errorf("invalid seed: %w", err)
				}
			}

			targets, err := selectTargets(args)
			if err != nil {
				return err
			}

			results := make([]timing.Result, 0, len(targets))
			var leaks int
			for _, target := range targets {
				utils.Noticef("timing", "measuring %s", target.Name)
				result := timing.Measure(cfg, target)
				if result.Leak {
					leaks++
					utils.Errorf("timing", "%s: possible leak, t = %.2f, cropped t = %.2f", result.Name, result.T, result.CroppedT)
				} else {
					utils.Logf("timing", "%s: ok, t = %.2f, cropped t = %.2f", result.Name, result.T, result.CroppedT)
				}
				results = append(results, result)
			}

			if jsonOutput {
				if err := utils.NewJSONEncoder(cmd.OutOrStdout()).Encode(results); err != nil {
					return err
				}
			}

			if leaks > 0 {
				return fmt.Errorf("%w: %d of %d targets leak", errCheckFailed, leaks, len(targets))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Measurements, "measurements", cfg.Measurements, "Measurements per target")
	flags.IntVar(&cfg.Inner, "inner", cfg.Inner, "Calls per measurement")
	flags.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "Maximum |t| considered constant time")
	flags.Float64Var(&cfg.CropPercentile, "crop", cfg.CropPercentile, "Percentile above which measurements are cropped")
	flags.StringVar(&seed, "seed", "", "Hex encoded 32-byte seed for the random input class")
	flags.BoolVar(&jsonOutput, "json", false, "Write results as JSON to stdout")
	return cmd
}

func selectTargets(names []string) ([]timing.Target, error) {
	if len(names) == 0 {
		return timing.Targets(), nil
	}
	targets := make([]timing.Target, 0, len(names))
	for _, name := range names {
		target := timing.TargetByName(name)
		if target == nil {
			return nil, fmt.Errorf("unknown target %q", name)
		}
		targets = append(targets, *target)
	}
	return targets, nil
}
