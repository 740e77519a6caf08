// (c) Copyright Enthought, Inc. 2013

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/enthought/erinyes"
	"github.com/enthought/erinyes/process"
)

func watchCmd() *cobra.Command {
	var (
		pid        int
		limit      float64
		slack      float64
		interval   time.Duration
		count      int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Monitor the memory usage of a live process against a limit",
		Long: `Watch samples the resident memory of a running process at a fixed
interval and exits with status 1 as soon as a sample exceeds
limit * (1 + slack). With --limit 0 the first sample becomes the
baseline. Exits with status 2 when the process disappears.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("slack") && cfg.Slack != nil {
				slack = *cfg.Slack
			}
			if d, ok := cfg.interval(); ok && !cmd.Flags().Changed("interval") {
				interval = d
			}

			return watch(cmd, pid, limit, slack, interval, count)
		},
	}

	cmd.Flags().IntVar(&pid, "pid", 0, "pid of the process to watch")
	cmd.Flags().Float64Var(&limit, "limit", 0, "memory usage limit in bytes, 0 takes the first sample as baseline")
	cmd.Flags().Float64Var(&slack, "slack", 0, "tolerated growth above the limit, as a fraction")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "time between samples")
	cmd.Flags().IntVar(&count, "count", 0, "number of samples to take, 0 means until interrupted")
	cmd.Flags().StringVar(&configPath, "config", defaultConfigPath(), "path to the defaults file")
	_ = cmd.MarkFlagRequired("pid")

	return cmd
}

func watch(cmd *cobra.Command, pid int, limit, slack float64, interval time.Duration, count int) error {
	sampler := erinyes.PIDSampler(pid)
	stats := process.StatsFor(pid)

	baseline := limit
	if baseline == 0 {
		sample, err := sampler.Sample()
		if err != nil {
			return err
		}
		baseline = sample
	}

	hardLimit := erinyes.Tolerance{Baseline: baseline, Slack: slack}.HardLimit()
	fmt.Fprintf(cmd.OutOrStdout(), "watching pid %d, baseline %.0f bytes, hard limit %.0f bytes\n",
		pid, baseline, hardLimit)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for taken := 0; count == 0 || taken < count; taken++ {
		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-ticker.C:
		}

		mem, err := stats.Memory()
		if err != nil {
			return err
		}

		line := fmt.Sprintf("pid %d rss %d bytes", pid, mem.Rss)
		if cpu, err := stats.CPU(); err == nil {
			line += fmt.Sprintf(" cpu %d/%d ticks", cpu.User, cpu.System)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)

		if err := erinyes.CheckMemoryUsage(sampler, baseline, slack); err != nil {
			return err
		}
	}

	return nil
}
