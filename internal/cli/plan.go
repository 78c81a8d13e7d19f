package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/checkwavego/internal/planner"
)

func (c *cli) newPlanCmd() *cobra.Command {
	var maxConcurrency int

	cmd := &cobra.Command{
		Use:   "plan [criteria...]",
		Short: "Group criteria into parallel execution waves",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-concurrency") {
				maxConcurrency = a.Settings.DefaultMaxConcurrency
			}

			var names []string
			if len(args) > 0 {
				names = args
			}
			plan := planner.PlanWaves(a.Store, names, maxConcurrency)
			if c.flags.jsonOut {
				return c.printJSON(plan)
			}
			c.printPlan(plan)
			return nil
		},
	}
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 0, "Maximum criteria per wave (default from settings).")
	return cmd
}

func (c *cli) newAdaptiveCmd() *cobra.Command {
	var sys planner.SystemInfo

	cmd := &cobra.Command{
		Use:   "adaptive [criteria...]",
		Short: "Plan waves with concurrency adapted to system load",
		Long:  "Derives a concurrency limit from the supplied system telemetry and\nplans waves under it. The telemetry is caller-provided; checkwavego\nnever samples the host itself.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp()
			if err != nil {
				return err
			}

			var names []string
			if len(args) > 0 {
				names = args
			}
			adaptive := planner.PlanAdaptive(a.Store, names, sys)
			if c.flags.jsonOut {
				return c.printJSON(adaptive)
			}

			fmt.Fprintln(c.outW, styleHeader.Render(fmt.Sprintf("recommended concurrency: %d", adaptive.RecommendedConcurrency)))
			fmt.Fprintln(c.outW, styleMuted.Render(fmt.Sprintf("bounds: cpu=%d memory=%d network=%d disk=%d",
				adaptive.Bounds.CPUOptimized, adaptive.Bounds.MemoryOptimized,
				adaptive.Bounds.NetworkOptimized, adaptive.Bounds.DiskOptimized)))
			for _, rec := range adaptive.ResourceScheduling {
				fmt.Fprintf(c.outW, "  %s %s\n", styleWarn.Render(rec.Type), rec.Message)
			}
			c.printPlan(adaptive.Plan)
			return nil
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&sys.AvailableCPUs, "cpus", 1, "Available CPU count.")
	fl.Int64Var(&sys.AvailableMemoryBytes, "memory-bytes", 0, "Available memory in bytes (0 = unknown).")
	fl.Float64Var(&sys.NetworkLatencyMs, "network-latency-ms", 0, "Observed network latency in milliseconds.")
	fl.Float64Var(&sys.DiskIOLoad, "disk-load", 0, "Disk I/O load in [0,1].")
	return cmd
}

// printPlan renders a wave plan for humans.
func (c *cli) printPlan(plan planner.Plan) {
	fmt.Fprintln(c.outW, styleHeader.Render(fmt.Sprintf("%d wave(s), estimated %dms (sequential %dms, gain %.0f%%)",
		plan.TotalWaves, plan.EstimatedTotalMs, plan.SequentialMs, 100*plan.ParallelizationGain)))
	for _, wave := range plan.Waves {
		fmt.Fprintf(c.outW, "  wave %d  [%d] %s\n", wave.Index, wave.Concurrency, strings.Join(wave.Criteria, ", "))
	}
	if plan.TotalWaves > 0 {
		fmt.Fprintln(c.outW, styleMuted.Render(fmt.Sprintf("avg concurrency %.2f, load balance %.2f",
			plan.Efficiency.AverageConcurrency, plan.Efficiency.LoadBalanceScore)))
	}
	for _, rec := range plan.Recommendations {
		fmt.Fprintf(c.outW, "  %s %s\n", styleWarn.Render(rec.Type), rec.Message)
	}
}
