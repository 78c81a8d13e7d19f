package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vk/checkwavego/internal/history"
	"github.com/vk/checkwavego/internal/persist"
)

func (c *cli) newRecordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record <criterion> <success|failed> <durationMs>",
		Short: "Record one criterion execution in the history log",
		Long:  "Appends an execution result to the bounded history log and persists\nthe log, so analytics accumulate across invocations. Meant to be\ncalled by the task runner after each criterion finishes.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := history.Status(args[1])
			if status != history.StatusSuccess && status != history.StatusFailed {
				return fmt.Errorf("status must be %q or %q, got %q", history.StatusSuccess, history.StatusFailed, args[1])
			}
			durationMs, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil || durationMs < 0 {
				return fmt.Errorf("durationMs must be a non-negative integer, got %q", args[2])
			}

			a, err := c.newApp()
			if err != nil {
				return err
			}
			id := a.History.Record(args[0], status, durationMs, nil)
			if _, err := persist.SaveHistory(a.History, a.Settings.ConfigDir); err != nil {
				return err
			}
			if c.flags.jsonOut {
				return c.printJSON(map[string]string{"id": id})
			}
			fmt.Fprintln(c.outW, stylePass.Render("recorded "+id))
			return nil
		},
	}
}

func (c *cli) newAnalyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Summarize the recorded execution history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp()
			if err != nil {
				return err
			}
			stats, ok := a.History.Analytics()
			if !ok {
				if c.flags.jsonOut {
					return c.printJSON(map[string]bool{"noData": true})
				}
				fmt.Fprintln(c.outW, styleMuted.Render("no executions recorded yet"))
				return nil
			}
			if c.flags.jsonOut {
				return c.printJSON(stats)
			}

			fmt.Fprintln(c.outW, styleHeader.Render(fmt.Sprintf("%d executions, %.1f%% success, avg %.0fms",
				stats.TotalExecutions, stats.SuccessRatePct, stats.AverageDurationMs)))
			names := make([]string, 0, len(stats.Criteria))
			for name := range stats.Criteria {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				cs := stats.Criteria[name]
				line := fmt.Sprintf("  %-24s %4d runs  %.1f%%", name, cs.Executions, cs.SuccessRatePct)
				if cs.SuccessRatePct < 100 {
					line = styleFail.Render(line)
				}
				fmt.Fprintln(c.outW, line)
			}
			return nil
		},
	}
}
