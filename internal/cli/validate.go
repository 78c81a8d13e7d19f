package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vk/checkwavego/internal/criteria"
)

func (c *cli) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the dependency graph for cycles and dangling references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp()
			if err != nil {
				return err
			}
			report := a.Store.Validate()
			if c.flags.jsonOut {
				return c.printJSON(report)
			}

			if report.Valid {
				fmt.Fprintln(c.outW, stylePass.Render("dependency graph is valid"))
				return nil
			}
			fmt.Fprintln(c.outW, styleFail.Render(fmt.Sprintf("%d issue(s) found", len(report.Issues))))
			for _, issue := range report.Issues {
				switch issue.Kind {
				case criteria.IssueCycle:
					fmt.Fprintf(c.outW, "  %s %s\n", styleFail.Render("cycle"), issue.Message)
				case criteria.IssueMissingDependency:
					fmt.Fprintf(c.outW, "  %s %s\n", styleWarn.Render("missing"), issue.Message)
				}
			}
			return nil
		},
	}
}
