package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vk/checkwavego/internal/planner"
)

func (c *cli) newOrderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "order [criteria...]",
		Short: "Print a deterministic linear execution order",
		Long:  "Computes a topological execution order for the named criteria,\nor for every stored criterion when none are named.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp()
			if err != nil {
				return err
			}

			var names []string
			if len(args) > 0 {
				names = args
			}
			order := planner.Order(a.Store, names)
			if c.flags.jsonOut {
				return c.printJSON(order)
			}

			fmt.Fprintln(c.outW, styleHeader.Render(fmt.Sprintf("execution order (%d steps)", len(order))))
			for i, step := range order {
				line := fmt.Sprintf("%3d. %s", i+1, step.Criterion)
				if step.Forced {
					line += "  " + styleWarn.Render("(forced)")
				}
				fmt.Fprintln(c.outW, line)
			}
			return nil
		},
	}
}
