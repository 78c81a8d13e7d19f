package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vk/checkwavego/internal/viz"
)

func (c *cli) newVizCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Render the dependency graph as a diagram",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp()
			if err != nil {
				return err
			}
			diagram, err := viz.Render(a.Store, viz.Format(format))
			if err != nil {
				return err
			}
			if c.flags.jsonOut {
				return c.printJSON(diagram)
			}
			fmt.Fprintln(c.outW, diagram.Content)
			fmt.Fprintln(c.outW, styleMuted.Render(diagram.Instructions))
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(viz.FormatASCII), "Diagram format: mermaid, graphviz, json or ascii.")
	return cmd
}
