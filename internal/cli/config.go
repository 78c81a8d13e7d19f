package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vk/checkwavego/internal/persist"
)

func (c *cli) newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write the current dependency configuration to disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp()
			if err != nil {
				return err
			}
			path, err := persist.Save(a.Store, a.Settings.ConfigDir)
			if err != nil {
				return err
			}
			if c.flags.jsonOut {
				return c.printJSON(map[string]string{"path": path})
			}
			fmt.Fprintln(c.outW, stylePass.Render("saved "+path))
			return nil
		},
	}
}

func (c *cli) newLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load [path]",
		Short: "Merge a saved dependency configuration into the store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp()
			if err != nil {
				return err
			}
			path := filepath.Join(a.Settings.ConfigDir, persist.ConfigFileName)
			if len(args) == 1 {
				path = args[0]
			}
			snapshot, err := persist.Load(a.Store, path)
			if err != nil {
				return err
			}
			if snapshot == nil {
				fmt.Fprintln(c.outW, styleMuted.Render("no configuration file at "+path))
				return nil
			}
			if c.flags.jsonOut {
				return c.printJSON(snapshot)
			}
			fmt.Fprintln(c.outW, stylePass.Render(fmt.Sprintf("merged %d criteria from %s (version %s)",
				len(snapshot.Dependencies), path, snapshot.Version)))
			return nil
		},
	}
}
