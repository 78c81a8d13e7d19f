// Package cli implements the checkwavego command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vk/checkwavego/internal/app"
)

// rootFlags are the persistent options shared by every subcommand.
type rootFlags struct {
	settingsPath string
	criteriaPath string
	noSeed       bool
	logLevel     string
	logFormat    string
	jsonOut      bool
}

// cli bundles the writers and flags the subcommands close over.
type cli struct {
	outW  io.Writer
	errW  io.Writer
	flags rootFlags
}

// NewRootCmd builds the checkwavego command tree writing user output to
// outW and logs to errW.
func NewRootCmd(outW, errW io.Writer) *cobra.Command {
	c := &cli{outW: outW, errW: errW}

	root := &cobra.Command{
		Use:           "checkwavego",
		Short:         "Dependency-aware scheduler for validation criteria",
		Long:          "checkwavego computes safe execution orders and parallel wave plans\nfor named validation criteria with declared dependencies.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.settingsPath, "config", "", "Path to a TOML settings file.")
	pf.StringVar(&c.flags.criteriaPath, "criteria", "", "Path to a criteria .hcl file or directory.")
	pf.BoolVar(&c.flags.noSeed, "no-seed", false, "Start from an empty store instead of the default criteria.")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "Logging level: debug, info, warn or error.")
	pf.StringVar(&c.flags.logFormat, "log-format", "", "Log output format: text or json.")
	pf.BoolVar(&c.flags.jsonOut, "json", false, "Emit machine-readable JSON instead of styled output.")

	root.AddCommand(
		c.newValidateCmd(),
		c.newOrderCmd(),
		c.newPlanCmd(),
		c.newAdaptiveCmd(),
		c.newVizCmd(),
		c.newSaveCmd(),
		c.newLoadCmd(),
		c.newRecordCmd(),
		c.newAnalyticsCmd(),
	)
	return root
}

// newApp assembles the application from the persistent flags.
func (c *cli) newApp() (*app.App, error) {
	return app.New(c.errW, app.Options{
		SettingsPath: c.flags.settingsPath,
		CriteriaPath: c.flags.criteriaPath,
		NoSeed:       c.flags.noSeed,
		LogLevel:     c.flags.logLevel,
		LogFormat:    c.flags.logFormat,
	})
}

// printJSON writes v as indented JSON to the output writer.
func (c *cli) printJSON(v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(c.outW, string(raw))
	return nil
}
