// Package cli implements the orbit command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// globalFlags are the persistent flags every command shares.
type globalFlags struct {
	config   string
	logLevel string
	logJSON  bool
	format   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:          "orbit",
		Short:        "Keep the people in your life in orbit",
		Long:         "Orbit tracks contacts, the details you know about them, and how long it has been since you last caught up.",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.config, "config", "", "config file (default $ORBIT_CONFIG or ~/.orbit/orbit.toml)")
	pf.StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&g.logJSON, "log-json", false, "write logs as JSON")
	pf.StringVar(&g.format, "format", formatTable, "output format: table, json, yaml")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newServeCmd(g))
	root.AddCommand(newListCmd(g))
	root.AddCommand(newShowCmd(g))
	root.AddCommand(newAddCmd(g))
	root.AddCommand(newEditCmd(g))
	root.AddCommand(newLogCmd(g))
	root.AddCommand(newTrashCmd(g))
	root.AddCommand(newRestoreCmd(g))
	root.AddCommand(newReorderCmd(g))
	root.AddCommand(newCategoriesCmd(g))
	root.AddCommand(newExportCmd(g))
	root.AddCommand(newImportCmd(g))
	return root
}

func Execute() error {
	return newRootCmd().Execute()
}
