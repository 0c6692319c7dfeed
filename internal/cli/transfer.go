package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazypower/orbit/internal/records"
)

func newExportCmd(g *globalFlags) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record as a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := a.records.ExportJSON()
			if err != nil {
				return err
			}
			if path == "" || path == "-" {
				_, err := a.out.Write(data)
				return err
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			a.log.Info("exported records", "path", path, "items", a.records.Len())
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "output", "o", "", "file to write (default stdout)")
	return cmd
}

func newImportCmd(g *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every record with an exported document",
		Long:  "Import replaces all items and categories with the document's. Use - to read stdin.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}

			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			current := a.records.Len()
			doc, err := a.records.Import(data, yes)
			if errors.Is(err, records.ErrImportUnconfirmed) {
				return fmt.Errorf("%s holds %d items and %d categories and would replace all %d current items; rerun with --yes",
					args[0], len(doc.Items), len(doc.Categories), current)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "imported %d items and %d categories (replaced %d items)\n",
				len(doc.Items), len(doc.Categories), current)
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm replacing every record")
	return cmd
}
