package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/render"
)

func newCategoriesCmd(g *globalFlags) *cobra.Command {
	var contact string
	contactID := func() (*model.ID, error) {
		if contact == "" {
			return nil, nil
		}
		id, err := parseID(contact)
		if err != nil {
			return nil, err
		}
		return &id, nil
	}

	list := func(cmd *cobra.Command, args []string) error {
		cid, err := contactID()
		if err != nil {
			return err
		}
		a, err := g.open(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		cats, err := a.records.ActiveCategories(cid)
		if err != nil {
			return err
		}
		counts := a.records.Snapshot().CategoryCounts(cid)
		out := struct {
			Categories []model.Category `json:"categories"`
			Counts     map[string]int   `json:"counts"`
		}{cats, counts}
		return a.emit(out, func(w io.Writer) error { return render.Categories(w, cats, counts) })
	}

	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "Manage the global category list or a contact's detail categories",
		Args:    cobra.NoArgs,
		RunE:    list,
	}
	cmd.PersistentFlags().StringVarP(&contact, "contact", "c", "", "work on this contact's detail categories")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories with their active item counts",
		Args:  cobra.NoArgs,
		RunE:  list,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name...>",
		Short: "Add a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cid, err := contactID()
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.records.AddCategory(cid, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.emit(c, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "added %s %s\n", c.ID, render.Category(c.Name))
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <name...>",
		Short: "Rename a category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cid, err := contactID()
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			c := model.Category{ID: args[0], Name: strings.Join(args[1:], " ")}
			if err := a.records.RenameCategory(cid, c.ID, c.Name); err != nil {
				return err
			}
			return a.emit(c, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "renamed %s to %s\n", c.ID, render.Category(c.Name))
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category; items keep its id and show as Unknown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cid, err := contactID()
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.records.DeleteCategory(cid, args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "deleted category %s\n", args[0])
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reorder <id>...",
		Short: "Put the listed categories in this order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cid, err := contactID()
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.records.ReorderCategories(cid, args); err != nil {
				return err
			}
			cats, err := a.records.ActiveCategories(cid)
			if err != nil {
				return err
			}
			counts := a.records.Snapshot().CategoryCounts(cid)
			return a.emit(cats, func(w io.Writer) error { return render.Categories(w, cats, counts) })
		},
	})
	return cmd
}
