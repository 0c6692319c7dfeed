package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lazypower/orbit/internal/engine"
	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/records"
	"github.com/lazypower/orbit/internal/render"
)

// detailWidth is the wrap width for descriptions in show.
const detailWidth = 80

func parseID(raw string) (model.ID, error) {
	id, err := model.ParseID(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// scopeQuery builds the scope and tag filter shared by list and reorder. Tags
// are category names, resolved against the scope's active list.
func scopeQuery(snap *records.Snapshot, contact, tags string, archived bool) (engine.Query, error) {
	q := engine.Query{Completed: archived}
	if contact != "" {
		id, err := parseID(contact)
		if err != nil {
			return q, err
		}
		it, ok := snap.Item(id)
		if !ok || !it.IsRoot() {
			return q, fmt.Errorf("contact %d: %w", id, records.ErrNotFound)
		}
		q.Contact = &id
	}
	if tags != "" {
		q.Tags = snap.TagIDs(q.Contact, tags)
	}
	return q, nil
}

func newListCmd(g *globalFlags) *cobra.Command {
	var (
		contact, tags, search, sort string
		archived                    bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contacts, or the details of one contact",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			snap := a.records.Snapshot()
			q, err := scopeQuery(snap, contact, tags, archived)
			if err != nil {
				return err
			}
			q.Search = search
			if q.Sort, err = engine.ParseSortMode(sort); err != nil {
				return err
			}
			v := a.engine.View(snap, q)
			return a.emit(v, func(w io.Writer) error {
				if v.Contact != nil {
					fmt.Fprintln(w, render.Header(v.Contact.Title))
				}
				return render.ViewTable(w, v)
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&contact, "contact", "c", "", "list the details of this contact id")
	f.StringVarP(&tags, "tags", "t", "", "comma-separated category names to filter by")
	f.StringVarP(&search, "search", "q", "", "case-insensitive search over titles and descriptions")
	f.StringVarP(&sort, "sort", "s", "manual", "sort: manual, upcoming or drift")
	f.BoolVar(&archived, "archived", false, "show archived items instead of active ones")
	return cmd
}

func newShowCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one item; contacts include their details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			snap := a.records.Snapshot()
			row, ok := a.engine.Describe(snap, id)
			if !ok {
				return fmt.Errorf("item %d: %w", id, records.ErrNotFound)
			}
			out := struct {
				Row     engine.Row   `json:"row"`
				Details []engine.Row `json:"details,omitempty"`
			}{Row: row}
			if row.Item.IsRoot() {
				out.Details = a.engine.View(snap, engine.Query{Contact: &id}).Rows
			}
			return a.emit(out, func(w io.Writer) error {
				if err := render.Detail(w, row, a.engine.Now(), detailWidth); err != nil {
					return err
				}
				if len(out.Details) == 0 {
					return nil
				}
				fmt.Fprintln(w)
				return render.ViewTable(w, engine.View{Rows: out.Details})
			})
		},
	}
}

// draftFlags are the item fields add and edit share. Only flags set on the
// command line are applied.
type draftFlags struct {
	typ         string
	description string
	date        string
	clock       string
	recurring   bool
	every       int
	interaction string
	target      string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.typ, "type", "", "category id or name")
	fs.StringVarP(&f.description, "description", "d", "", "free-form notes (markdown)")
	fs.StringVar(&f.date, "date", "", "due date, YYYY-MM-DD")
	fs.StringVar(&f.clock, "time", "", "due time, HH:MM")
	fs.BoolVar(&f.recurring, "recurring", false, "event repeats every year")
	fs.IntVar(&f.every, "every", 0, "catch up with this contact every N days (0 clears)")
	fs.StringVarP(&f.interaction, "interaction", "i", "", "history interaction: in-person, text, email, voice, video")
	fs.StringVar(&f.target, "target", "", "contact id a connection points at")
}

func (f *draftFlags) apply(cmd *cobra.Command, snap *records.Snapshot, d *model.Draft) error {
	changed := cmd.Flags().Changed
	if changed("type") {
		d.Type = resolveType(snap, d.ParentID, f.typ)
	}
	if changed("description") {
		d.Description = f.description
	}
	if changed("date") {
		d.DueDate = f.date
		if f.date == "" {
			d.DueTime = ""
			d.Recurring = false
		}
	}
	if changed("time") {
		d.DueTime = f.clock
	}
	if changed("recurring") {
		d.Recurring = f.recurring
	}
	if changed("every") {
		d.CatchUpFreq = nil
		if f.every != 0 {
			every := f.every
			d.CatchUpFreq = &every
		}
	}
	if changed("interaction") {
		d.InteractionType = model.InteractionType(f.interaction)
	}
	if changed("target") {
		id, err := parseID(f.target)
		if err != nil {
			return fmt.Errorf("--target: %w", err)
		}
		d.TargetID = &id
	}
	return nil
}

// resolveType accepts either a category id or its display name.
func resolveType(snap *records.Snapshot, contact *model.ID, raw string) string {
	raw = strings.TrimSpace(raw)
	if _, ok := model.FindCategory(snap.Categories(contact), raw); ok {
		return raw
	}
	if ids := snap.TagIDs(contact, raw); len(ids) == 1 {
		return ids[0]
	}
	return raw
}

func newAddCmd(g *globalFlags) *cobra.Command {
	var (
		contact string
		df      draftFlags
	)
	cmd := &cobra.Command{
		Use:   "add [title...]",
		Short: "Add a contact, or a detail to a contact",
		Example: `  orbit add --type goal --every 14 Ana Lima
  orbit add --contact 1742032800000 --type events --date 1990-04-02 --recurring Birthday
  orbit add --contact 1742032800000 --type connections --target 1742032900000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			d := model.Draft{Title: strings.Join(args, " ")}
			if contact != "" {
				id, err := parseID(contact)
				if err != nil {
					return err
				}
				d.ParentID = &id
			}
			if err := df.apply(cmd, a.records.Snapshot(), &d); err != nil {
				return err
			}
			it, err := a.records.Upsert(d)
			if err != nil {
				return err
			}
			return a.emit(it, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "created %s %s\n", it.ID, render.Title(it.Title))
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&contact, "contact", "c", "", "contact id to add a detail to")
	df.register(cmd)
	cmd.MarkFlagRequired("type")
	return cmd
}

func newEditCmd(g *globalFlags) *cobra.Command {
	var df draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id> [title...]",
		Short: "Change an item's fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cur, err := a.records.Item(id)
			if err != nil {
				return err
			}
			d := cur.Draft()
			if len(args) > 1 {
				d.Title = strings.Join(args[1:], " ")
			}
			if err := df.apply(cmd, a.records.Snapshot(), &d); err != nil {
				return err
			}
			it, err := a.records.Upsert(d)
			if err != nil {
				return err
			}
			return a.emit(it, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "updated %s %s\n", it.ID, render.Title(it.Title))
				return err
			})
		},
	}
	df.register(cmd)
	return cmd
}

func newLogCmd(g *globalFlags) *cobra.Command {
	var entry records.LogEntry
	var interaction string
	cmd := &cobra.Command{
		Use:   "log <contact-id> [summary...]",
		Short: "Record that you caught up with a contact",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			entry.Interaction = model.InteractionType(interaction)
			entry.Summary = strings.Join(args[1:], " ")
			it, err := a.records.QuickLog(id, entry)
			if err != nil {
				return err
			}
			return a.emit(it, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "logged %s on %s\n", render.Title(it.Title), it.DueDate)
				return err
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&interaction, "interaction", "i", "", "in-person, text, email, voice or video")
	f.StringVar(&entry.Date, "date", "", "date of the interaction, YYYY-MM-DD (default today)")
	f.StringVarP(&entry.Description, "description", "d", "", "notes about the conversation")
	return cmd
}

func newTrashCmd(g *globalFlags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "trash <id>",
		Aliases: []string{"rm"},
		Short:   "Archive an active contact, or delete anything else",
		Long: "Trash archives an active contact. Archived contacts and details are deleted " +
			"permanently, and deleting a contact deletes its details too; pass --yes to confirm.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			it, err := a.records.Item(id)
			if err != nil {
				return err
			}
			if hard := !it.IsRoot() || it.Completed; hard && !yes {
				n := 0
				if it.IsRoot() {
					n = len(a.records.Snapshot().Children(id))
				}
				return fmt.Errorf("%q and %d details would be deleted permanently; rerun with --yes", it.Title, n)
			}

			res, err := a.records.Trash(id)
			if err != nil {
				return err
			}
			return a.emit(res, func(w io.Writer) error {
				if res.Archived {
					_, err := fmt.Fprintf(w, "archived %s (restore with: orbit restore %s)\n", render.Title(it.Title), id)
					return err
				}
				_, err := fmt.Fprintf(w, "deleted %s and %d details\n", render.Title(it.Title), res.Children)
				return err
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm a permanent delete")
	return cmd
}

func newRestoreCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "restore <id>",
		Aliases: []string{"toggle"},
		Short:   "Flip an item between archived and active",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			it, err := a.records.Toggle(id)
			if err != nil {
				return err
			}
			return a.emit(it, func(w io.Writer) error {
				state := "restored"
				if it.Completed {
					state = "archived"
				}
				_, err := fmt.Fprintf(w, "%s %s\n", state, render.Title(it.Title))
				return err
			})
		},
	}
}

func newReorderCmd(g *globalFlags) *cobra.Command {
	var (
		contact, tags string
		archived      bool
	)
	cmd := &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Put the listed items in this order",
		Long: "Reorder takes the visible items of a list in their new order. Items " +
			"outside the list keep their positions.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]model.ID, 0, len(args))
			for _, raw := range args {
				id, err := parseID(raw)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			a, err := g.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			q, err := scopeQuery(a.records.Snapshot(), contact, tags, archived)
			if err != nil {
				return err
			}
			if err := a.engine.Reorder(a.records, q, ids); err != nil {
				return err
			}
			v := a.engine.View(a.records.Snapshot(), q)
			return a.emit(v, func(w io.Writer) error { return render.ViewTable(w, v) })
		},
	}
	f := cmd.Flags()
	f.StringVarP(&contact, "contact", "c", "", "reorder the details of this contact id")
	f.StringVarP(&tags, "tags", "t", "", "comma-separated category names the list is filtered by")
	f.BoolVar(&archived, "archived", false, "reorder within archived items")
	return cmd
}
