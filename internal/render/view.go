package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lazypower/orbit/internal/engine"
	"github.com/lazypower/orbit/internal/model"
)

// ViewTable writes a view as a table, or its empty message.
func ViewTable(w io.Writer, v engine.View) error {
	if len(v.Rows) == 0 {
		_, err := fmt.Fprintln(w, Muted(v.Empty))
		return err
	}
	t := NewTable([]string{"ID", "TITLE", "CATEGORY", "DATE", "STATUS"}, len(v.Rows))
	for _, r := range v.Rows {
		title := Truncate(r.Title)
		if r.Item.Completed {
			title = Muted(title)
		}
		date := ""
		if r.Effective != nil {
			date = When(*r.Effective)
		}
		status := Drift(r.Status)
		if r.Preview != nil {
			var evs []string
			for _, ev := range r.Preview.Events {
				evs = append(evs, ShortDate(ev.Date)+" "+ev.Title)
			}
			preview := Muted(r.Preview.Label + ": " + strings.Join(evs, ", "))
			status = strings.TrimSpace(status + " " + preview)
		}
		t.AddRow(r.Item.ID.String(), title, Category(r.Category), date, status)
	}
	_, err := io.WriteString(w, t.String())
	return err
}

// Detail writes a full description of one item.
func Detail(w io.Writer, r engine.Row, now time.Time, width int) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Title(r.Title), Category("["+r.Category+"]"))
	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s %s\n", Muted(fmt.Sprintf("%-12s", name+":")), value)
		}
	}
	it := r.Item
	field("id", it.ID.String())
	field("role", it.Role().String())
	if r.Effective != nil {
		when := When(*r.Effective)
		if it.Recurring() {
			when += " (yearly)"
		}
		field("date", when)
	}
	if f, ok := it.CatchUpFreq(); ok {
		field("catch up", fmt.Sprintf("every %d days", f))
	}
	if r.Drift != nil {
		field("last contact", Ago(r.Drift.LastContact, now))
	}
	field("status", Drift(r.Status))
	if it.Interaction() != "" {
		field("interaction", it.Interaction().Label())
	}
	if r.Link != nil {
		field("links to", r.Link.String())
	}
	if it.Completed {
		field("archived", "yes")
	}
	field("created", CreatedAgo(it.CreatedAt, now))
	if desc := Markdown(width, it.Description); desc != "" {
		b.WriteString("\n" + desc + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Categories writes a category list with active counts.
func Categories(w io.Writer, cats []model.Category, counts map[string]int) error {
	t := NewTable([]string{"ID", "NAME", "ACTIVE"}, len(cats))
	for _, c := range cats {
		name := c.Name
		if model.IsReserved(c.ID) {
			name += " " + Muted("(reserved)")
		}
		t.AddRow(c.ID, name, fmt.Sprint(counts[c.ID]))
	}
	_, err := io.WriteString(w, t.String())
	return err
}
