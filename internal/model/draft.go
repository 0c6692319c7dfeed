package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every write-boundary validation failure.
var ErrInvalid = errors.New("invalid item")

// ValidationError names the field that failed validation.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Draft is the full set of user-editable fields submitted to the upsert path.
// A nil ID creates a new item; otherwise the item with that ID is replaced.
type Draft struct {
	ID              *ID             `json:"id,omitempty"`
	ParentID        *ID             `json:"parentId,omitempty"`
	Type            string          `json:"type"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DueDate         string          `json:"dueDate"`
	DueTime         string          `json:"dueTime"`
	Recurring       bool            `json:"recurring"`
	CatchUpFreq     *int            `json:"catchUpFreq,omitempty"`
	InteractionType InteractionType `json:"interactionType,omitempty"`
	TargetID        *ID             `json:"targetId,omitempty"`
}

// Role is the role the drafted item will take.
func (d *Draft) Role() Role { return RoleOf(d.ParentID, d.Type) }

// Check validates the field combinations that don't depend on other records.
// It trims text fields in place and fills the default history title.
func (d *Draft) Check() error {
	d.Type = strings.TrimSpace(d.Type)
	d.Title = strings.TrimSpace(d.Title)
	d.DueDate = strings.TrimSpace(d.DueDate)
	d.DueTime = strings.TrimSpace(d.DueTime)

	if d.Type == "" {
		return invalid("type", "required")
	}
	if d.DueDate != "" {
		if _, ok := ParseDate(d.DueDate); !ok {
			return invalid("dueDate", "%q is not a YYYY-MM-DD date", d.DueDate)
		}
	}
	if d.DueTime != "" {
		if d.DueDate == "" {
			return invalid("dueTime", "requires dueDate")
		}
		if _, _, ok := ParseClock(d.DueTime); !ok {
			return invalid("dueTime", "%q is not an HH:MM time", d.DueTime)
		}
	}

	role := d.Role()
	if d.Recurring {
		if role != RoleEvent {
			return invalid("recurring", "only events can recur")
		}
		if d.DueDate == "" {
			return invalid("recurring", "requires dueDate")
		}
	}
	if d.CatchUpFreq != nil {
		if role != RoleContact {
			return invalid("catchUpFreq", "only contacts have a catch-up frequency")
		}
		if *d.CatchUpFreq <= 0 {
			return invalid("catchUpFreq", "must be a positive number of days")
		}
	}
	if d.InteractionType != "" {
		if role != RoleHistory {
			return invalid("interactionType", "only history entries have an interaction type")
		}
		if !d.InteractionType.Valid() {
			return invalid("interactionType", "unknown interaction %q", d.InteractionType)
		}
	}
	switch {
	case role == RoleConnection && d.TargetID == nil:
		return invalid("targetId", "connections need a target contact")
	case role != RoleConnection && d.TargetID != nil:
		return invalid("targetId", "only connections have a target")
	case role == RoleConnection && *d.TargetID == *d.ParentID:
		return invalid("targetId", "a contact cannot connect to itself")
	case role == RoleConnection && d.ID != nil && *d.TargetID == *d.ID:
		return invalid("targetId", "a connection cannot target itself")
	}

	if d.Title == "" && role == RoleHistory {
		d.Title = d.InteractionType.Label()
	}
	if d.Title == "" && role != RoleConnection {
		return invalid("title", "required")
	}
	return nil
}

// Build creates the item for a checked draft. Connection titles are filled in
// by the caller, which can see the target.
func (d *Draft) Build(id ID, createdAt int64) *Item {
	it := &Item{
		ID:          id,
		Type:        d.Type,
		Title:       d.Title,
		Description: d.Description,
		DueDate:     d.DueDate,
		DueTime:     d.DueTime,
		CreatedAt:   createdAt,
	}
	if d.ParentID != nil {
		p := *d.ParentID
		it.ParentID = &p
	}
	switch it.Role() {
	case RoleContact:
		it.Contact = &ContactPayload{}
		if d.CatchUpFreq != nil {
			f := *d.CatchUpFreq
			it.Contact.CatchUpFreq = &f
		}
	case RoleEvent:
		it.Event = &EventPayload{Recurring: d.Recurring}
	case RoleHistory:
		it.History = &HistoryPayload{Interaction: d.InteractionType}
	case RoleConnection:
		it.Connection = &ConnectionPayload{TargetID: *d.TargetID}
	}
	it.Normalize()
	return it
}

// Draft returns the editable fields of an existing item, ready to be changed
// and resubmitted.
func (it *Item) Draft() Draft {
	id := it.ID
	d := Draft{
		ID:              &id,
		Type:            it.Type,
		Title:           it.Title,
		Description:     it.Description,
		DueDate:         it.DueDate,
		DueTime:         it.DueTime,
		Recurring:       it.Recurring(),
		InteractionType: it.Interaction(),
	}
	if it.ParentID != nil {
		p := *it.ParentID
		d.ParentID = &p
	}
	if f, ok := it.CatchUpFreq(); ok {
		d.CatchUpFreq = &f
	}
	if t, ok := it.TargetID(); ok {
		d.TargetID = &t
	}
	return d
}
