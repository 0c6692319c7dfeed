// Package model defines the records orbit stores: contacts, the details nested
// under them, and the categories both are tagged with.
package model

import "strconv"

// ID identifies an item. IDs increase with creation order.
type ID int64

func (id ID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseID parses a decimal item id.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(n), nil
}

// Reserved detail category ids. Every contact's category list carries them and
// they can never be deleted.
const (
	TypeEvents      = "events"
	TypeConnections = "connections"
	TypeHistory     = "history"
)

// Role is the resolved kind of an item, derived from its parent and type.
type Role int

const (
	RoleContact Role = iota
	RoleEvent
	RoleHistory
	RoleConnection
	RoleNote
)

func (r Role) String() string {
	switch r {
	case RoleContact:
		return "contact"
	case RoleEvent:
		return "event"
	case RoleHistory:
		return "history"
	case RoleConnection:
		return "connection"
	default:
		return "note"
	}
}

// RoleOf resolves the role an item with the given parent and type plays.
func RoleOf(parent *ID, typ string) Role {
	if parent == nil {
		return RoleContact
	}
	switch typ {
	case TypeEvents:
		return RoleEvent
	case TypeHistory:
		return RoleHistory
	case TypeConnections:
		return RoleConnection
	}
	return RoleNote
}

// Item is the common envelope shared by contacts and details. Exactly one of
// the payload pointers matching Role() is set; notes carry none.
type Item struct {
	ID          ID
	ParentID    *ID
	Type        string
	Title       string
	Description string
	DueDate     string // YYYY-MM-DD
	DueTime     string // HH:MM
	Completed   bool
	CreatedAt   int64 // unix millis, 0 when unknown

	Contact    *ContactPayload
	Event      *EventPayload
	History    *HistoryPayload
	Connection *ConnectionPayload
}

// ContactPayload holds fields only meaningful on root items.
type ContactPayload struct {
	// CatchUpFreq is the outreach interval in days; nil means no drift policy.
	CatchUpFreq *int
	// CustomCategories is nil until first read, then materialized from
	// DefaultDetailCategories.
	CustomCategories []Category
}

type EventPayload struct {
	Recurring bool
}

type HistoryPayload struct {
	Interaction InteractionType
}

type ConnectionPayload struct {
	TargetID ID
}

// Role reports which payload variant the item carries.
func (it *Item) Role() Role { return RoleOf(it.ParentID, it.Type) }

// IsRoot reports whether the item is a contact.
func (it *Item) IsRoot() bool { return it.ParentID == nil }

// HasParent reports whether the item is a detail of the given contact.
func (it *Item) HasParent(id ID) bool { return it.ParentID != nil && *it.ParentID == id }

// CatchUpFreq returns the contact's catch-up interval, if any.
func (it *Item) CatchUpFreq() (int, bool) {
	if it.Contact == nil || it.Contact.CatchUpFreq == nil {
		return 0, false
	}
	return *it.Contact.CatchUpFreq, true
}

// Recurring reports whether the item is a yearly recurring event.
func (it *Item) Recurring() bool {
	return it.Event != nil && it.Event.Recurring
}

// TargetID returns the contact a connection points at.
func (it *Item) TargetID() (ID, bool) {
	if it.Connection == nil {
		return 0, false
	}
	return it.Connection.TargetID, true
}

// Interaction returns the history entry's interaction channel, if any.
func (it *Item) Interaction() InteractionType {
	if it.History == nil {
		return ""
	}
	return it.History.Interaction
}

// CustomCategories returns the contact's own category list, nil when the item
// is not a contact or the list was never materialized.
func (it *Item) CustomCategories() []Category {
	if it.Contact == nil {
		return nil
	}
	return it.Contact.CustomCategories
}

// Normalize drops payloads that don't match the item's role and attaches an
// empty payload where one is required. Fields that are invalid for the role
// degrade to absent rather than failing.
func (it *Item) Normalize() {
	role := it.Role()
	if role != RoleContact {
		it.Contact = nil
	} else if it.Contact == nil {
		it.Contact = &ContactPayload{}
	}
	if role != RoleEvent {
		it.Event = nil
	} else if it.Event == nil {
		it.Event = &EventPayload{}
	}
	if it.Event != nil && it.DueDate == "" {
		it.Event.Recurring = false
	}
	if role != RoleHistory {
		it.History = nil
	} else if it.History == nil {
		it.History = &HistoryPayload{}
	}
	if role != RoleConnection {
		it.Connection = nil
	}
	if it.DueDate == "" {
		it.DueTime = ""
	}
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	c := *it
	if it.ParentID != nil {
		p := *it.ParentID
		c.ParentID = &p
	}
	if it.Contact != nil {
		cp := ContactPayload{CustomCategories: CloneCategories(it.Contact.CustomCategories)}
		if it.Contact.CatchUpFreq != nil {
			f := *it.Contact.CatchUpFreq
			cp.CatchUpFreq = &f
		}
		c.Contact = &cp
	}
	if it.Event != nil {
		e := *it.Event
		c.Event = &e
	}
	if it.History != nil {
		h := *it.History
		c.History = &h
	}
	if it.Connection != nil {
		cn := *it.Connection
		c.Connection = &cn
	}
	return &c
}
