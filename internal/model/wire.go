package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// wireItem is the flat persisted form. Older exports stored fields as form
// strings, empty strings or the wrong JSON type, so every field decodes
// through a tolerant type that falls back to absent.
type wireItem struct {
	ID               optInt        `json:"id"`
	ParentID         optInt        `json:"parentId"`
	Type             optString     `json:"type"`
	Title            optString     `json:"title"`
	Description      optString     `json:"description"`
	DueDate          optString     `json:"dueDate"`
	DueTime          optString     `json:"dueTime"`
	Recurring        optBool       `json:"recurring"`
	CatchUpFreq      optInt        `json:"catchUpFreq"`
	InteractionType  optString     `json:"interactionType,omitempty"`
	TargetID         optInt        `json:"targetId"`
	Completed        optBool       `json:"completed"`
	CreatedAt        optInt        `json:"createdAt"`
	CustomCategories optCategories `json:"customCategories,omitempty"`
}

// MarshalJSON writes the flat wire form.
func (it Item) MarshalJSON() ([]byte, error) {
	w := wireItem{
		ID:          someInt(int64(it.ID)),
		Type:        optString(it.Type),
		Title:       optString(it.Title),
		Description: optString(it.Description),
		DueDate:     optString(it.DueDate),
		DueTime:     optString(it.DueTime),
		Recurring:   optBool(it.Recurring()),
		Completed:   optBool(it.Completed),
	}
	if it.ParentID != nil {
		w.ParentID = someInt(int64(*it.ParentID))
	}
	if f, ok := it.CatchUpFreq(); ok {
		w.CatchUpFreq = someInt(int64(f))
	}
	if it.History != nil {
		w.InteractionType = optString(it.History.Interaction)
	}
	if id, ok := it.TargetID(); ok {
		w.TargetID = someInt(int64(id))
	}
	if it.CreatedAt != 0 {
		w.CreatedAt = someInt(it.CreatedAt)
	}
	w.CustomCategories = optCategories(it.CustomCategories())
	return json.Marshal(w)
}

// UnmarshalJSON reads the flat wire form and rebuilds the payload variant.
// Fields that don't belong to the item's role are dropped.
func (it *Item) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*it = Item{
		ID:          ID(w.ID.v),
		Type:        string(w.Type),
		Title:       string(w.Title),
		Description: string(w.Description),
		DueDate:     strings.TrimSpace(string(w.DueDate)),
		DueTime:     strings.TrimSpace(string(w.DueTime)),
		Completed:   bool(w.Completed),
		CreatedAt:   w.CreatedAt.v,
	}
	if w.ParentID.ok {
		p := ID(w.ParentID.v)
		it.ParentID = &p
	}
	switch it.Role() {
	case RoleContact:
		it.Contact = &ContactPayload{CustomCategories: []Category(w.CustomCategories)}
		if w.CatchUpFreq.ok {
			f := int(w.CatchUpFreq.v)
			it.Contact.CatchUpFreq = &f
		}
	case RoleEvent:
		it.Event = &EventPayload{Recurring: bool(w.Recurring)}
	case RoleHistory:
		it.History = &HistoryPayload{Interaction: InteractionType(string(w.InteractionType))}
	case RoleConnection:
		if w.TargetID.ok {
			it.Connection = &ConnectionPayload{TargetID: ID(w.TargetID.v)}
		}
	}
	it.Normalize()
	return nil
}

// optInt is an optional integer that also accepts numeric strings. null, "",
// non-numeric strings and any other JSON type decode as absent.
type optInt struct {
	v  int64
	ok bool
}

func someInt(v int64) optInt { return optInt{v: v, ok: true} }

func (o optInt) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(o.v, 10)), nil
}

func (o *optInt) UnmarshalJSON(data []byte) error {
	*o = optInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			*o = someInt(n)
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			*o = someInt(int64(f))
		}
		return nil
	}
	var f float64
	if json.Unmarshal(data, &f) != nil {
		return nil
	}
	*o = someInt(int64(f))
	return nil
}

// optBool accepts booleans, "true"/"false" style strings and numbers (non-zero
// is true). Anything else decodes as false.
type optBool bool

func (b *optBool) UnmarshalJSON(data []byte) error {
	*b = false
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0:
	case data[0] == '"':
		var s string
		if json.Unmarshal(data, &s) != nil {
			return nil
		}
		if v, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			*b = optBool(v)
		}
	case bytes.Equal(data, []byte("true")):
		*b = true
	default:
		var f float64
		if json.Unmarshal(data, &f) == nil && f != 0 {
			*b = true
		}
	}
	return nil
}

// optString accepts strings and keeps the literal text of numbers. Other JSON
// types decode as empty.
type optString string

func (o *optString) UnmarshalJSON(data []byte) error {
	*o = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch c := data[0]; {
	case c == '"':
		var s string
		if json.Unmarshal(data, &s) == nil {
			*o = optString(s)
		}
	case c == '-' || (c >= '0' && c <= '9'):
		*o = optString(data)
	}
	return nil
}

// optCategories is a category list that decodes as absent when it isn't a
// list of categories.
type optCategories []Category

func (o *optCategories) UnmarshalJSON(data []byte) error {
	var cats []Category
	if json.Unmarshal(data, &cats) != nil {
		*o = nil
		return nil
	}
	*o = cats
	return nil
}
