package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftCheck(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		field string // empty when valid
	}{
		{"contact", Draft{Type: "goal", Title: "Ana", CatchUpFreq: intp(14)}, ""},
		{"missing type", Draft{Title: "Ana"}, "type"},
		{"missing title", Draft{Type: "goal", Title: "  "}, "title"},
		{"bad date", Draft{Type: "goal", Title: "Ana", DueDate: "2025-02-30"}, "dueDate"},
		{"time without date", Draft{Type: "goal", Title: "Ana", DueTime: "10:00"}, "dueTime"},
		{"bad time", Draft{Type: "goal", Title: "Ana", DueDate: "2025-02-01", DueTime: "25:00"}, "dueTime"},
		{"zero frequency", Draft{Type: "goal", Title: "Ana", CatchUpFreq: intp(0)}, "catchUpFreq"},
		{"frequency on detail", Draft{ParentID: idp(1), Type: "notes", Title: "x", CatchUpFreq: intp(3)}, "catchUpFreq"},
		{"recurring event", Draft{ParentID: idp(1), Type: TypeEvents, Title: "Bday", DueDate: "1990-04-02", Recurring: true}, ""},
		{"recurring without date", Draft{ParentID: idp(1), Type: TypeEvents, Title: "Bday", Recurring: true}, "recurring"},
		{"recurring note", Draft{ParentID: idp(1), Type: "notes", Title: "x", DueDate: "2025-01-01", Recurring: true}, "recurring"},
		{"history default title", Draft{ParentID: idp(1), Type: TypeHistory, InteractionType: InteractionText}, ""},
		{"unknown interaction", Draft{ParentID: idp(1), Type: TypeHistory, InteractionType: "fax"}, "interactionType"},
		{"interaction on note", Draft{ParentID: idp(1), Type: "notes", Title: "x", InteractionType: InteractionText}, "interactionType"},
		{"connection", Draft{ParentID: idp(1), Type: TypeConnections, TargetID: idp(2)}, ""},
		{"connection without target", Draft{ParentID: idp(1), Type: TypeConnections}, "targetId"},
		{"connection to parent", Draft{ParentID: idp(1), Type: TypeConnections, TargetID: idp(1)}, "targetId"},
		{"target on note", Draft{ParentID: idp(1), Type: "notes", Title: "x", TargetID: idp(2)}, "targetId"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.draft
			err := d.Check()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalid))
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestDraftCheckFillsHistoryTitle(t *testing.T) {
	d := Draft{ParentID: idp(1), Type: TypeHistory, InteractionType: InteractionInPerson}
	require.NoError(t, d.Check())
	assert.Equal(t, "In Person", d.Title)

	d = Draft{ParentID: idp(1), Type: TypeHistory}
	require.NoError(t, d.Check())
	assert.Equal(t, "Interaction", d.Title)
}

func TestBuildAndDraftRoundTrip(t *testing.T) {
	d := Draft{
		ParentID:  idp(1),
		Type:      TypeEvents,
		Title:     "Birthday",
		DueDate:   "1990-04-02",
		DueTime:   "09:00",
		Recurring: true,
	}
	require.NoError(t, d.Check())
	it := d.Build(5, 1700000000000)
	assert.Equal(t, RoleEvent, it.Role())
	assert.True(t, it.Recurring())
	assert.Equal(t, int64(1700000000000), it.CreatedAt)

	back := it.Draft()
	require.NotNil(t, back.ID)
	assert.Equal(t, ID(5), *back.ID)
	back.ID = nil
	assert.Equal(t, d, back)

	// the draft doesn't alias the item
	*back.ParentID = 9
	assert.True(t, it.HasParent(1))
}

func TestBuildConnectionAndContact(t *testing.T) {
	c := Draft{Type: "goal", Title: "Ana", CatchUpFreq: intp(7)}
	it := c.Build(1, 0)
	f, ok := it.CatchUpFreq()
	require.True(t, ok)
	assert.Equal(t, 7, f)
	*c.CatchUpFreq = 1
	f, _ = it.CatchUpFreq()
	assert.Equal(t, 7, f)

	conn := Draft{ParentID: idp(1), Type: TypeConnections, TargetID: idp(2)}
	it = conn.Build(3, 0)
	target, ok := it.TargetID()
	require.True(t, ok)
	assert.Equal(t, ID(2), target)
}
