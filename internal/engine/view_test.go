package engine

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazypower/orbit/internal/model"
	"github.com/lazypower/orbit/internal/records"
)

func TestViewContactRows(t *testing.T) {
	ana := withFreq(contact(1, "Ana"), 30)
	bo := contact(2, "Bo")
	snap := snapshot(ana, bo,
		history(10, 1, now.AddDate(0, 0, -45).Format(model.DateLayout)),
		event(11, 1, "birthday", "1990-03-28", true),
		event(12, 1, "dinner", "2025-03-02", false),
		event(13, 1, "concert", "2025-03-30", false),
		event(14, 1, "trip", "2025-03-31", false),
		event(15, 1, "April", "2025-04-02", false),
	)

	v := testEngine().View(snap, Query{})
	require.Len(t, v.Rows, 2)
	assert.True(t, v.Draggable)
	assert.Empty(t, v.Empty)
	assert.Equal(t, model.DefaultGlobalCategories, v.Categories)
	assert.Equal(t, map[string]int{"goal": 2}, v.Counts)

	row := v.Rows[0]
	assert.Equal(t, "Ana", row.Title)
	assert.Equal(t, "Goals", row.Category)
	require.NotNil(t, row.Drift)
	assert.Equal(t, 15, row.Drift.Days)
	assert.Equal(t, "Drifting (15d)", row.Status)
	require.NotNil(t, row.Preview)
	assert.Equal(t, "This Month", row.Preview.Label)
	var previewed []string
	for _, ev := range row.Preview.Events {
		previewed = append(previewed, ev.Title)
	}
	assert.Equal(t, []string{"dinner", "birthday", "concert"}, previewed, "current month, earliest three")

	assert.Nil(t, v.Rows[1].Drift)
	assert.Empty(t, v.Rows[1].Status)
	assert.Nil(t, v.Rows[1].Preview)
}

func TestViewUpcomingPreview(t *testing.T) {
	snap := snapshot(contact(1, "Ana"),
		event(11, 1, "past", "2025-03-02", false),
		event(12, 1, "soon", "2025-03-20", false),
		event(13, 1, "next month", "2025-04-02", false),
	)
	v := testEngine().View(snap, Query{Sort: SortUpcoming})
	require.Len(t, v.Rows, 1)
	assert.False(t, v.Draggable)
	require.NotNil(t, v.Rows[0].Preview)
	assert.Equal(t, "Upcoming", v.Rows[0].Preview.Label)
	require.Len(t, v.Rows[0].Preview.Events, 2)
	assert.Equal(t, "soon", v.Rows[0].Preview.Events[0].Title)
	assert.True(t, day("2025-03-20").Equal(v.Rows[0].Preview.Events[0].Date))
}

func TestViewDetailRows(t *testing.T) {
	ana := contact(1, "Ana")
	ana.Contact.CustomCategories = []model.Category{
		{ID: model.TypeEvents, Name: "Dates"},
		{ID: model.TypeConnections, Name: "People"},
		{ID: model.TypeHistory, Name: "Log"},
	}
	party := event(12, 1, "party", "2025-03-20", false)
	snap := snapshot(ana, contact(2, "Bo"),
		connection(10, 1, 2, "roommate"),
		connection(11, 1, 99, ""),
		party,
		detail(13, 1, "gone", "orphaned type"),
	)

	v := testEngine().View(snap, Query{Contact: idp(1)})
	require.NotNil(t, v.Contact)
	assert.Equal(t, "Ana", v.Contact.Title)
	assert.Equal(t, ana.Contact.CustomCategories, v.Categories)
	require.Len(t, v.Rows, 4)

	link := v.Rows[0]
	assert.Equal(t, "Bo", link.Title)
	assert.Equal(t, "People", link.Category)
	require.NotNil(t, link.Link)
	assert.Equal(t, model.ID(2), *link.Link)
	assert.False(t, link.Dangling)

	dangling := v.Rows[1]
	assert.Equal(t, "Unknown Contact", dangling.Title)
	assert.True(t, dangling.Dangling)
	assert.Nil(t, dangling.Link)

	assert.Equal(t, "Dates", v.Rows[2].Category)
	require.NotNil(t, v.Rows[2].Effective)
	assert.True(t, day("2025-03-20").Equal(*v.Rows[2].Effective))
	assert.Nil(t, v.Rows[2].Preview, "only contacts preview events")

	assert.Equal(t, model.UnknownCategory, v.Rows[3].Category)
}

func TestViewEmptyMessages(t *testing.T) {
	e := testEngine()
	snap := snapshot(contact(1, "Ana"))

	tests := []struct {
		name string
		q    Query
		want string
	}{
		{"search", Query{Search: "zzz", Sort: SortUpcoming}, "No matches found."},
		{"inside a contact", Query{Contact: idp(1)}, "No details recorded yet."},
		{"upcoming", Query{Sort: SortUpcoming}, "No upcoming events in the next 30 days."},
		{"archive", Query{Completed: true}, "Orbit empty."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := e.View(snap, tt.q)
			assert.Empty(t, v.Rows)
			assert.Equal(t, tt.want, v.Empty)
		})
	}
}

func TestViewJSON(t *testing.T) {
	snap := snapshot(withFreq(contact(1, "Ana"), 1))
	data, err := json.Marshal(testEngine().View(snap, Query{}))
	require.NoError(t, err)

	var decoded struct {
		Rows []struct {
			Item   map[string]any `json:"item"`
			Status string         `json:"status"`
		} `json:"rows"`
		Draggable bool `json:"draggable"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Rows, 1)
	assert.EqualValues(t, 1, decoded.Rows[0].Item["catchUpFreq"])
	assert.Empty(t, decoded.Rows[0].Status)
	assert.True(t, decoded.Draggable)
}

func TestDraggable(t *testing.T) {
	assert.True(t, Query{}.Draggable())
	assert.True(t, Query{Sort: SortManual, Completed: true, Tags: []string{"goal"}}.Draggable())
	assert.True(t, Query{Search: "   "}.Draggable())
	assert.False(t, Query{Search: "ana"}.Draggable())
	assert.False(t, Query{Sort: SortDrift}.Draggable())
}

type fakeStore struct {
	snap *records.Snapshot
	got  []model.ID
	err  error
}

func (f *fakeStore) Snapshot() *records.Snapshot { return f.snap }

func (f *fakeStore) ReorderItems(ids []model.ID) error {
	f.got = ids
	return f.err
}

func TestReorderKeepsOnlyVisible(t *testing.T) {
	archived := contact(3, "C")
	archived.Completed = true
	fs := &fakeStore{snap: snapshot(contact(1, "A"), contact(2, "B"), archived, detail(4, 1, "notes", "n"))}

	err := testEngine().Reorder(fs, Query{}, []model.ID{2, 3, 4, 404, 1})
	require.NoError(t, err)
	assert.Equal(t, []model.ID{2, 1}, fs.got)
}

func TestReorderRejected(t *testing.T) {
	fs := &fakeStore{snap: snapshot(contact(1, "A"))}
	for _, q := range []Query{{Sort: SortUpcoming}, {Sort: SortDrift}, {Search: "a"}} {
		assert.ErrorIs(t, testEngine().Reorder(fs, q, []model.ID{1}), ErrReorderRejected)
	}
	assert.Nil(t, fs.got)
}

func TestReorderAgainstStore(t *testing.T) {
	s, err := records.Open(newMemoryBackend(), records.Options{})
	require.NoError(t, err)
	var ids []model.ID
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		it, err := s.Upsert(model.Draft{Type: "goal", Title: name})
		require.NoError(t, err)
		ids = append(ids, it.ID)
	}
	// B and D are the only project rows: a tag-filtered drag only swaps their slots.
	for _, i := range []int{1, 3} {
		_, err := s.Upsert(model.Draft{ID: &ids[i], Type: "project", Title: []string{"A", "B", "C", "D", "E"}[i]})
		require.NoError(t, err)
	}

	e := testEngine()
	q := Query{Tags: []string{"project"}}
	require.NoError(t, e.Reorder(s, q, []model.ID{ids[3], ids[1]}))
	assert.Equal(t, []string{"A", "D", "C", "B", "E"}, titles(s.Snapshot().Items()))

	require.NoError(t, e.Reorder(s, q, []model.ID{ids[3], ids[1]}))
	assert.Equal(t, []string{"A", "D", "C", "B", "E"}, titles(s.Snapshot().Items()))
}

func TestDriftWatchLogs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	e := New(Options{Now: func() time.Time { return now }, Location: time.UTC, Logger: log})
	t.Cleanup(e.Stop)

	fs := &fakeStore{snap: snapshot(
		withFreq(contact(1, "Ana"), 30),
		withFreq(contact(2, "Bo"), 30),
		history(10, 1, "2025-01-01"),
	)}
	reports := e.Drifting(fs.snap)
	require.Len(t, reports, 1)
	assert.Equal(t, "Ana", reports[0].Contact.Title)
	assert.Equal(t, 43, reports[0].Drift.Days)

	e.StartDriftWatch(fs, time.Hour)
	assert.True(t, strings.Contains(buf.String(), "contact drifting"))
	assert.True(t, strings.Contains(buf.String(), "title=Ana"))
	e.Stop()
	e.Stop()
}

func TestDescribe(t *testing.T) {
	snap := snapshot(contact(1, "Ana"), contact(2, "Bo"), connection(10, 1, 2, ""))
	row, ok := testEngine().Describe(snap, 10)
	require.True(t, ok)
	assert.Equal(t, "Bo", row.Title)
	assert.Equal(t, "Connections", row.Category)

	_, ok = testEngine().Describe(snap, 404)
	assert.False(t, ok)
}
