package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazypower/orbit/internal/model"
)

func TestParseSortMode(t *testing.T) {
	for in, want := range map[string]SortMode{"": SortManual, "manual": SortManual, "upcoming": SortUpcoming, "drift": SortDrift} {
		got, err := ParseSortMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSortMode("alphabetical")
	assert.Error(t, err)
}

func upcomingFixture() []*model.Item {
	doneTomorrow := event(21, 2, "done", "2025-03-16", false)
	doneTomorrow.Completed = true
	edToday := event(51, 5, "brunch", "2025-03-15", false)
	edToday.DueTime = "09:00"
	fayLast := event(61, 6, "edge", "2025-04-14", false)
	fayLast.DueTime = "23:00"
	return []*model.Item{
		contact(1, "Ana"), contact(2, "Bo"), contact(3, "Cy"), contact(4, "Di"),
		contact(5, "Ed"), contact(6, "Fay"), contact(7, "Gus"),
		event(11, 1, "dinner", "2025-03-25", false),
		event(22, 2, "birthday", "1990-03-20", true),
		doneTomorrow,
		event(31, 3, "trip", "2025-05-01", false),
		detail(41, 4, "notes", "no events"),
		edToday,
		fayLast,
		event(71, 7, "just outside", "2025-04-15", false),
	}
}

func TestSortUpcomingContacts(t *testing.T) {
	snap := snapshot(upcomingFixture()...)
	items := Filter{}.Apply(snap)

	got := Sort(snap, items, SortUpcoming, nil, now, DefaultUpcomingDays)
	assert.Equal(t, []string{"Ed", "Bo", "Ana", "Fay"}, titles(got))
	assert.Len(t, items, 7, "input is not modified")
}

func TestSortUpcomingDetails(t *testing.T) {
	datedNote := detail(13, 1, "notes", "dated note")
	datedNote.DueDate = "2025-03-20"
	snap := snapshot(
		contact(1, "Ana"),
		detail(10, 1, "notes", "n1"),
		event(11, 1, "late", "2025-04-01", false),
		event(12, 1, "past", "2024-01-01", false),
		datedNote,
		detail(14, 1, "likes", "n2"),
		event(15, 1, "anniversary", "2001-01-10", true),
	)
	items := Filter{Contact: idp(1)}.Apply(snap)

	got := Sort(snap, items, SortUpcoming, idp(1), now, DefaultUpcomingDays)
	assert.Equal(t, []string{"past", "dated note", "late", "anniversary", "n1", "n2"}, titles(got),
		"undated details sort last and are kept")
}

func TestSortDrift(t *testing.T) {
	a := withFreq(contact(1, "A"), 30)
	b := contact(2, "B")
	c := withFreq(contact(3, "C"), 10)
	d := withFreq(contact(4, "D"), 100)
	e := contact(5, "E")
	snap := snapshot(b, e, d, c, a,
		history(11, 1, now.AddDate(0, 0, -45).Format(model.DateLayout)),
		history(13, 3, "2025-03-01"),
	)
	items := Filter{}.Apply(snap)

	got := Sort(snap, items, SortDrift, nil, now, DefaultUpcomingDays)
	assert.Equal(t, []string{"A", "C", "D", "B", "E"}, titles(got))
	assert.Len(t, got, len(items), "drift never drops contacts")

	details := []*model.Item{detail(20, 1, "notes", "z"), detail(21, 1, "notes", "a")}
	assert.Equal(t, []string{"z", "a"}, titles(Sort(snap, details, SortDrift, idp(1), now, DefaultUpcomingDays)))
}

func TestSortManualIsIdentity(t *testing.T) {
	snap := snapshot(upcomingFixture()...)
	items := Filter{}.Apply(snap)
	assert.Equal(t, titles(items), titles(Sort(snap, items, SortManual, nil, now, DefaultUpcomingDays)))
}

func TestSortUpcomingWindowLength(t *testing.T) {
	snap := snapshot(upcomingFixture()...)
	items := Filter{}.Apply(snap)
	assert.Equal(t, []string{"Ed", "Bo"}, titles(Sort(snap, items, SortUpcoming, nil, now, 5)))
}
