package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lazypower/orbit/internal/model"
)

func filterFixture() []*model.Item {
	ana := contact(1, "Ana")
	bo := contact(2, "Bo")
	bo.Description = "met at the climbing gym"
	cy := contact(3, "Cy")
	cy.Completed = true
	proj := contact(4, "Side project")
	proj.Type = "project"

	tea := detail(10, 1, "likes", "Green tea")
	coffee := detail(11, 1, "dislikes", "Coffee")
	oldNote := detail(12, 1, "notes", "old address")
	oldNote.Completed = true
	link := connection(13, 1, 2, "college roommate")
	other := detail(14, 2, "likes", "Tea ceremonies")
	return []*model.Item{ana, bo, cy, proj, tea, coffee, oldNote, link, other}
}

func TestFilterScope(t *testing.T) {
	snap := snapshot(filterFixture()...)

	assert.Equal(t, []string{"Ana", "Bo", "Side project"}, titles(Filter{}.Apply(snap)))
	assert.Equal(t, []string{"Cy"}, titles(Filter{Completed: true}.Apply(snap)))
	assert.Equal(t, []string{"Green tea", "Coffee", "stale title"}, titles(Filter{Contact: idp(1)}.Apply(snap)))
	assert.Equal(t, []string{"old address"}, titles(Filter{Contact: idp(1), Completed: true}.Apply(snap)))
	assert.Empty(t, Filter{Contact: idp(404)}.Apply(snap))
}

func TestFilterTags(t *testing.T) {
	snap := snapshot(filterFixture()...)

	assert.Equal(t, []string{"Side project"}, titles(Filter{Tags: []string{"project"}}.Apply(snap)))
	assert.Equal(t, []string{"Green tea", "Coffee"}, titles(Filter{Contact: idp(1), Tags: []string{"dislikes", "likes"}}.Apply(snap)))
	assert.Empty(t, Filter{Tags: []string{"task"}}.Apply(snap))
}

func TestFilterSearch(t *testing.T) {
	snap := snapshot(filterFixture()...)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"title, any case", Filter{Search: "ANA"}, []string{"Ana"}},
		{"description", Filter{Search: "climbing"}, []string{"Bo"}},
		{"surrounding space", Filter{Search: "  project "}, []string{"Side project"}},
		{"details", Filter{Contact: idp(1), Search: "tea"}, []string{"Green tea"}},
		{"connection by target title", Filter{Contact: idp(1), Search: "bo"}, []string{"stale title"}},
		{"connection by own description", Filter{Contact: idp(1), Search: "roommate"}, []string{"stale title"}},
		{"connection not by own title", Filter{Contact: idp(1), Search: "stale"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(snap)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, titles(got))
		})
	}
}

func TestConnectionTitle(t *testing.T) {
	link := connection(13, 1, 2, "")
	dangling := connection(14, 1, 99, "")
	toDetail := connection(15, 1, 20, "")
	snap := snapshot(contact(1, "Ana"), contact(2, "Bo"), detail(20, 2, "notes", "n"), link, dangling, toDetail)

	title, ok := ConnectionTitle(snap, link)
	assert.True(t, ok)
	assert.Equal(t, "Bo", title)

	for _, it := range []*model.Item{dangling, toDetail} {
		title, ok = ConnectionTitle(snap, it)
		assert.False(t, ok)
		assert.Equal(t, "Unknown Contact", title)
	}
}
