package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func self(s string) string { return s }

func TestReconcile(t *testing.T) {
	tests := []struct {
		name    string
		full    []string
		visible []string
		want    []string
	}{
		{
			name:    "swap within subset",
			full:    []string{"A", "B", "C", "D", "E"},
			visible: []string{"D", "B"},
			want:    []string{"A", "D", "C", "B", "E"},
		},
		{
			name:    "whole list",
			full:    []string{"A", "B", "C"},
			visible: []string{"C", "A", "B"},
			want:    []string{"C", "A", "B"},
		},
		{
			name:    "unchanged subset",
			full:    []string{"A", "B", "C", "D"},
			visible: []string{"A", "C"},
			want:    []string{"A", "B", "C", "D"},
		},
		{
			name:    "unknown keys ignored",
			full:    []string{"A", "B", "C"},
			visible: []string{"C", "Z", "A"},
			want:    []string{"C", "B", "A"},
		},
		{
			name:    "duplicates keep first",
			full:    []string{"A", "B", "C"},
			visible: []string{"C", "A", "C"},
			want:    []string{"C", "B", "A"},
		},
		{
			name:    "empty subset",
			full:    []string{"A", "B"},
			visible: nil,
			want:    []string{"A", "B"},
		},
		{
			name:    "empty full",
			full:    []string{},
			visible: []string{"A"},
			want:    []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reconcile(tt.full, self, tt.visible))
		})
	}
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	full := []string{"A", "B", "C"}
	Reconcile(full, self, []string{"C", "B", "A"})
	assert.Equal(t, []string{"A", "B", "C"}, full)
}

func TestReconcileLocality(t *testing.T) {
	full := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	visible := []string{"g", "b", "e", "d"}
	hidden := map[string]bool{"a": true, "c": true, "f": true, "h": true}

	got := Reconcile(full, self, visible)
	for i, el := range full {
		if hidden[el] {
			assert.Equal(t, el, got[i], "hidden element moved from index %d", i)
		}
	}
	assert.Equal(t, []string{"a", "g", "c", "b", "e", "f", "d", "h"}, got)
}

func TestReconcileIdempotent(t *testing.T) {
	full := []string{"A", "B", "C", "D", "E"}
	visible := []string{"E", "C", "A"}

	once := Reconcile(full, self, visible)
	twice := Reconcile(once, self, visible)
	assert.Equal(t, once, twice)
}

type row struct {
	id   int
	name string
}

func TestReconcileByKey(t *testing.T) {
	full := []row{{1, "one"}, {2, "two"}, {3, "three"}}
	got := Reconcile(full, func(r row) int { return r.id }, []int{3, 1})
	assert.Equal(t, []row{{3, "three"}, {2, "two"}, {1, "one"}}, got)
}
