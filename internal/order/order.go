// Package order reconciles a reordered visible subset back into a persisted
// total order.
package order

// Reconcile returns a copy of full in which the elements named by visible
// occupy the absolute positions the subset held before, in the order visible
// lists them. Every other element keeps its index.
//
// Keys in visible that don't appear in full are ignored, as are repeats after
// the first occurrence, so the number of reassigned slots always matches the
// number of elements moved.
func Reconcile[T any, K comparable](full []T, key func(T) K, visible []K) []T {
	out := make([]T, len(full))
	copy(out, full)

	index := make(map[K]int, len(full))
	for i, el := range full {
		index[key(el)] = i
	}

	seen := make(map[K]bool, len(visible))
	moved := make([]int, 0, len(visible)) // source indices, in new relative order
	for _, k := range visible {
		i, ok := index[k]
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		moved = append(moved, i)
	}

	slots := make([]int, 0, len(moved)) // occupied positions, ascending
	for i, el := range full {
		if seen[key(el)] {
			slots = append(slots, i)
		}
	}

	for n, slot := range slots {
		out[slot] = full[moved[n]]
	}
	return out
}
