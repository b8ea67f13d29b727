package publisher

import "reflect"

// DiffField selects what DiffByID computes.
type DiffField string

const (
	DiffAdded   DiffField = "added"
	DiffRemoved DiffField = "removed"
	DiffChanged DiffField = "changed"
)

// Diff is the result of comparing two lists by ID.
type Diff[T any] struct {
	// Added holds items only in the current list.
	Added []T
	// Removed holds items only in the previous list.
	Removed []T
	// Changed holds the current version of items that differ.
	Changed []T
}

// DiffByID compares previous and current by the key id returns. With no
// fields, all three are computed. Items are compared with reflect.DeepEqual.
func DiffByID[T any, K comparable](previous, current []T, id func(T) K, fields ...DiffField) Diff[T] {
	if len(fields) == 0 {
		fields = []DiffField{DiffAdded, DiffRemoved, DiffChanged}
	}
	var calcAdded, calcRemoved, calcChanged bool
	for _, f := range fields {
		switch f {
		case DiffAdded:
			calcAdded = true
		case DiffRemoved:
			calcRemoved = true
		case DiffChanged:
			calcChanged = true
		}
	}

	prev := make(map[K]T, len(previous))
	for _, item := range previous {
		prev[id(item)] = item
	}

	var d Diff[T]
	seen := make(map[K]struct{}, len(current))
	for _, item := range current {
		key := id(item)
		seen[key] = struct{}{}
		old, ok := prev[key]
		switch {
		case !ok:
			if calcAdded {
				d.Added = append(d.Added, item)
			}
		case calcChanged && !reflect.DeepEqual(old, item):
			d.Changed = append(d.Changed, item)
		}
	}

	if calcRemoved {
		for _, item := range previous {
			if _, ok := seen[id(item)]; !ok {
				d.Removed = append(d.Removed, item)
			}
		}
	}
	return d
}
