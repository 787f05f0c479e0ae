package pkg

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
)

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	if len(m) == 0 {
		return nil
	}

	return slices.Sorted(maps.Keys(m))
}

// CompareAny orders two arbitrary values for deterministic iteration over
// maps with interface keys. Values of the same ordered kind compare
// naturally; otherwise they compare by type name and then by their
// formatted representation.
func CompareAny(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return cmp.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	}

	ta, tb := fmt.Sprintf("%T", a), fmt.Sprintf("%T", b)
	if c := cmp.Compare(ta, tb); c != 0 {
		return c
	}

	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
