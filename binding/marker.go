package binding

import "log/slog"

// Marker is the type of the repetition marker [Ellipsis].
type Marker struct{}

// String returns the textual form of the marker.
func (Marker) String() string { return "..." }

// Ellipsis marks the preceding list element as repeated.
//
// In a pattern, [p, Ellipsis] matches any number of elements that each match
// p. In a template, [t, Ellipsis] instantiates t once per iteration of the
// repetitions it inserts, and every further Ellipsis flattens one level of
// the result.
//
//nolint:gochecknoglobals
var Ellipsis = Marker{}

// IsEllipsis reports whether v is the repetition marker.
func IsEllipsis(v any) bool {
	_, ok := v.(Marker)

	return ok
}

// Split separates a list into its leading elements and the number of
// trailing [Ellipsis] markers.
//
// Markers may only appear as a contiguous run at the end of the list. Any
// element following a marker is rejected with [ErrEllipsisNotLast].
func Split(list []any) ([]any, int, error) {
	first := -1

	for i, v := range list {
		switch {
		case IsEllipsis(v):
			if first < 0 {
				first = i
			}
		case first >= 0:
			return nil, 0, ErrEllipsisNotLast.With(
				slog.Int("ellipsis", first),
				slog.Int("index", i),
			)
		}
	}

	if first < 0 {
		return list, 0, nil
	}

	return list[:first:first], len(list) - first, nil
}
