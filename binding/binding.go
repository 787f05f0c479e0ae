package binding

import (
	"log/slog"
	"maps"

	"github.com/ardnew/reshape/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrUnboundName     = pkg.NewError("name is not bound")
	ErrCoordinateRange = pkg.NewError("coordinate out of range")
	ErrEllipsisNotLast = pkg.NewError("ellipsis must be at the end of a list")
)

// Repeating holds one value per iteration of an enclosing repetition.
// Elements are themselves Repeating when the name is bound under more than
// one level of repetition.
type Repeating []any

// Bindings maps capture names to their bound values.
type Bindings map[string]any

// Clone returns a shallow copy of b.
func (b Bindings) Clone() Bindings {
	if b == nil {
		return Bindings{}
	}

	return maps.Clone(b)
}

// Names returns the bound names in ascending order.
func (b Bindings) Names() []string {
	return pkg.SortedKeys(b)
}

// Merge copies every binding of other into b.
func (b Bindings) Merge(other Bindings) {
	maps.Copy(b, other)
}

// Lookup resolves name and descends into its value along coord.
//
// The returned value may still be Repeating if coord is shorter than the
// name's depth; callers that need a scalar must check for that.
func (b Bindings) Lookup(name string, coord []int) (any, error) {
	v, ok := b[name]
	if !ok {
		return nil, ErrUnboundName.With(slog.String("name", name))
	}

	v, err := Descend(v, coord)
	if err != nil {
		return nil, pkg.AsError(err).With(slog.String("name", name))
	}

	return v, nil
}

// Descend consumes one index of coord for each Repeating layer of v.
//
// Descent stops early when v is no longer Repeating: a value bound outside a
// repetition is the same at every coordinate. An index beyond the length of
// the current layer returns [ErrCoordinateRange].
func Descend(v any, coord []int) (any, error) {
	for level, i := range coord {
		r, ok := v.(Repeating)
		if !ok {
			break
		}

		if i < 0 || i >= len(r) {
			return nil, ErrCoordinateRange.With(
				slog.Int("level", level),
				slog.Int("index", i),
				slog.Int("length", len(r)),
			)
		}

		v = r[i]
	}

	return v, nil
}

// Depth returns the number of Repeating layers wrapping v, following the
// first element of each layer. An empty Repeating has depth 1.
func Depth(v any) int {
	depth := 0

	for {
		r, ok := v.(Repeating)
		if !ok {
			return depth
		}

		depth++

		if len(r) == 0 {
			return depth
		}

		v = r[0]
	}
}
