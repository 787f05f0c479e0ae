package template

import (
	"log/slog"

	"github.com/ardnew/reshape/binding"
	"github.com/ardnew/reshape/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrEllipsisWithoutItem = pkg.NewError("ellipsis has no element to repeat")
	ErrInvalidTemplate     = pkg.NewError("invalid template")
	ErrStillRepeating      = pkg.NewError("name is still repeating at this level")
	ErrRepeatLength        = pkg.NewError("repetitions have different lengths")
	ErrNoRepetition        = pkg.NewError("no repeated bindings")
	ErrUnhashableKey       = pkg.NewError("mapping key is not hashable")
)

// Insertion is replaced by the value bound to Name.
type Insertion struct {
	Name string
}

// Escaped is emitted as Value without being interpreted as a template.
type Escaped struct {
	Value any
}

// MapEntry is a single key of a [Mapping]. Both Key and Value are templates.
type MapEntry struct {
	Key   any
	Value any
}

// Mapping builds a mapping from its entries in order.
type Mapping []MapEntry

// Insert returns a placeholder for the value bound to name.
func Insert(name string) Insertion {
	return Insertion{Name: name}
}

// Literal emits v as-is.
func Literal(v any) Escaped {
	return Escaped{Value: v}
}

// Map builds a [Mapping] from entries.
func Map(entries ...MapEntry) Mapping {
	return Mapping(entries)
}

// Entry returns a mapping entry.
func Entry(key, value any) MapEntry {
	return MapEntry{Key: key, Value: value}
}

// repetitions returns the number of iterations for a repeated element that
// inserts names, evaluated at coord.
//
// Every name bound to a Repeating at coord must have the same length. Names
// bound to plain values do not constrain the count.
func repetitions(b binding.Bindings, coord []int, names []string) (int, error) {
	count, first := -1, ""

	for _, name := range names {
		v, err := b.Lookup(name, coord)
		if err != nil {
			return 0, err
		}

		r, ok := v.(binding.Repeating)
		if !ok {
			continue
		}

		if count < 0 {
			count, first = len(r), name

			continue
		}

		if len(r) != count {
			return 0, ErrRepeatLength.With(
				slog.String("name", name),
				slog.Int("length", len(r)),
				slog.String("other", first),
				slog.Int("expected", count),
			)
		}
	}

	if count < 0 {
		return 0, ErrNoRepetition.With(
			slog.Any("names", names),
			slog.Any("coordinate", coord),
		)
	}

	return count, nil
}
