// Package pattern compiles declarative descriptions of data shape into
// matchers that extract named values.
//
// A pattern is an ordinary Go value. Lists and mappings match lists and
// mappings of the same shape, any other value matches an equal value, and
// the constructors in this package add captures, defaults, type checks and
// skip rules:
//
//	p := pattern.Map(
//		pattern.Key("date", pattern.Bind("date")),
//		pattern.Key("reports", []any{
//			pattern.Map(
//				pattern.Key("station", pattern.Bind("station", cast.Int)),
//				pattern.Key("events", []any{
//					pattern.Bind("event"),
//					binding.Ellipsis,
//				}),
//			),
//			binding.Ellipsis,
//		}),
//	)
//
// A list whose last element is [binding.Ellipsis] matches its leading
// elements positionally and every remaining element against the element
// before the marker. Names captured by that element are bound to a
// [binding.Repeating] with one entry per matching element, even when there
// are none.
//
// [Compile] reports malformed patterns before any data is seen. A compiled
// [Matcher] holds no mutable state and may be shared between goroutines.
//
// # Mismatches
//
// Data that does not fit the pattern produces a [*Mismatch] whose Kind
// classifies the failure. Use errors.Is with [ErrMismatch] or one of the
// kind-specific sentinels, or errors.As to inspect the offending data and
// its location.
//
// # Skipping
//
// [SkipMismatch] and [SkipMissingKeys] turn failures of their subpattern
// into a signal that drops the current element of the nearest enclosing
// repetition instead of failing the whole match. They are only valid
// inside the repeated element of a list.
package pattern
