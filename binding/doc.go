// Package binding defines the values that flow from a matcher to a template.
//
// A capture outside any repetition binds a plain Go value. A capture inside a
// repeated list element binds a [Repeating] holding one value per iteration,
// and nested repetitions produce nested Repeating values. The nesting depth
// of every name is fixed by the pattern, so an empty repetition still binds
// an empty Repeating rather than leaving the name absent.
//
// Templates read bindings through a coordinate: a sequence of iteration
// indices, one per Repeating layer, consumed from the outside in by
// [Bindings.Lookup].
//
// The package also owns the repetition marker [Ellipsis] and the rule for
// where it may appear in a list, which patterns and templates share.
package binding
