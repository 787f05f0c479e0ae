// Package template rebuilds data from bindings.
//
// A template is an ordinary Go value in which [Insert] marks where a bound
// value goes. A list element followed by [binding.Ellipsis] is instantiated
// once per iteration of the repetitions it inserts:
//
//	t := []any{
//		[]any{template.Insert("date"), template.Insert("event")},
//		binding.Ellipsis,
//	}
//
// The number of iterations comes from the inserted names bound to
// [binding.Repeating]. Names bound to plain values are repeated unchanged in
// every iteration; all repeating names at one level must agree on the count.
//
// Each further Ellipsis adds one level of repetition and concatenates the
// nested result, so [t, Ellipsis, Ellipsis] yields a flat list over two
// levels of repetition.
package template
