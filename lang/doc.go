// Package lang reads transform documents: a pattern and a template written
// in YAML or JSON, compiled together into a [Transform].
//
// # Document
//
//	casts:
//	  ms: int(value) * 1000
//	pattern:
//	  date: $date
//	  reports:
//	    - station: $station:int
//	      events:
//	        - {time: $time:ms, type: $event_type}
//	        - ...
//	    - ...
//	template:
//	  - [$date, $time, $station, $event_type]
//	  - ...
//	  - ...
//
// The "pattern" key is required. "template" is optional; without it a
// transform only matches. "casts" defines named expr-lang conversions over
// the variable "value", usable alongside the built-in int, float, string and
// bool casts.
//
// # Encoding
//
// The string "..." is the repetition marker. A string "$name" captures in a
// pattern and inserts in a template; "$name:cast" is a typed capture. A
// leading "$$" escapes a literal "$".
//
// Mappings whose keys are directives express the remaining constructs:
//
//	{$bind: n, $cast: c}                 typed capture
//	{$bind: n, $match: p}                capture of a subpattern
//	{$bind: n, $match: p, $default: v}   ... with a fallback value
//	{$type: c}                           type check
//	{$skip: p}                           skip element on mismatch
//	{$skip: p, $keys: [k, ...]}          skip element on missing keys
//	{$literal: v}                        v verbatim
//	{$insert: n}                         insertion (templates only)
//
// A pattern mapping may also contain "$defaults", a mapping from its keys to
// the values used when the data lacks them.
//
// Pattern mapping keys keep their document order, which is also the order in
// which they are matched.
package lang
