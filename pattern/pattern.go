package pattern

import (
	"github.com/ardnew/reshape/cast"
)

// Capture binds the matched data to Name, converting it with Cast first if
// Cast is not nil.
type Capture struct {
	Name string
	Cast cast.Caster
}

// Named binds the data matched by Pattern to Name, together with any
// bindings Pattern produces. If Pattern does not match and HasDefault is set,
// Name is bound to Default instead.
type Named struct {
	Name       string
	Pattern    any
	Default    any
	HasDefault bool
}

// DefaultKey is a mapping key whose Value is used when the data lacks Key.
type DefaultKey struct {
	Key   any
	Value any
}

// Skip drops the current element of the enclosing repetition when Pattern
// does not match.
//
// If Keys is nil any mismatch is dropped. Otherwise only a missing mapping
// key equal to one of Keys is, and other mismatches propagate.
type Skip struct {
	Pattern any
	Keys    []any
}

// TypeCheck matches any data that Cast accepts, without binding it.
type TypeCheck struct {
	Cast cast.Caster
}

// Escaped matches data equal to Value, even if Value is itself a pattern
// construct such as [binding.Ellipsis].
type Escaped struct {
	Value any
}

// Entry is a single key of a [Mapping].
type Entry struct {
	Key     any
	Pattern any
}

// Mapping matches mappings containing each of its keys. Keys are matched in
// declaration order; keys present in the data but not in the Mapping are
// ignored.
type Mapping []Entry

// Bind captures the matched data under name. An optional caster converts the
// data first; data it rejects is a [KindCast] mismatch.
func Bind(name string, c ...cast.Caster) Capture {
	p := Capture{Name: name}
	if len(c) > 0 {
		p.Cast = c[0]
	}

	return p
}

// BindAs captures the data matched by p under name.
func BindAs(name string, p any) Named {
	return Named{Name: name, Pattern: p}
}

// BindAsOr is like [BindAs] but binds name to def when p does not match.
func BindAsOr(name string, p, def any) Named {
	return Named{Name: name, Pattern: p, Default: def, HasDefault: true}
}

// Default returns a mapping key that falls back to value when key is absent.
func Default(key, value any) DefaultKey {
	return DefaultKey{Key: key, Value: value}
}

// SkipMismatch drops the enclosing repeated element when p does not match.
func SkipMismatch(p any) Skip {
	return Skip{Pattern: p}
}

// SkipMissingKeys drops the enclosing repeated element when p fails because
// one of keys is missing from a mapping.
func SkipMissingKeys(keys []any, p any) Skip {
	if keys == nil {
		keys = []any{}
	}

	return Skip{Pattern: p, Keys: keys}
}

// Type matches any data that c converts without error.
func Type(c cast.Caster) TypeCheck {
	return TypeCheck{Cast: c}
}

// Literal matches data equal to v without interpreting v as a pattern.
func Literal(v any) Escaped {
	return Escaped{Value: v}
}

// Map builds an ordered [Mapping] from entries.
func Map(entries ...Entry) Mapping {
	return Mapping(entries)
}

// Key returns a mapping entry. Use [Default] as key to supply a value for a
// missing key.
func Key(key, p any) Entry {
	return Entry{Key: key, Pattern: p}
}
