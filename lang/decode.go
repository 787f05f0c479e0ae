package lang

import (
	"fmt"
	"log/slog"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"

	"github.com/ardnew/reshape/binding"
	"github.com/ardnew/reshape/cast"
	"github.com/ardnew/reshape/pattern"
	"github.com/ardnew/reshape/pkg"
	"github.com/ardnew/reshape/template"
)

// Encoding of pattern and template constructs in documents.
const (
	Marker    = "..."
	Sigil     = "$"
	escape    = Sigil + Sigil
	castSep   = ":"
	defaults  = "$defaults"
	dBind     = "$bind"
	dCast     = "$cast"
	dMatch    = "$match"
	dDefault  = "$default"
	dType     = "$type"
	dSkip     = "$skip"
	dKeys     = "$keys"
	dLiteral  = "$literal"
	dInsert   = "$insert"
	reasonKey = "reason"
)

var validName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// decoder converts a YAML tree into pattern and template values, collecting
// every problem it finds.
type decoder struct {
	casts cast.Registry
	errs  *multierror.Error
}

func (d *decoder) fail(path string, err *pkg.Error) {
	if path != "" {
		err = err.With(slog.String("path", path))
	}

	d.errs = multierror.Append(d.errs, located{path: path, err: err})
}

func (d *decoder) failf(path, format string, args ...any) {
	d.fail(path, ErrDirective.With(slog.String(reasonKey, fmt.Sprintf(format, args...))))
}

// located prefixes an error message with its document path.
type located struct {
	path string
	err  *pkg.Error
}

func (l located) Error() string {
	if l.path == "" {
		return l.err.Error()
	}

	return l.path + ": " + l.err.Error()
}

func (l located) Unwrap() error { return l.err }

func (l located) LogValue() slog.Value { return l.err.LogValue() }

func child(path string, key any) string {
	if i, ok := key.(int); ok {
		return fmt.Sprintf("%s[%d]", path, i)
	}

	return fmt.Sprintf("%s.%v", path, key)
}

func (d *decoder) defineCasts(path string, v any) {
	m, ok := v.(yaml.MapSlice)
	if !ok {
		d.failf(path, "casts must be a mapping of name to expression")

		return
	}

	for _, item := range m {
		name, ok := item.Key.(string)
		src, ok2 := item.Value.(string)

		if !ok || !ok2 || !validName.MatchString(name) {
			d.failf(child(path, item.Key), "cast must map a name to an expression")

			continue
		}

		if err := d.casts.Define(name, src); err != nil {
			d.fail(child(path, name), pkg.AsError(err))
		}
	}
}

func (d *decoder) cast(path string, v any) cast.Caster {
	name, ok := v.(string)
	if !ok {
		d.failf(path, "cast name must be a string")

		return nil
	}

	c, err := d.casts.Resolve(name)
	if err != nil {
		d.fail(path, pkg.AsError(err))

		return nil
	}

	return c
}

func (d *decoder) name(path string, v any) string {
	s, ok := v.(string)
	if !ok || !validName.MatchString(s) {
		d.failf(path, "invalid name %v", v)

		return ""
	}

	return s
}

// directive returns the fields of m if every key is a directive.
func directive(m yaml.MapSlice) (map[string]any, bool) {
	if len(m) == 0 {
		return nil, false
	}

	f := make(map[string]any, len(m))

	for _, item := range m {
		k, ok := item.Key.(string)
		if !ok || !isDirectiveKey(k) {
			return nil, false
		}

		f[k] = item.Value
	}

	return f, true
}

func isDirectiveKey(k string) bool {
	return strings.HasPrefix(k, Sigil) && !strings.HasPrefix(k, escape) &&
		k != defaults
}

func (d *decoder) allow(path string, f map[string]any, keys ...string) {
	for _, k := range pkg.SortedKeys(f) {
		if !slices.Contains(keys, k) {
			d.failf(path, "%s cannot be combined with %s", k, keys[0])
		}
	}
}

// scalar decodes a string that may be a marker, escape, or reference.
// It reports the reference name and cast, if any.
func scalar(s string) (lit any, name, castName string, ref bool) {
	switch {
	case s == Marker:
		return binding.Ellipsis, "", "", false
	case strings.HasPrefix(s, escape):
		return s[1:], "", "", false
	case strings.HasPrefix(s, Sigil):
		name, castName, _ = strings.Cut(s[1:], castSep)

		return nil, name, castName, true
	default:
		return s, "", "", false
	}
}

func (d *decoder) pattern(path string, v any) any {
	switch v := v.(type) {
	case string:
		lit, name, castName, ref := scalar(v)
		if !ref {
			return lit
		}

		if !validName.MatchString(name) {
			d.failf(path, "invalid capture %q", v)

			return nil
		}

		if castName == "" {
			return pattern.Bind(name)
		}

		return pattern.Bind(name, d.cast(path, castName))

	case yaml.MapSlice:
		if f, ok := directive(v); ok {
			return d.patternDirective(path, f)
		}

		return d.patternMapping(path, v)

	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = d.pattern(child(path, i), v[i])
		}

		return out

	default:
		return v
	}
}

func (d *decoder) patternDirective(path string, f map[string]any) any {
	switch {
	case has(f, dBind):
		d.allow(path, f, dBind, dCast, dMatch, dDefault)

		name := d.name(child(path, dBind), f[dBind])
		sub, hasMatch := f[dMatch]
		def, hasDefault := f[dDefault]
		castName, hasCast := f[dCast]

		switch {
		case hasMatch && hasCast:
			d.failf(path, "%s cannot be combined with %s", dCast, dMatch)
		case hasDefault && !hasMatch:
			d.failf(path, "%s requires %s", dDefault, dMatch)
		case hasMatch && hasDefault:
			return pattern.BindAsOr(name, d.pattern(child(path, dMatch), sub), Plain(def))
		case hasMatch:
			return pattern.BindAs(name, d.pattern(child(path, dMatch), sub))
		case hasCast:
			return pattern.Bind(name, d.cast(child(path, dCast), castName))
		}

		return pattern.Bind(name)

	case has(f, dType):
		d.allow(path, f, dType)

		return pattern.Type(d.cast(child(path, dType), f[dType]))

	case has(f, dSkip):
		d.allow(path, f, dSkip, dKeys)

		sub := d.pattern(child(path, dSkip), f[dSkip])

		keys, ok := f[dKeys]
		if !ok {
			return pattern.SkipMismatch(sub)
		}

		list, ok := keys.([]any)
		if !ok {
			d.failf(child(path, dKeys), "%s must be a list", dKeys)

			return nil
		}

		return pattern.SkipMissingKeys(Plain(list).([]any), sub)

	case has(f, dLiteral):
		d.allow(path, f, dLiteral)

		return pattern.Literal(Plain(f[dLiteral]))

	case has(f, dInsert):
		d.failf(path, "%s is only valid in templates", dInsert)

		return nil
	}

	d.fail(path, ErrDirective.With(
		slog.String(reasonKey, "unknown directive"),
		slog.Any("keys", pkg.SortedKeys(f)),
	))

	return nil
}

func (d *decoder) patternMapping(path string, m yaml.MapSlice) any {
	var defs yaml.MapSlice

	for _, item := range m {
		if item.Key != defaults {
			continue
		}

		var ok bool
		if defs, ok = item.Value.(yaml.MapSlice); !ok {
			d.failf(child(path, defaults), "%s must be a mapping", defaults)
		}
	}

	used := make([]bool, len(defs))
	out := make(pattern.Mapping, 0, len(m))

	for _, item := range m {
		if item.Key == defaults {
			continue
		}

		key := d.key(path, item.Key)
		value := d.pattern(child(path, key), item.Value)

		var entryKey any = key

		for i, def := range defs {
			if reflect.DeepEqual(Plain(def.Key), key) {
				entryKey, used[i] = pattern.Default(key, Plain(def.Value)), true

				break
			}
		}

		out = append(out, pattern.Key(entryKey, value))
	}

	for i, def := range defs {
		if !used[i] {
			d.failf(child(child(path, defaults), def.Key),
				"default for key %v that the mapping does not match", def.Key)
		}
	}

	return out
}

// key decodes a literal mapping key of a pattern.
func (d *decoder) key(path string, k any) any {
	s, ok := k.(string)
	if !ok {
		return Plain(k)
	}

	lit, _, _, ref := scalar(s)
	if ref || binding.IsEllipsis(lit) {
		d.failf(child(path, s), "pattern mapping keys must be literal")

		return s
	}

	return lit
}

func (d *decoder) template(path string, v any) any {
	switch v := v.(type) {
	case string:
		lit, name, castName, ref := scalar(v)
		if !ref {
			return lit
		}

		if !validName.MatchString(name) {
			d.failf(path, "invalid insertion %q", v)

			return nil
		}

		if castName != "" {
			d.failf(path, "casts are not allowed in templates")
		}

		return template.Insert(name)

	case yaml.MapSlice:
		if f, ok := directive(v); ok {
			return d.templateDirective(path, f)
		}

		out := make(template.Mapping, 0, len(v))

		for _, item := range v {
			if item.Key == defaults {
				d.failf(child(path, defaults), "%s is only valid in patterns", defaults)

				continue
			}

			key := d.template(child(path, item.Key), item.Key)
			out = append(out, template.Entry(key, d.template(child(path, item.Key), item.Value)))
		}

		return out

	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = d.template(child(path, i), v[i])
		}

		return out

	default:
		return v
	}
}

func (d *decoder) templateDirective(path string, f map[string]any) any {
	switch {
	case has(f, dInsert):
		d.allow(path, f, dInsert)

		return template.Insert(d.name(child(path, dInsert), f[dInsert]))

	case has(f, dLiteral):
		d.allow(path, f, dLiteral)

		return template.Literal(Plain(f[dLiteral]))
	}

	d.fail(path, ErrDirective.With(
		slog.String(reasonKey, "unknown template directive"),
		slog.Any("keys", pkg.SortedKeys(f)),
	))

	return nil
}

func has(f map[string]any, key string) bool {
	_, ok := f[key]

	return ok
}
