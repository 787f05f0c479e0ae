package pattern

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"slices"

	"github.com/ardnew/reshape/binding"
	"github.com/ardnew/reshape/log"
	"github.com/ardnew/reshape/pkg"
)

// Matcher is a compiled pattern.
type Matcher struct {
	root   node
	names  map[string]int
	logger log.Logger
}

// Option configures compilation.
type Option func(*compiler)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *compiler) {
		c.logger = logger
	}
}

// Compile validates p and builds its [Matcher].
func Compile(p any, opts ...Option) (*Matcher, error) {
	c := &compiler{names: map[string]int{}}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.Trace("compile pattern", slog.String("type", fmt.Sprintf("%T", p)))

	root, err := c.compile(p)
	if err != nil {
		c.logger.Trace("compile pattern failed", slog.Any("error", err))

		return nil, err
	}

	c.logger.Trace("compiled pattern", slog.Any("names", c.names))

	return &Matcher{root: root, names: c.names, logger: c.logger}, nil
}

// MustCompile is like [Compile] but panics if p is invalid.
func MustCompile(p any, opts ...Option) *Matcher {
	m, err := Compile(p, opts...)
	if err != nil {
		panic(err)
	}

	return m
}

// BoundNames compiles p and returns the depth of every name it binds.
func BoundNames(p any) (map[string]int, error) {
	m, err := Compile(p)
	if err != nil {
		return nil, err
	}

	return m.BoundNames(), nil
}

// Match matches data and returns its bindings.
//
// A failed match returns a [*Mismatch]. A successful match binds every name
// the pattern declares, except names under a [BindAsOr] whose default was
// used.
func (m *Matcher) Match(data any) (binding.Bindings, error) {
	r := m.root.match(data)

	switch r.outcome {
	case mismatched:
		m.logger.Trace("mismatch", slog.Any("error", r.err))

		return nil, r.err
	case skipped:
		// Compile rejects skips that no repetition consumes.
		return nil, ErrSkipOutsideRepeat
	}

	if r.bindings == nil {
		return binding.Bindings{}, nil
	}

	return r.bindings, nil
}

// Matches reports whether data matches.
func (m *Matcher) Matches(data any) bool {
	return m.root.match(data).outcome == matched
}

// BoundNames returns the repetition depth of every name the pattern binds.
// Depth 0 is a plain value, depth n is n nested [binding.Repeating] layers.
func (m *Matcher) BoundNames() map[string]int {
	return maps.Clone(m.names)
}

// Names returns the bound names in ascending order.
func (m *Matcher) Names() []string {
	return pkg.SortedKeys(m.names)
}

// compiler tracks state while building a node tree.
type compiler struct {
	logger   log.Logger
	names    map[string]int
	order    []string
	path     []any
	depth    int
	repeated bool // inside the repeated element of a list
}

func (c *compiler) fail(err *pkg.Error) error {
	return err.With(slog.Any("path", slices.Clone(c.path)))
}

func (c *compiler) declare(name string) error {
	if name == "" {
		return c.fail(ErrInvalidPattern.With(slog.String("reason", "empty name")))
	}

	if _, dup := c.names[name]; dup {
		return c.fail(ErrDuplicateName.With(slog.String("name", name)))
	}

	c.names[name] = c.depth
	c.order = append(c.order, name)

	return nil
}

func (c *compiler) within(step any, p any) (node, error) {
	c.path = append(c.path, step)
	defer func() { c.path = c.path[:len(c.path)-1] }()

	return c.compile(p)
}

func (c *compiler) compile(p any) (node, error) {
	switch v := p.(type) {
	case nil:
		return literalNode{}, nil

	case Capture:
		if err := c.declare(v.Name); err != nil {
			return nil, err
		}

		return captureNode{name: v.Name, cast: v.Cast}, nil

	case Named:
		if err := c.declare(v.Name); err != nil {
			return nil, err
		}

		sub, err := c.compile(v.Pattern)
		if err != nil {
			return nil, err
		}

		return namedNode{
			sub:        sub,
			def:        v.Default,
			name:       v.Name,
			hasDefault: v.HasDefault,
		}, nil

	case Skip:
		if !c.repeated {
			return nil, c.fail(ErrSkipOutsideRepeat)
		}

		sub, err := c.compile(v.Pattern)
		if err != nil {
			return nil, err
		}

		var keys []any
		if v.Keys != nil {
			keys = append(make([]any, 0, len(v.Keys)), v.Keys...)
		}

		return skipNode{sub: sub, keys: keys}, nil

	case TypeCheck:
		if v.Cast == nil {
			return nil, c.fail(ErrInvalidPattern.With(
				slog.String("reason", "type check without cast"),
			))
		}

		return typeNode{cast: v.Cast}, nil

	case Escaped:
		return literalNode{value: v.Value}, nil

	case Mapping:
		return c.compileMapping(v)

	case DefaultKey:
		return nil, c.fail(ErrInvalidPattern.With(
			slog.String("reason", "default used outside a mapping key"),
		))

	case binding.Marker:
		return nil, c.fail(ErrInvalidPattern.With(
			slog.String("reason", "ellipsis outside a list"),
		))

	case []any:
		return c.compileList(v)

	case map[string]any:
		entries := make(Mapping, 0, len(v))
		for _, k := range pkg.SortedKeys(v) {
			entries = append(entries, Entry{Key: k, Pattern: v[k]})
		}

		return c.compileMapping(entries)
	}

	if list, ok := asList(p); ok {
		return c.compileList(list)
	}

	if rv := reflect.ValueOf(p); rv.Kind() == reflect.Map {
		entries := make(Mapping, 0, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			entries = append(entries, Entry{
				Key:     it.Key().Interface(),
				Pattern: it.Value().Interface(),
			})
		}

		slices.SortFunc(entries, func(a, b Entry) int {
			return pkg.CompareAny(entryKey(a.Key), entryKey(b.Key))
		})

		return c.compileMapping(entries)
	}

	return literalNode{value: p}, nil
}

func entryKey(k any) any {
	if d, ok := k.(DefaultKey); ok {
		return d.Key
	}

	return k
}

func (c *compiler) compileMapping(entries Mapping) (node, error) {
	n := mapNode{entries: make([]mapEntry, len(entries))}

	for i, e := range entries {
		me := mapEntry{key: e.Key}

		if d, ok := e.Key.(DefaultKey); ok {
			me.key, me.def, me.hasDefault = d.Key, d.Value, true
		}

		switch me.key.(type) {
		case Capture, Named, Skip, TypeCheck, Mapping, binding.Marker:
			return nil, c.fail(ErrInvalidPattern.With(
				slog.String("reason", "mapping key must be a literal"),
				slog.Any("key", me.key),
			))
		case Escaped:
			me.key = me.key.(Escaped).Value
		}

		value, err := c.within(me.key, e.Pattern)
		if err != nil {
			return nil, err
		}

		me.value = value
		n.entries[i] = me
	}

	return n, nil
}

func (c *compiler) compileList(list []any) (node, error) {
	items, markers, err := binding.Split(list)
	if err != nil {
		return nil, c.fail(pkg.AsError(err))
	}

	switch {
	case markers == 0:
		n := listNode{items: make([]node, len(items))}
		for i, item := range items {
			if n.items[i], err = c.within(i, item); err != nil {
				return nil, err
			}
		}

		return n, nil

	case markers > 1:
		return nil, c.fail(ErrMultipleEllipsis.With(slog.Int("count", markers)))

	case len(items) == 0:
		return anyListNode{}, nil
	}

	k := len(items) - 1
	n := repeatNode{prefix: make([]node, k)}

	for i, item := range items[:k] {
		if n.prefix[i], err = c.within(i, item); err != nil {
			return nil, err
		}
	}

	mark, repeated := len(c.order), c.repeated
	c.depth++
	c.repeated = true

	n.last, err = c.within(k, items[k])

	c.depth--
	c.repeated = repeated

	if err != nil {
		return nil, err
	}

	n.names = slices.Clone(c.order[mark:])

	return n, nil
}
