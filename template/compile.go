package template

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

// Template is a compiled template.
type Template struct {
	root   node
	names  []string
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

// Compile validates t and builds its [Template].
func Compile(t any, opts ...Option) (*Template, error) {
	c := &compiler{}
	for _, opt := range opts {
		opt(c)
	}

	c.logger.Trace("compile template", slog.String("type", fmt.Sprintf("%T", t)))

	root, err := c.compile(t)
	if err != nil {
		c.logger.Trace("compile template failed", slog.Any("error", err))

		return nil, err
	}

	set := map[string]struct{}{}
	root.insertions(set)

	return &Template{
		root:   root,
		names:  slices.Sorted(maps.Keys(set)),
		logger: c.logger,
	}, nil
}

// MustCompile is like [Compile] but panics if t is invalid.
func MustCompile(t any, opts ...Option) *Template {
	tpl, err := Compile(t, opts...)
	if err != nil {
		panic(err)
	}

	return tpl
}

// Instantiate builds the template's output from b.
func (t *Template) Instantiate(b binding.Bindings) (any, error) {
	return t.InstantiateAt(b, nil)
}

// InstantiateAt builds the template's output with insertions resolved at
// coord, as if the template were the repeated element of enclosing lists
// currently at iterations coord.
func (t *Template) InstantiateAt(b binding.Bindings, coord []int) (any, error) {
	v, err := t.root.instantiate(b, coord)
	if err != nil {
		t.logger.Trace("instantiate failed", slog.Any("error", err))

		return nil, err
	}

	return v, nil
}

// Names returns the inserted names in ascending order.
func (t *Template) Names() []string {
	return slices.Clone(t.names)
}

type compiler struct {
	logger log.Logger
	path   []any
}

func (c *compiler) fail(err *pkg.Error) error {
	return err.With(slog.Any("path", slices.Clone(c.path)))
}

func (c *compiler) within(step, t any) (node, error) {
	c.path = append(c.path, step)
	defer func() { c.path = c.path[:len(c.path)-1] }()

	return c.compile(t)
}

func (c *compiler) compile(t any) (node, error) {
	switch v := t.(type) {
	case nil:
		return literalNode{}, nil

	case Insertion:
		if v.Name == "" {
			return nil, c.fail(ErrInvalidTemplate.With(
				slog.String("reason", "empty name"),
			))
		}

		return insertNode{name: v.Name}, nil

	case Escaped:
		return literalNode{value: v.Value}, nil

	case binding.Marker:
		return nil, c.fail(ErrInvalidTemplate.With(
			slog.String("reason", "ellipsis outside a list"),
		))

	case []any:
		return c.compileList(v)

	case Mapping:
		return c.compileMapping(v)

	case map[string]any:
		entries := make(Mapping, 0, len(v))
		for _, k := range pkg.SortedKeys(v) {
			entries = append(entries, MapEntry{Key: k, Value: v[k]})
		}

		return c.compileMapping(entries)

	case string, []byte:
		return literalNode{value: v}, nil
	}

	rv := reflect.ValueOf(t)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		list := make([]any, rv.Len())
		for i := range list {
			list[i] = rv.Index(i).Interface()
		}

		return c.compileList(list)

	case reflect.Map:
		entries := make(Mapping, 0, rv.Len())
		for it := rv.MapRange(); it.Next(); {
			entries = append(entries, MapEntry{
				Key:   it.Key().Interface(),
				Value: it.Value().Interface(),
			})
		}

		slices.SortFunc(entries, func(a, b MapEntry) int {
			return pkg.CompareAny(a.Key, b.Key)
		})

		return c.compileMapping(entries)
	}

	return literalNode{value: t}, nil
}

func (c *compiler) compileMapping(entries Mapping) (node, error) {
	n := mapNode{entries: make([]mapEntry, len(entries))}

	for i, e := range entries {
		key, err := c.within(e.Key, e.Key)
		if err != nil {
			return nil, err
		}

		value, err := c.within(e.Key, e.Value)
		if err != nil {
			return nil, err
		}

		n.entries[i] = mapEntry{key: key, value: value}
	}

	return n, nil
}

func (c *compiler) compileList(list []any) (node, error) {
	items, markers, err := binding.Split(list)
	if err != nil {
		return nil, c.fail(pkg.AsError(err))
	}

	if markers == 0 {
		n := listNode{items: make([]node, len(items))}
		for i, item := range items {
			if n.items[i], err = c.within(i, item); err != nil {
				return nil, err
			}
		}

		return n, nil
	}

	if len(items) == 0 {
		return nil, c.fail(ErrEllipsisWithoutItem.With(slog.Int("count", markers)))
	}

	if markers > 1 {
		// [items..., rep, E, E] repeats [items..., rep, E] and concatenates.
		inner := append(items, repeatMarkers(markers-1)...)

		nested, err := c.compileList([]any{inner, binding.Ellipsis})
		if err != nil {
			return nil, err
		}

		return flattenNode{nested: nested}, nil
	}

	k := len(items) - 1
	n := repeatNode{fixed: listNode{items: make([]node, k)}}

	for i, item := range items[:k] {
		if n.fixed.items[i], err = c.within(i, item); err != nil {
			return nil, err
		}
	}

	if n.rep, err = c.within(k, items[k]); err != nil {
		return nil, err
	}

	set := map[string]struct{}{}
	n.rep.insertions(set)
	n.names = slices.Sorted(maps.Keys(set))

	return n, nil
}

func repeatMarkers(n int) []any {
	m := make([]any, n)
	for i := range m {
		m[i] = binding.Ellipsis
	}

	return m
}
