package template

import (
	"log/slog"
	"reflect"

	"github.com/ardnew/reshape/binding"
)

// node is a compiled template. Implementations are immutable.
type node interface {
	instantiate(b binding.Bindings, coord []int) (any, error)
	insertions(set map[string]struct{})
}

type literalNode struct{ value any }

func (n literalNode) instantiate(binding.Bindings, []int) (any, error) {
	return n.value, nil
}

func (literalNode) insertions(map[string]struct{}) {}

type insertNode struct{ name string }

func (n insertNode) instantiate(b binding.Bindings, coord []int) (any, error) {
	v, err := b.Lookup(n.name, coord)
	if err != nil {
		return nil, err
	}

	if r, ok := v.(binding.Repeating); ok {
		return nil, ErrStillRepeating.With(
			slog.String("name", n.name),
			slog.Int("depth", len(coord)),
			slog.Int("remaining", binding.Depth(r)),
		)
	}

	return v, nil
}

func (n insertNode) insertions(set map[string]struct{}) {
	set[n.name] = struct{}{}
}

type listNode struct{ items []node }

func (n listNode) instantiate(b binding.Bindings, coord []int) (any, error) {
	out := make([]any, 0, len(n.items))

	for _, item := range n.items {
		v, err := item.instantiate(b, coord)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

func (n listNode) insertions(set map[string]struct{}) {
	for _, item := range n.items {
		item.insertions(set)
	}
}

type repeatNode struct {
	fixed listNode
	rep   node
	names []string // names inserted by rep, sorted
}

func (n repeatNode) instantiate(b binding.Bindings, coord []int) (any, error) {
	v, err := n.fixed.instantiate(b, coord)
	if err != nil {
		return nil, err
	}

	out, _ := v.([]any)

	count, err := repetitions(b, coord, n.names)
	if err != nil {
		return nil, err
	}

	for i := range count {
		item, err := n.rep.instantiate(b, append(coord[:len(coord):len(coord)], i))
		if err != nil {
			return nil, err
		}

		out = append(out, item)
	}

	return out, nil
}

func (n repeatNode) insertions(set map[string]struct{}) {
	n.fixed.insertions(set)
	n.rep.insertions(set)
}

// flattenNode concatenates the lists produced by a repeated element.
type flattenNode struct{ nested node }

func (n flattenNode) instantiate(b binding.Bindings, coord []int) (any, error) {
	v, err := n.nested.instantiate(b, coord)
	if err != nil {
		return nil, err
	}

	var out []any

	for _, part := range v.([]any) {
		out = append(out, part.([]any)...)
	}

	if out == nil {
		out = []any{}
	}

	return out, nil
}

func (n flattenNode) insertions(set map[string]struct{}) {
	n.nested.insertions(set)
}

type mapEntry struct {
	key   node
	value node
}

type mapNode struct{ entries []mapEntry }

func (n mapNode) instantiate(b binding.Bindings, coord []int) (any, error) {
	keys := make([]any, len(n.entries))
	values := make([]any, len(n.entries))
	strs := true

	for i, e := range n.entries {
		k, err := e.key.instantiate(b, coord)
		if err != nil {
			return nil, err
		}

		if k != nil && !reflect.TypeOf(k).Comparable() {
			return nil, ErrUnhashableKey.With(slog.Any("key", k))
		}

		if _, ok := k.(string); !ok {
			strs = false
		}

		v, err := e.value.instantiate(b, coord)
		if err != nil {
			return nil, err
		}

		keys[i], values[i] = k, v
	}

	if strs {
		out := make(map[string]any, len(keys))
		for i, k := range keys {
			out[k.(string)] = values[i]
		}

		return out, nil
	}

	out := make(map[any]any, len(keys))
	for i, k := range keys {
		out[k] = values[i]
	}

	return out, nil
}

func (n mapNode) insertions(set map[string]struct{}) {
	for _, e := range n.entries {
		e.key.insertions(set)
		e.value.insertions(set)
	}
}
