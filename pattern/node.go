package pattern

import (
	"maps"

	"github.com/ardnew/reshape/binding"
	"github.com/ardnew/reshape/cast"
)

// outcome is the three-way result of matching one node.
type outcome uint8

const (
	matched outcome = iota
	mismatched
	skipped
)

type result struct {
	bindings binding.Bindings
	err      *Mismatch
	outcome  outcome
}

func success(b binding.Bindings) result { return result{bindings: b} }

func failure(m *Mismatch) result { return result{err: m, outcome: mismatched} }

//nolint:gochecknoglobals
var skip = result{outcome: skipped}

// merge adds src to dst. Results are allocated per match, so src is adopted
// as dst when dst is nil.
func merge(dst, src binding.Bindings) binding.Bindings {
	if len(src) == 0 {
		return dst
	}

	if dst == nil {
		return src
	}

	maps.Copy(dst, src)

	return dst
}

// node is a compiled pattern. Implementations are immutable.
type node interface {
	match(data any) result
}

type literalNode struct{ value any }

func (n literalNode) match(data any) result {
	if equal(data, n.value) {
		return success(nil)
	}

	return failure(mismatch(KindLiteral, data, n.value))
}

type captureNode struct {
	name string
	cast cast.Caster
}

func (n captureNode) match(data any) result {
	if n.cast != nil {
		v, err := n.cast.Cast(data)
		if err != nil {
			m := mismatch(KindCast, data, n.cast.String())
			m.Cause = err

			return failure(m)
		}

		data = v
	}

	return success(binding.Bindings{n.name: data})
}

type typeNode struct{ cast cast.Caster }

func (n typeNode) match(data any) result {
	if _, err := n.cast.Cast(data); err != nil {
		m := mismatch(KindCast, data, n.cast.String())
		m.Cause = err

		return failure(m)
	}

	return success(nil)
}

type namedNode struct {
	sub        node
	def        any
	name       string
	hasDefault bool
}

func (n namedNode) match(data any) result {
	r := n.sub.match(data)

	switch r.outcome {
	case matched:
		b := merge(nil, r.bindings)
		if b == nil {
			b = binding.Bindings{}
		}

		b[n.name] = data

		return success(b)

	case mismatched:
		if n.hasDefault {
			return success(binding.Bindings{n.name: n.def})
		}
	}

	return r
}

type skipNode struct {
	sub  node
	keys []any // nil skips every mismatch
}

func (n skipNode) match(data any) result {
	r := n.sub.match(data)
	if r.outcome != mismatched {
		return r
	}

	if n.keys == nil {
		return skip
	}

	if r.err.Kind == KindKey {
		for _, k := range n.keys {
			if equal(r.err.Expected, k) {
				return skip
			}
		}
	}

	return r
}

type anyListNode struct{}

func (anyListNode) match(data any) result {
	if _, ok := asList(data); !ok {
		return failure(mismatch(KindType, data, "list"))
	}

	return success(nil)
}

type listNode struct{ items []node }

func (n listNode) match(data any) result {
	list, ok := asList(data)
	if !ok {
		return failure(mismatch(KindType, data, "list"))
	}

	if len(list) != len(n.items) {
		return failure(mismatch(KindLength, len(list), len(n.items)))
	}

	var out binding.Bindings

	for i, item := range n.items {
		r := item.match(list[i])

		switch r.outcome {
		case mismatched:
			r.err.at(i)

			return r
		case skipped:
			return r
		}

		out = merge(out, r.bindings)
	}

	return success(out)
}

type repeatNode struct {
	prefix []node
	last   node
	names  []string // every name last can bind
}

func (n repeatNode) match(data any) result {
	list, ok := asList(data)
	if !ok {
		return failure(mismatch(KindType, data, "list"))
	}

	if len(list) < len(n.prefix) {
		return failure(mismatch(KindLength, len(list), len(n.prefix)))
	}

	var out binding.Bindings

	for i, item := range n.prefix {
		r := item.match(list[i])

		switch r.outcome {
		case mismatched:
			r.err.at(i)

			return r
		case skipped:
			return r
		}

		out = merge(out, r.bindings)
	}

	acc := make(map[string]binding.Repeating, len(n.names))
	for _, name := range n.names {
		acc[name] = binding.Repeating{}
	}

	for i := len(n.prefix); i < len(list); i++ {
		r := n.last.match(list[i])

		switch r.outcome {
		case mismatched:
			r.err.at(i)

			return r
		case skipped:
			continue
		}

		for name, v := range r.bindings {
			acc[name] = append(acc[name], v)
		}
	}

	if len(acc) > 0 && out == nil {
		out = make(binding.Bindings, len(acc))
	}

	for name, r := range acc {
		out[name] = r
	}

	return success(out)
}

type mapEntry struct {
	key        any
	def        any
	value      node
	hasDefault bool
}

type mapNode struct{ entries []mapEntry }

func (n mapNode) match(data any) result {
	if !isMapping(data) {
		return failure(mismatch(KindType, data, "mapping"))
	}

	var out binding.Bindings

	for _, e := range n.entries {
		v, ok := lookup(data, e.key)
		if !ok {
			if !e.hasDefault {
				return failure(mismatch(KindKey, data, e.key))
			}

			v = e.def
		}

		r := e.value.match(v)

		switch r.outcome {
		case mismatched:
			r.err.at(e.key)

			return r
		case skipped:
			return r
		}

		out = merge(out, r.bindings)
	}

	return success(out)
}
