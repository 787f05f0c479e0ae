package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type label string

func TestEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b any
		want bool
	}{
		{1, 1, true},
		{int8(1), uint16(1), true},
		{uint64(3), 3.0, true},
		{float32(0.5), 0.5, true},
		{-1, uint(1), false},
		{1, "1", false},
		{"a", label("a"), true},
		{true, true, true},
		{true, 1, false},
		{nil, nil, true},
		{nil, 0, false},
		{[]any{1, []int{2}}, []any{1.0, []any{2}}, true},
		{[]any{1}, []any{1, 2}, false},
		{"ab", []byte("ab"), false},
		{map[string]any{"a": 1}, map[any]any{"a": 1.0}, true},
		{map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}, false},
		{map[string]any{"a": 1}, []any{"a"}, false},
		{struct{ X int }{1}, struct{ X int }{1}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, equal(tt.a, tt.b), "equal(%#v, %#v)", tt.a, tt.b)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	v, ok := lookup(map[any]any{uint64(2): "two"}, 2)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	_, ok = lookup(map[string]any{"1": 1}, 1)
	assert.False(t, ok)

	v, ok = lookup(map[int]string{3: "three"}, 3.0)
	assert.True(t, ok)
	assert.Equal(t, "three", v)

	_, ok = lookup(map[any]any{"k": 1}, []any{"k"})
	assert.False(t, ok)
}

func TestAsList(t *testing.T) {
	t.Parallel()

	l, ok := asList([2]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, []any{"a", "b"}, l)

	for _, v := range []any{nil, "s", []byte("b"), 3, map[string]any{}} {
		_, ok := asList(v)
		assert.False(t, ok, "%#v", v)
	}
}
