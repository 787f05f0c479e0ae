package pattern_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/reshape/binding"
	"github.com/ardnew/reshape/cast"
	"github.com/ardnew/reshape/pattern"
)

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern any
		want    error
	}{
		{"ellipsis not last", []any{0, 1, E, 2, 3}, binding.ErrEllipsisNotLast},
		{"ellipsis first", []any{E, 0}, binding.ErrEllipsisNotLast},
		{"two ellipses", []any{pattern.Bind("x"), E, E}, pattern.ErrMultipleEllipsis},
		{"bare ellipsis", E, pattern.ErrInvalidPattern},
		{"empty name", pattern.Bind(""), pattern.ErrInvalidPattern},
		{"nil type check", pattern.Type(nil), pattern.ErrInvalidPattern},
		{"default outside key", pattern.Default("x", 1), pattern.ErrInvalidPattern},
		{
			"pattern as key",
			pattern.Map(pattern.Key(pattern.Bind("k"), 1)),
			pattern.ErrInvalidPattern,
		},
		{
			"duplicate name",
			[]any{pattern.Bind("x"), pattern.Bind("x")},
			pattern.ErrDuplicateName,
		},
		{
			"duplicate across depth",
			[]any{pattern.Bind("x"), []any{pattern.Bind("x"), E}},
			pattern.ErrDuplicateName,
		},
		{
			"named duplicate",
			pattern.BindAs("x", pattern.Bind("x")),
			pattern.ErrDuplicateName,
		},
		{"top-level skip", pattern.SkipMismatch(1), pattern.ErrSkipOutsideRepeat},
		{
			"skip in fixed list",
			[]any{pattern.SkipMismatch(1)},
			pattern.ErrSkipOutsideRepeat,
		},
		{
			"skip in prefix",
			[]any{pattern.SkipMismatch(1), 2, E},
			pattern.ErrSkipOutsideRepeat,
		},
		{
			"nested error",
			map[string]any{"a": []any{E, 1}},
			binding.ErrEllipsisNotLast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := pattern.Compile(tt.pattern)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, m)
		})
	}
}

func TestCompileAcceptsSkipInNestedPrefix(t *testing.T) {
	t.Parallel()

	p := []any{
		[]any{pattern.SkipMismatch(0), pattern.Bind("x"), E},
		E,
	}

	assert.Equal(t,
		B{"x": R{R{1, 2}}},
		match(t, p, []any{[]any{0, 1, 2}, []any{9, 3}}),
	)
}

func TestMustCompilePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { pattern.MustCompile([]any{E, 1}) })
	assert.NotPanics(t, func() { pattern.MustCompile([]any{E}) })
}

func TestBoundNames(t *testing.T) {
	t.Parallel()

	p := map[string]any{
		"date": pattern.Bind("date"),
		"reports": []any{
			map[string]any{
				"station": pattern.Bind("station"),
				"events": []any{
					map[string]any{
						"time": pattern.Bind("time"),
						"type": pattern.Bind("event_type"),
					},
					E,
				},
			},
			E,
		},
		"meta": pattern.BindAs("meta", map[string]any{"v": pattern.Bind("version", cast.Int)}),
	}

	names, err := pattern.BoundNames(p)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"date":       0,
		"meta":       0,
		"version":    0,
		"station":    1,
		"time":       2,
		"event_type": 2,
	}, names)

	m := pattern.MustCompile(p)
	assert.Equal(t,
		[]string{"date", "event_type", "meta", "station", "time", "version"},
		m.Names(),
	)

	// The returned map is a copy.
	got := m.BoundNames()
	got["date"] = 9
	assert.Equal(t, 0, m.BoundNames()["date"])

	_, err = pattern.BoundNames([]any{E, E, 1})
	require.Error(t, err)
}

func TestBoundNamesMatchDepth(t *testing.T) {
	t.Parallel()

	p := []any{
		pattern.Bind("first"),
		[]any{pattern.Bind("a"), []any{pattern.Bind("b"), E}},
		E,
	}

	m := pattern.MustCompile(p)
	b, err := m.Match([]any{0, []any{1, []any{2, 3}}, []any{4, []any{}}})
	require.NoError(t, err)

	for name, depth := range m.BoundNames() {
		assert.Equal(t, depth, binding.Depth(b[name]), name)
	}
}

func TestConcurrentMatch(t *testing.T) {
	t.Parallel()

	m := pattern.MustCompile([]any{
		pattern.SkipMismatch(map[string]any{"v": pattern.Bind("v", cast.Int)}),
		E,
	})

	var wg sync.WaitGroup

	for i := range 32 {
		wg.Go(func() {
			data := make([]any, 0, i)
			want := binding.Repeating{}

			for j := range i {
				if j%3 == 0 {
					data = append(data, "noise")

					continue
				}

				data = append(data, map[string]any{"v": fmt.Sprint(j)})
				want = append(want, j)
			}

			b, err := m.Match(data)
			if assert.NoError(t, err) {
				assert.Equal(t, binding.Bindings{"v": want}, b)
			}
		})
	}

	wg.Wait()
}

func TestDeterministic(t *testing.T) {
	t.Parallel()

	m := pattern.MustCompile(map[string]any{
		"a": []any{pattern.Bind("x"), E},
		"b": pattern.Bind("y"),
	})

	data := map[string]any{"a": []any{1, 2}, "b": "z"}

	first, err := m.Match(data)
	require.NoError(t, err)

	for range 10 {
		again, err := m.Match(data)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
