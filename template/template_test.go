package template_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/reshape/binding"
	"github.com/ardnew/reshape/pattern"
	"github.com/ardnew/reshape/template"
)

var E = binding.Ellipsis

type (
	R = binding.Repeating
	B = binding.Bindings
)

func ins(name string) template.Insertion { return template.Insert(name) }

func instantiate(t *testing.T, tpl any, b B) any {
	t.Helper()

	compiled, err := template.Compile(tpl)
	require.NoError(t, err)

	v, err := compiled.Instantiate(b)
	require.NoError(t, err)

	return v
}

func instantiateErr(t *testing.T, tpl any, b B, want error) {
	t.Helper()

	compiled, err := template.Compile(tpl)
	require.NoError(t, err)

	_, err = compiled.Instantiate(b)
	require.ErrorIs(t, err, want)
}

func TestTrivialTemplates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 42, instantiate(t, 42, B{}))
	assert.Equal(t, []any{}, instantiate(t, []any{}, B{}))
	assert.Equal(t, []any{1, 2, 3}, instantiate(t, []any{1, 2, 3}, B{}))
	assert.Equal(t, []any{1, 2}, instantiate(t, []int{1, 2}, B{}))
	assert.Equal(t, map[string]any{"x": "y"}, instantiate(t, map[string]any{"x": "y"}, B{}))
	assert.Equal(t, "s", instantiate(t, "s", B{}))
	assert.Nil(t, instantiate(t, nil, B{}))
}

func TestUnusedBindings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 42, instantiate(t, 42, B{"x": 1}))
}

func TestInsert(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 42, instantiate(t, ins("x"), B{"x": 42}))
	assert.Equal(t, []any{[]any{42}}, instantiate(t, []any{[]any{ins("x")}}, B{"x": 42}))
	assert.Equal(t, map[string]any{"out": 42},
		instantiate(t, map[string]any{"out": ins("x")}, B{"x": 42}))
}

func TestInsertKey(t *testing.T) {
	t.Parallel()

	tpl := template.Map(template.Entry(ins("key"), 0))
	assert.Equal(t, map[string]any{"x": 0}, instantiate(t, tpl, B{"key": "x"}))
	assert.Equal(t, map[any]any{7: 0}, instantiate(t, tpl, B{"key": 7}))

	instantiateErr(t, tpl, B{"key": []any{1}}, template.ErrUnhashableKey)
}

func TestInsertErrors(t *testing.T) {
	t.Parallel()

	instantiateErr(t, ins("x"), B{}, binding.ErrUnboundName)
	instantiateErr(t, ins("x"), B{"x": R{}}, template.ErrStillRepeating)
	instantiateErr(t, []any{[]any{ins("x")}, E}, B{"x": R{R{1}}}, template.ErrStillRepeating)
}

func TestRepeatedElement(t *testing.T) {
	t.Parallel()

	tpl := []any{ins("x"), E}
	assert.Equal(t, []any{}, instantiate(t, tpl, B{"x": R{}}))
	assert.Equal(t, []any{1}, instantiate(t, tpl, B{"x": R{1}}))
	assert.Equal(t, []any{1, 2, 3}, instantiate(t, tpl, B{"x": R{1, 2, 3}}))
}

func TestRepeatedElementWithPrefix(t *testing.T) {
	t.Parallel()

	tpl := []any{"foo", "bar", ins("x"), E}
	assert.Equal(t, []any{"foo", "bar"}, instantiate(t, tpl, B{"x": R{}}))
	assert.Equal(t, []any{"foo", "bar", 1}, instantiate(t, tpl, B{"x": R{1}}))
	assert.Equal(t, []any{"foo", "bar", 1, 2, 3}, instantiate(t, tpl, B{"x": R{1, 2, 3}}))
}

func TestRepeatedMappings(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		map[string]any{"result": []any{1}},
		instantiate(t, map[string]any{"result": []any{ins("x"), E}}, B{"x": R{1}}),
	)

	assert.Equal(t,
		[]any{map[string]any{"r": 1}, map[string]any{"r": 2}},
		instantiate(t, []any{map[string]any{"r": ins("x")}, E}, B{"x": R{1, 2}}),
	)

	// Names used only as keys still drive the repetition.
	assert.Equal(t,
		[]any{map[string]any{"a": true}, map[string]any{"b": true}},
		instantiate(t,
			[]any{template.Map(template.Entry(ins("k"), true)), E},
			B{"k": R{"a", "b"}}),
	)
}

func TestNestedRepeatedElements(t *testing.T) {
	t.Parallel()

	tpl := []any{[]any{0, ins("x")}, E}
	assert.Equal(t, []any{}, instantiate(t, tpl, B{"x": R{}}))
	assert.Equal(t, []any{[]any{0, 1}}, instantiate(t, tpl, B{"x": R{1}}))
	assert.Equal(t, []any{[]any{0, 1}, []any{0, 2}}, instantiate(t, tpl, B{"x": R{1, 2}}))
}

// A template that mirrors its pattern reproduces the matched data.
func TestRoundTrip(t *testing.T) {
	t.Parallel()

	p := map[string]any{
		"a": pattern.Bind("a"),
		"l": []any{
			map[string]any{"k": pattern.Bind("k"), "v": []any{pattern.Bind("v"), E}},
			E,
		},
	}
	tpl := map[string]any{
		"a": ins("a"),
		"l": []any{
			map[string]any{"k": ins("k"), "v": []any{ins("v"), E}},
			E,
		},
	}

	m, err := pattern.Compile(p)
	require.NoError(t, err)

	compiled, err := template.Compile(tpl)
	require.NoError(t, err)

	for _, data := range []map[string]any{
		{
			"a": 1,
			"l": []any{
				map[string]any{"k": "x", "v": []any{1, 2}},
				map[string]any{"k": "y", "v": []any{}},
				map[string]any{"k": "z", "v": []any{3}},
			},
		},
		{"a": "only", "l": []any{}},
	} {
		b, err := m.Match(data)
		require.NoError(t, err)

		got, err := compiled.Instantiate(b)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	}
}

func TestSimpleBroadcasting(t *testing.T) {
	t.Parallel()

	tpl := []any{[]any{ins("x"), ins("y")}, E}
	assert.Equal(t, []any{}, instantiate(t, tpl, B{"x": 0, "y": R{}}))
	assert.Equal(t, []any{[]any{0, 1}}, instantiate(t, tpl, B{"x": 0, "y": R{1}}))
	assert.Equal(t,
		[]any{[]any{0, 1}, []any{0, 2}},
		instantiate(t, tpl, B{"x": 0, "y": R{1, 2}}),
	)
}

func TestMultiLevelBroadcasting(t *testing.T) {
	t.Parallel()

	tpl := []any{[]any{[]any{ins("x"), ins("y"), ins("z")}, E}, E}

	assert.Equal(t, []any{}, instantiate(t, tpl, B{"x": 0, "y": R{}, "z": R{}}))
	assert.Equal(t,
		[]any{[]any{[]any{0, 1, 7}}},
		instantiate(t, tpl, B{"x": 0, "y": R{1}, "z": R{R{7}}}),
	)
	assert.Equal(t,
		[]any{
			[]any{[]any{0, 1, 7}},
			[]any{[]any{0, 2, 8}, []any{0, 2, 9}},
		},
		instantiate(t, tpl, B{"x": 0, "y": R{1, 2}, "z": R{R{7}, R{8, 9}}}),
	)
}

func TestFlatBroadcasting(t *testing.T) {
	t.Parallel()

	tpl := []any{[]any{ins("x"), ins("y"), ins("z")}, E, E}

	assert.Equal(t, []any{}, instantiate(t, tpl, B{"x": 0, "y": R{}, "z": R{}}))
	assert.Equal(t,
		[]any{[]any{0, 1, 7}},
		instantiate(t, tpl, B{"x": 0, "y": R{1}, "z": R{R{7}}}),
	)
	assert.Equal(t,
		[]any{[]any{0, 1, 7}, []any{0, 2, 8}, []any{0, 2, 9}},
		instantiate(t, tpl, B{"x": 0, "y": R{1, 2}, "z": R{R{7}, R{8, 9}}}),
	)
}

func TestFlattenEquivalence(t *testing.T) {
	t.Parallel()

	b := B{"p": "-", "x": R{R{1, 2}, R{3}}}

	flat := instantiate(t, []any{ins("p"), ins("x"), E, E}, b)
	nested := instantiate(t, []any{[]any{ins("p"), ins("x"), E}, E}, b)

	var concat []any
	for _, part := range nested.([]any) {
		concat = append(concat, part.([]any)...)
	}

	assert.Equal(t, concat, flat)
	assert.Equal(t, []any{"-", 1, 2, "-", 3}, flat)
}

func TestDeepFlatBroadcasting(t *testing.T) {
	t.Parallel()

	tpl := []any{[]any{ins("x"), ins("y"), ins("z")}, E, E, E, E}

	b := B{
		"x": R{1, 2},
		"y": R{R{3}, R{4}},
		"z": R{
			R{R{R{5, 6}, R{7, 8}}},
			R{R{R{9, 0}, R{9, 0}}},
		},
	}

	assert.Equal(t, []any{
		[]any{1, 3, 5},
		[]any{1, 3, 6},
		[]any{1, 3, 7},
		[]any{1, 3, 8},
		[]any{2, 4, 9},
		[]any{2, 4, 0},
		[]any{2, 4, 9},
		[]any{2, 4, 0},
	}, instantiate(t, tpl, b))
}

func TestRepeatLengthMismatch(t *testing.T) {
	t.Parallel()

	tpl := []any{[]any{ins("x"), ins("y")}, E}
	instantiateErr(t, tpl, B{"x": R{1, 2, 3}, "y": R{1, 2}}, template.ErrRepeatLength)
}

func TestNoRepetition(t *testing.T) {
	t.Parallel()

	instantiateErr(t, []any{ins("x"), E}, B{"x": 1}, template.ErrNoRepetition)
	instantiateErr(t, []any{"const", E}, B{}, template.ErrNoRepetition)
	instantiateErr(t, []any{ins("x"), E}, B{}, binding.ErrUnboundName)
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template any
		want     error
	}{
		{"bare list ellipsis", []any{E}, template.ErrEllipsisWithoutItem},
		{"only ellipses", []any{E, E}, template.ErrEllipsisWithoutItem},
		{"leading ellipsis", []any{E, 0}, binding.ErrEllipsisNotLast},
		{"leading ellipsis pair", []any{E, 0, 1}, binding.ErrEllipsisNotLast},
		{"inner ellipsis", []any{0, 1, E, 2, 3}, binding.ErrEllipsisNotLast},
		{"bare ellipsis", E, template.ErrInvalidTemplate},
		{"empty insert", ins(""), template.ErrInvalidTemplate},
		{"nested", map[string]any{"k": []any{E}}, template.ErrEllipsisWithoutItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := template.Compile(tt.template)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestInstantiateAt(t *testing.T) {
	t.Parallel()

	tpl := template.MustCompile([]any{ins("x"), ins("y")})

	got, err := tpl.InstantiateAt(B{"x": R{R{1, 2}, R{3}}, "y": "c"}, []int{1, 0})
	require.NoError(t, err)
	assert.Equal(t, []any{3, "c"}, got)

	_, err = tpl.InstantiateAt(B{"x": R{1}, "y": 0}, []int{4})
	require.ErrorIs(t, err, binding.ErrCoordinateRange)
}

func TestNames(t *testing.T) {
	t.Parallel()

	tpl := template.MustCompile(map[string]any{
		"rows": []any{[]any{ins("b"), ins("a")}, E},
		"key":  template.Map(template.Entry(ins("k"), ins("a"))),
		"raw":  template.Literal(ins("hidden")),
	})

	assert.Equal(t, []string{"a", "b", "k"}, tpl.Names())
}

func TestLiteral(t *testing.T) {
	t.Parallel()

	assert.Equal(t, E, instantiate(t, template.Literal(E), B{}))
	assert.Equal(t, ins("x"), instantiate(t, template.Literal(ins("x")), B{}))
}

func TestConcurrentInstantiate(t *testing.T) {
	t.Parallel()

	tpl := template.MustCompile([]any{[]any{ins("k"), ins("v")}, E})

	var wg sync.WaitGroup

	for i := range 32 {
		wg.Go(func() {
			vs := make(R, i)
			want := make([]any, i)

			for j := range i {
				vs[j] = j * i
				want[j] = []any{i, j * i}
			}

			got, err := tpl.Instantiate(B{"k": i, "v": vs})
			if assert.NoError(t, err) {
				assert.Equal(t, want, got)
			}
		})
	}

	wg.Wait()
}
