package cast_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/reshape/cast"
)

func TestBuiltins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		caster cast.Caster
		in     any
		want   any
	}{
		{cast.Int, "42", 42},
		{cast.Int, 42, 42},
		{cast.Int, 3.9, 3},
		{cast.Float, "1.5", 1.5},
		{cast.Float, 2, 2.0},
		{cast.String, 12, "12"},
		{cast.String, "x", "x"},
		{cast.Bool, "true", true},
		{cast.Bool, " false ", false},
		{cast.Bool, true, true},
		{cast.Bool, 0, false},
		{cast.Int, uint64(7), 7},
		{cast.Int, int64(-2), -2},
		{cast.Float, uint64(3), 3.0},
		{cast.Bool, uint64(1), true},
		{cast.Bool, int64(0), false},
		{cast.Bool, uint8(0), false},
		{cast.Bool, float32(0.5), true},
	}

	for _, tt := range tests {
		got, err := tt.caster.Cast(tt.in)
		require.NoError(t, err, "%s(%v)", tt.caster, tt.in)
		assert.Equal(t, tt.want, got, "%s(%v)", tt.caster, tt.in)
	}
}

func TestBuiltinFailures(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		caster cast.Caster
		in     any
	}{
		{cast.Int, "abc"},
		{cast.Float, "x1"},
		{cast.Bool, "maybe"},
		{cast.Bool, []any{}},
	} {
		_, err := tt.caster.Cast(tt.in)
		require.ErrorIs(t, err, cast.ErrConvert, "%s(%v)", tt.caster, tt.in)
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	ms, err := cast.New("ms", "int(value) * 1000")
	require.NoError(t, err)
	assert.Equal(t, "ms", ms.String())
	assert.Equal(t, "int(value) * 1000", ms.Source())

	got, err := ms.Cast("3")
	require.NoError(t, err)
	assert.Equal(t, 3000, got)

	got, err = ms.Cast(uint64(2))
	require.NoError(t, err)
	assert.Equal(t, 2000, got)

	_, err = cast.New("bad", "int(")
	require.ErrorIs(t, err, cast.ErrCompile)

	_, err = cast.New("", "value")
	require.ErrorIs(t, err, cast.ErrInvalidName)
}

func TestLookup(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"int", "float", "string", "bool"} {
		c, ok := cast.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, c.String())
	}

	_, ok := cast.Lookup("date")
	assert.False(t, ok)
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := cast.Registry{}
	require.NoError(t, r.Define("upper", "upper(value)"))
	require.ErrorIs(t, r.Define("int", "value"), cast.ErrInvalidName)
	require.ErrorIs(t, r.Define("broken", "(("), cast.ErrCompile)

	c, err := r.Resolve("upper")
	require.NoError(t, err)

	got, err := c.Cast("abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", got)

	c, err = r.Resolve("float")
	require.NoError(t, err)
	assert.Same(t, cast.Float, c)

	_, err = r.Resolve("nope")
	require.ErrorIs(t, err, cast.ErrUnknownCast)

	assert.Equal(t, []string{"bool", "float", "int", "string", "upper"}, r.Names())
}

func TestConcurrentCast(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Go(func() {
			got, err := cast.Int.Cast(i)
			assert.NoError(t, err)
			assert.Equal(t, i, got)
		})
	}

	wg.Wait()
}
