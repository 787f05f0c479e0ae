package pattern_test

import (
	"errors"
	"fmt"

	"github.com/ardnew/reshape/binding"
	"github.com/ardnew/reshape/cast"
	"github.com/ardnew/reshape/pattern"
)

func ExampleCompile() {
	m, err := pattern.Compile(map[string]any{
		"station": pattern.Bind("station", cast.Int),
		"events":  []any{pattern.Bind("event"), binding.Ellipsis},
	})
	if err != nil {
		panic(err)
	}

	b, err := m.Match(map[string]any{
		"station": "7",
		"events":  []any{"ON", "OFF"},
	})
	if err != nil {
		panic(err)
	}

	fmt.Println(b["station"], b["event"])
	// Output: 7 [ON OFF]
}

func ExampleMismatch() {
	m := pattern.MustCompile([]any{"header", pattern.Bind("row"), binding.Ellipsis})

	_, err := m.Match([]any{"footer", 1, 2})

	var mm *pattern.Mismatch
	if errors.As(err, &mm) {
		fmt.Println(mm.Kind, mm.Path)
	}

	fmt.Println(errors.Is(err, pattern.ErrLiteralMismatch))
	// Output:
	// literal [0]
	// true
}

func ExampleSkipMissingKeys() {
	m := pattern.MustCompile([]any{
		pattern.SkipMissingKeys(
			[]any{"name"},
			map[string]any{"name": pattern.Bind("name")},
		),
		binding.Ellipsis,
	})

	b, _ := m.Match([]any{
		map[string]any{"name": "a"},
		map[string]any{"id": 2},
		map[string]any{"name": "c"},
	})

	fmt.Println(b["name"])
	// Output: [a c]
}
