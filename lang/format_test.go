package lang

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/reshape/binding"
)

func TestPlain(t *testing.T) {
	v := Plain(yaml.MapSlice{
		{Key: "a", Value: binding.Repeating{1, 2}},
		{Key: "b", Value: yaml.MapSlice{{Key: 1, Value: binding.Ellipsis}}},
	})

	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected map[string]any, got %T", v)
	}

	if _, ok := m["a"].([]any); !ok {
		t.Errorf("expected []any, got %T", m["a"])
	}

	inner, ok := m["b"].(map[any]any)
	if !ok {
		t.Fatalf("expected map[any]any, got %T", m["b"])
	}

	if inner[1] != "..." {
		t.Errorf("expected marker string, got %v", inner[1])
	}
}

func TestFormat(t *testing.T) {
	v := map[string]any{
		"name": "web",
		"tags": binding.Repeating{"a", "b"},
		"ids":  map[any]any{1: true},
	}

	tests := []struct {
		format string
		indent int
		want   string
	}{
		{OutputJSON, 0, `{"ids":{"1":true},"name":"web","tags":["a","b"]}` + "\n"},
		{"JSON", 2, "{\n  \"ids\": {\n    \"1\": true\n  },\n  \"name\": \"web\",\n  \"tags\": [\n    \"a\",\n    \"b\"\n  ]\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Format(context.Background(), &buf, v, tt.format, tt.indent); err != nil {
				t.Fatalf("Format failed: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatYAML(t *testing.T) {
	ctx := context.Background()
	v := map[string]any{"tags": binding.Repeating{"a", "b"}}

	for _, indent := range []int{0, 2, 4} {
		var buf bytes.Buffer
		if err := FormatYAML(ctx, &buf, v, indent); err != nil {
			t.Fatalf("FormatYAML failed: %v", err)
		}

		out := buf.String()
		if !strings.HasSuffix(out, "\n") {
			t.Errorf("indent %d: expected trailing newline in %q", indent, out)
		}

		back, err := DecodeDataString(ctx, out)
		if err != nil {
			t.Fatalf("indent %d: cannot decode %q: %v", indent, out, err)
		}

		m, _ := back.(map[string]any)
		if tags, _ := m["tags"].([]any); len(tags) != 2 {
			t.Errorf("indent %d: round trip lost tags: %q", indent, out)
		}
	}
}

func TestFormatInvalid(t *testing.T) {
	var buf bytes.Buffer

	err := Format(context.Background(), &buf, 1, "toml", 0)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
