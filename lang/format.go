package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/reshape/binding"
	"github.com/ardnew/reshape/pkg"
)

// Output formats.
const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Formats returns the supported output formats.
func Formats() []string {
	return []string{OutputJSON, OutputYAML}
}

// Plain converts v into values that serialize without loss: ordered YAML
// mappings and mappings with non-string keys become map[string]any when all
// keys are strings and map[any]any otherwise, [binding.Repeating] becomes a
// list, and the repetition marker becomes its string form.
func Plain(v any) any {
	switch v := v.(type) {
	case yaml.MapSlice:
		return plainMap(len(v), func(yield func(k, v any)) {
			for _, item := range v {
				yield(item.Key, item.Value)
			}
		})
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = Plain(e)
		}

		return out
	case binding.Bindings:
		return Plain(map[string]any(v))
	case map[any]any:
		return plainMap(len(v), func(yield func(k, v any)) {
			for k, e := range v {
				yield(k, e)
			}
		})
	case binding.Repeating:
		return Plain([]any(v))
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Plain(e)
		}

		return out
	case binding.Marker:
		return v.String()
	default:
		return v
	}
}

func plainMap(n int, each func(yield func(k, v any))) any {
	strs := make(map[string]any, n)
	anys := make(map[any]any, n)
	allStrings := true

	each(func(k, v any) {
		v = Plain(v)
		anys[k] = v

		if s, ok := k.(string); ok {
			strs[s] = v
		} else {
			allStrings = false
		}
	})

	if allStrings {
		return strs
	}

	return anys
}

// jsonable converts mappings with non-string keys, which encoding/json
// rejects, to string-keyed mappings.
func jsonable(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = jsonable(e)
		}

		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[fmt.Sprint(k)] = jsonable(e)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = jsonable(e)
		}

		return out
	default:
		return v
	}
}

// Format writes v to w in the named format.
func Format(
	ctx context.Context,
	w io.Writer,
	v any,
	format string,
	indent int,
) error {
	switch strings.ToLower(format) {
	case OutputJSON:
		return FormatJSON(ctx, w, v, indent)
	case OutputYAML:
		return FormatYAML(ctx, w, v, indent)
	default:
		return ErrInvalidFormat.With(
			slog.String("format", format),
			slog.Any("valid", Formats()),
		)
	}
}

// FormatJSON writes v as JSON to w.
func FormatJSON(_ context.Context, w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	v = jsonable(Plain(v))

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return pkg.AsError(err).With(slog.String("format", OutputJSON))
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes v as YAML to w. An indent of zero selects flow style.
func FormatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, Plain(v), opts...)
	if err != nil {
		return pkg.AsError(err).With(slog.String("format", OutputYAML))
	}

	if lastByte(data) != '\n' {
		data = append(data, '\n')
	}

	_, err = w.Write(data)

	return err
}

func lastByte(b []byte) byte {
	if len(b) == 0 {
		return 0
	}

	return b[len(b)-1]
}
