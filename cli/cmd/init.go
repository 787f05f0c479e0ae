package cmd

import (
	"context"
	"encoding"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/reshape/log"
	"github.com/ardnew/reshape/profile"
)

// configIndent is the indentation of the generated configuration file.
const configIndent = 2

// Init writes a configuration file holding the current global flag values.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrNoContext
	}

	path := ktx.Model.Vars()[ConfigIdentifier]
	if path == "" {
		return ErrWriteConfig.Wrap(ErrNoContext).With(slog.String("var", ConfigIdentifier))
	}

	fail := func(err error) error {
		return ErrWriteConfig.Wrap(err).With(slog.String("file", path))
	}

	if _, err := os.Stat(path); err == nil && !i.Force {
		return fail(ErrFileExists)
	}

	content, err := yaml.MarshalContext(ctx, globalFlags(ctx), yaml.Indent(configIndent))
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fail(err)
	}

	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fail(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("file", path),
	)

	return nil
}

// globalFlags returns the visible global flags with non-empty values, in
// declaration order.
func globalFlags(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)

	ignore := []string{"help", profile.Tag}

	var out yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v, ok := configValue(ktx.FlagValue(flag)); ok {
			out = append(out, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	return out
}

// configValue converts a flag value to something the resolver reads back
// into the same flag. Empty values are omitted.
func configValue(v any) (any, bool) {
	switch v := v.(type) {
	case nil:
		return nil, false

	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v, true

	case string:
		return v, v != ""

	case encoding.TextMarshaler:
		text, err := v.MarshalText()
		if err != nil || len(text) == 0 {
			return nil, false
		}

		return string(text), true

	case fmt.Stringer:
		s := v.String()

		return s, s != ""
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Len() == 0 {
			return nil, false
		}

		list := make([]any, 0, rv.Len())
		for _, e := range rv.Seq2() {
			if c, ok := configValue(e.Interface()); ok {
				list = append(list, c)
			}
		}

		return list, len(list) > 0

	case reflect.Map:
		if rv.Len() == 0 {
			return nil, false
		}

		m := make(map[string]any, rv.Len())
		for k, e := range rv.Seq2() {
			if c, ok := configValue(e.Interface()); ok {
				m[fmt.Sprint(k.Interface())] = c
			}
		}

		return m, len(m) > 0
	}

	return fmt.Sprint(v), true
}
