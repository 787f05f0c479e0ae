package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/reshape/pkg"
)

// ErrConfig is returned when the configuration file is not valid YAML.
var ErrConfig = pkg.NewError("invalid configuration file")

// resolve returns a [kong.ConfigurationLoader] for YAML configuration files.
//
// Top-level keys set flags of the same name. A mapping keyed by a command
// name sets that command's flags and takes precedence over the top level:
//
//	log-level: debug
//	apply:
//	  output: yaml
//	  cast:
//	    ms: int(value) * 1000
//
// Keys may spell hyphens as underscores. Lists become comma-separated values
// and mappings become "key=value" pairs separated by semicolons, which is how
// kong reads slice and map flags. Command-line flags override the file.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, ErrConfig.Wrap(err)
		}

		c := config{}

		if len(bytes.TrimSpace(data)) == 0 {
			return c, nil
		}

		if err := yaml.UnmarshalContext(ctx, data, &c); err != nil {
			return nil, ErrConfig.Wrap(err)
		}

		return c, nil
	}
}

// config implements [kong.Resolver] over a decoded configuration file.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := lookup(c, parent.Command.Name); ok {
			if m, ok := section.(map[string]any); ok {
				if v, ok := lookup(m, flag.Name); ok {
					return flagValue(v), nil
				}
			}
		}
	}

	if v, ok := lookup(c, flag.Name); ok {
		return flagValue(v), nil
	}

	return nil, nil //nolint:nilnil
}

func lookup(m map[string]any, name string) (any, bool) {
	if v, ok := m[name]; ok {
		return v, true
	}

	v, ok := m[strings.ReplaceAll(name, "-", "_")]

	return v, ok
}

// flagValue converts a decoded YAML value into the form kong parses.
func flagValue(v any) any {
	switch v := v.(type) {
	case nil, string, bool:
		return v

	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(flagValue(e))
		}

		return strings.Join(parts, ",")

	case map[string]any:
		parts := make([]string, 0, len(v))
		for _, k := range pkg.SortedKeys(v) {
			parts = append(parts, k+"="+fmt.Sprint(flagValue(v[k])))
		}

		return strings.Join(parts, ";")
	}

	return fmt.Sprint(v)
}
