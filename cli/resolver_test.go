package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type resolverCLI struct {
	LogLevel string `default:"info"`
	Verbose  bool

	Run struct {
		Output string            `default:"json"`
		Indent int               `default:"2"`
		Tags   []string          `name:"tags"`
		Cast   map[string]string `name:"cast"`
	} `cmd:""`
}

func parseWithConfig(t *testing.T, content string, args ...string) (*resolverCLI, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), baseConfig)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	var cli resolverCLI

	parser, err := kong.New(&cli,
		kong.Configuration(resolve(context.Background()), path),
	)
	if err != nil {
		return nil, err
	}

	_, err = parser.Parse(append([]string{"run"}, args...))

	return &cli, err
}

func TestResolve(t *testing.T) {
	cli, err := parseWithConfig(t, `
log_level: debug
verbose: true
output: text
run:
  output: yaml
  indent: 4
  tags: [a, b]
  cast:
    ms: int(value) * 1000
    up: upper(value)
`)
	if err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "debug" || !cli.Verbose {
		t.Errorf("top level = (%q, %v), want (debug, true)", cli.LogLevel, cli.Verbose)
	}

	if cli.Run.Output != "yaml" {
		t.Errorf("output = %q, want the command section to win", cli.Run.Output)
	}

	if cli.Run.Indent != 4 {
		t.Errorf("indent = %d, want 4", cli.Run.Indent)
	}

	if !slices.Equal(cli.Run.Tags, []string{"a", "b"}) {
		t.Errorf("tags = %q", cli.Run.Tags)
	}

	if cli.Run.Cast["ms"] != "int(value) * 1000" || cli.Run.Cast["up"] != "upper(value)" {
		t.Errorf("cast = %q", cli.Run.Cast)
	}
}

func TestResolveFlagsOverride(t *testing.T) {
	cli, err := parseWithConfig(t, "log-level: debug\nrun: {indent: 4}\n",
		"--log-level=warn", "--indent=0",
	)
	if err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "warn" || cli.Run.Indent != 0 {
		t.Errorf("got (%q, %d), want (warn, 0)", cli.LogLevel, cli.Run.Indent)
	}
}

func TestResolveEmpty(t *testing.T) {
	cli, err := parseWithConfig(t, "\n  \n")
	if err != nil {
		t.Fatal(err)
	}

	if cli.LogLevel != "info" || cli.Run.Output != "json" {
		t.Errorf("defaults = (%q, %q)", cli.LogLevel, cli.Run.Output)
	}
}

func TestResolveInvalid(t *testing.T) {
	_, err := resolve(context.Background())(strings.NewReader("a: [1, 2"))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("error = %v, want %v", err, ErrConfig)
	}

	_, err = resolve(context.Background())(errorReader{})
	if !errors.Is(err, ErrConfig) {
		t.Errorf("read error = %v, want %v", err, ErrConfig)
	}
}

func TestFlagValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "x", "x"},
		{"bool", true, true},
		{"uint", uint64(7), "7"},
		{"int", int64(-3), "-3"},
		{"float", 1.5, "1.5"},
		{"list", []any{"a", uint64(2)}, "a,2"},
		{"map", map[string]any{"b": "2", "a": true}, "a=true;b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := flagValue(tt.in); got != tt.want {
				t.Errorf("flagValue(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

type errorReader struct{}

func (errorReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }
