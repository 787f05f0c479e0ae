package cmd

import (
	"context"
	"log/slog"

	"github.com/davecgh/go-spew/spew"

	"github.com/ardnew/reshape/log"
)

// OutputGo selects a Go-syntax dump of the bindings.
const OutputGo = "go"

// dumper renders bindings with their Go types, which shows how repeated
// captures nest.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Match matches data against a document's pattern and prints the bindings.
type Match struct {
	Document `embed:""`
	Input    `embed:""`

	Output string `default:"json" enum:"json,yaml,go" help:"Output format (${enum})." short:"o"`
	Indent int    `default:"2" help:"Indentation width; 0 prints compact or flow output."`
}

// Run executes the match command.
func (m *Match) Run(ctx context.Context) error {
	t, err := m.load(ctx)
	if err != nil {
		return err
	}

	data, err := m.read(ctx)
	if err != nil {
		return err
	}

	b, err := t.Match(ctx, data)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "matched", slog.Int("bindings", len(b)))

	if m.Output == OutputGo {
		dumper.Fdump(stdout(ctx), b)

		return nil
	}

	return write(ctx, b, m.Output, m.Indent)
}
