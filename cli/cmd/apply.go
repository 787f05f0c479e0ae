package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/reshape/log"
)

// Apply matches data against a document's pattern and prints the
// instantiated template.
type Apply struct {
	Document `embed:""`
	Input    `embed:""`

	Output string `default:"json" enum:"json,yaml" help:"Output format (${enum})." short:"o"`
	Indent int    `default:"2" help:"Indentation width; 0 prints compact or flow output."`
}

// Run executes the apply command.
func (a *Apply) Run(ctx context.Context) error {
	t, err := a.load(ctx)
	if err != nil {
		return err
	}

	data, err := a.read(ctx)
	if err != nil {
		return err
	}

	out, err := t.Apply(ctx, data)
	if err != nil {
		return err
	}

	log.DebugContext(ctx, "applied", slog.String("file", a.Source))

	return write(ctx, out, a.Output, a.Indent)
}
