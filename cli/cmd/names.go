package cmd

import (
	"context"

	"github.com/goccy/go-yaml"
)

// Names prints the names a document's pattern binds, with their repetition
// depth, and the names its template inserts.
type Names struct {
	Document `embed:""`

	Output string `default:"yaml" enum:"json,yaml" help:"Output format (${enum})." short:"o"`
	Indent int    `default:"2" help:"Indentation width; 0 prints compact or flow output."`
}

// Run executes the names command.
func (n *Names) Run(ctx context.Context) error {
	t, err := n.load(ctx)
	if err != nil {
		return err
	}

	out := yaml.MapSlice{{Key: "bound", Value: t.Names()}}

	if t.Template() != nil {
		inserted := t.Inserted()
		if inserted == nil {
			inserted = []string{}
		}

		out = append(out, yaml.MapItem{Key: "inserted", Value: inserted})
	}

	return write(ctx, out, n.Output, n.Indent)
}
