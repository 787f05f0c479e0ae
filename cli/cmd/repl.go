package cmd

import (
	"context"
	"path/filepath"

	"github.com/ardnew/reshape/cli/cmd/repl"
	"github.com/ardnew/reshape/log"
)

// Repl starts an interactive session for a document.
type Repl struct {
	Document `embed:""`

	NoHistory bool `help:"Do not read or record input history."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	t, err := r.load(ctx)
	if err != nil {
		return err
	}

	var history *repl.History

	if ktx := kongContextFrom(ctx); ktx != nil && !r.NoHistory {
		if dir := ktx.Model.Vars()[CacheIdentifier]; dir != "" {
			history = repl.NewHistory(filepath.Join(dir, repl.HistoryFile))
		}
	}

	return repl.Run(ctx, t, history, log.Default())
}
