package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/ardnew/reshape/log"
)

// Check compiles documents and reports every one that fails.
type Check struct {
	Source []string          `help:"Transform documents to check." placeholder:"FILE" required:"" short:"s"`
	Casts  map[string]string `help:"Define a cast available to the documents." name:"cast" placeholder:"NAME=EXPR"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	var (
		errs  *multierror.Error
		paths = unique(c.Source)
		w     = stdout(ctx)
	)

	for _, path := range paths {
		doc := Document{Source: path, Casts: c.Casts, NoCache: true}

		if _, err := doc.load(ctx); err != nil {
			errs = multierror.Append(errs, err)
			fmt.Fprintf(w, "FAIL %s: %v\n", path, err)

			continue
		}

		fmt.Fprintf(w, "ok   %s\n", path)
	}

	log.DebugContext(ctx, "checked",
		slog.Int("documents", len(paths)),
		slog.Int("failed", len(errs.WrappedErrors())),
	)

	if err := errs.ErrorOrNil(); err != nil {
		return ErrCheckFailed.Wrap(err).With(
			slog.Int("documents", len(paths)),
			slog.Int("failed", len(errs.WrappedErrors())),
		)
	}

	return nil
}
