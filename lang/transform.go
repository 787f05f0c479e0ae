package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/reshape/binding"
	"github.com/ardnew/reshape/log"
	"github.com/ardnew/reshape/pattern"
	"github.com/ardnew/reshape/template"
)

// Transform is a compiled document: a matcher and, optionally, a template.
// It holds no mutable state and may be used concurrently.
type Transform struct {
	matcher  *pattern.Matcher
	template *template.Template
	logger   log.Logger
}

// Compile compiles the document's pattern and template.
func (doc *Document) Compile(ctx context.Context) (*Transform, error) {
	logger := doc.opts.logger

	m, err := pattern.Compile(doc.Pattern, pattern.WithLogger(logger))
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(slog.String("section", KeyPattern))
	}

	t := &Transform{matcher: m, logger: logger}

	if doc.HasTemplate {
		t.template, err = template.Compile(doc.Template, template.WithLogger(logger))
		if err != nil {
			return nil, ErrCompile.Wrap(err).With(slog.String("section", KeyTemplate))
		}
	}

	logger.TraceContext(
		ctx,
		"compiled transform",
		slog.Any("bound", m.Names()),
		slog.Bool("template", t.template != nil),
	)

	return t, nil
}

// Matcher returns the compiled pattern.
func (t *Transform) Matcher() *pattern.Matcher { return t.matcher }

// Template returns the compiled template, or nil if the document has none.
func (t *Transform) Template() *template.Template { return t.template }

// Names returns the repetition depth of every name the pattern binds.
func (t *Transform) Names() map[string]int { return t.matcher.BoundNames() }

// Inserted returns the names the template inserts, in ascending order.
func (t *Transform) Inserted() []string {
	if t.template == nil {
		return nil
	}

	return t.template.Names()
}

// Match matches data against the pattern.
func (t *Transform) Match(ctx context.Context, data any) (binding.Bindings, error) {
	if err := context.Cause(ctx); err != nil {
		return nil, err
	}

	b, err := t.matcher.Match(data)
	if err != nil {
		t.logger.TraceContext(ctx, "match failed", slog.Any("error", err))

		return nil, ErrMatch.Wrap(err)
	}

	t.logger.TraceContext(ctx, "matched", slog.Int("bindings", len(b)))

	return b, nil
}

// Instantiate builds the template's output from b.
func (t *Transform) Instantiate(
	ctx context.Context,
	b binding.Bindings,
) (any, error) {
	if t.template == nil {
		return nil, ErrNoTemplate
	}

	if err := context.Cause(ctx); err != nil {
		return nil, err
	}

	v, err := t.template.Instantiate(b)
	if err != nil {
		return nil, ErrInstantiate.Wrap(err)
	}

	return v, nil
}

// Apply matches data and instantiates the template from the bindings.
func (t *Transform) Apply(ctx context.Context, data any) (any, error) {
	if t.template == nil {
		return nil, ErrNoTemplate
	}

	b, err := t.Match(ctx, data)
	if err != nil {
		return nil, err
	}

	return t.Instantiate(ctx, b)
}

// withLogger returns a copy of t that logs to logger.
func (t *Transform) withLogger(logger log.Logger) *Transform {
	c := *t
	c.logger = logger

	return &c
}
