package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/reshape/cast"
)

// Top-level document keys.
const (
	KeyCasts    = "casts"
	KeyPattern  = "pattern"
	KeyTemplate = "template"
)

// Document is a decoded transform document.
//
// Pattern and Template hold values built with the pattern and template
// packages, ready for compilation.
type Document struct {
	Pattern     any
	Template    any
	Casts       cast.Registry
	HasTemplate bool

	opts options
}

// ParseReader reads and decodes a document from r.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Document, error) {
	source, err := readAll(r)
	if err != nil {
		return nil, err
	}

	return ParseString(ctx, source, opts...)
}

// ParseString decodes a document from source.
//
// Every invalid directive, cast, or key in the document is reported, each
// with its location, in a single error wrapping [ErrInvalidDocument].
func ParseString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Document, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(source)),
	)

	var raw any

	err := yaml.UnmarshalContext(ctx, []byte(source), &raw, yaml.UseOrderedMap())
	if err != nil {
		return nil, ErrDecodeDocument.Wrap(err)
	}

	top, ok := raw.(yaml.MapSlice)
	if !ok {
		return nil, ErrInvalidDocument.With(
			slog.String("reason", "document must be a mapping"),
		)
	}

	d := &decoder{casts: cast.Registry{}}
	for name, c := range o.casts {
		d.casts[name] = c
	}

	doc := &Document{opts: o}

	// Casts must be known before any pattern refers to them.
	for _, item := range top {
		if item.Key == KeyCasts {
			d.defineCasts(KeyCasts, item.Value)
		}
	}

	found := false

	for _, item := range top {
		switch item.Key {
		case KeyCasts:
		case KeyPattern:
			doc.Pattern, found = d.pattern(KeyPattern, item.Value), true
		case KeyTemplate:
			doc.Template, doc.HasTemplate = d.template(KeyTemplate, item.Value), true
		default:
			d.fail("", ErrUnknownKey.With(slog.Any("key", item.Key)))
		}
	}

	if !found {
		d.fail("", ErrMissingPattern)
	}

	doc.Casts = d.casts

	if err := d.errs.ErrorOrNil(); err != nil {
		o.logger.TraceContext(ctx, "parse failed", slog.Int("errors", d.errs.Len()))

		return nil, ErrInvalidDocument.Wrap(err)
	}

	o.logger.TraceContext(
		ctx,
		"parse done",
		slog.Bool("template", doc.HasTemplate),
		slog.Any("casts", d.casts.Names()),
	)

	return doc, nil
}

// readAll reads r through an asynchronous read-ahead buffer.
func readAll(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err)
	}

	return string(data), nil
}
