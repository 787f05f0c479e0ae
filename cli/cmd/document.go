package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/reshape/cast"
	"github.com/ardnew/reshape/lang"
	"github.com/ardnew/reshape/log"
	"github.com/ardnew/reshape/pkg"
)

// Document selects the transform document of a command.
type Document struct {
	Source  string            `help:"Transform document (YAML or JSON)." placeholder:"FILE" required:"" short:"s" type:"existingfile"`
	Casts   map[string]string `help:"Define a cast available to the document." name:"cast" placeholder:"NAME=EXPR"`
	NoCache bool              `help:"Compile the document even if it is cached."`
}

// registry compiles the casts given on the command line.
func (d *Document) registry() (cast.Registry, error) {
	r := cast.Registry{}

	for _, name := range pkg.SortedKeys(d.Casts) {
		if err := r.Define(name, d.Casts[name]); err != nil {
			return nil, ErrDefineCast.Wrap(err).With(slog.String("cast", name))
		}
	}

	return r, nil
}

// load reads and compiles the document.
func (d *Document) load(ctx context.Context) (*lang.Transform, error) {
	r, err := d.registry()
	if err != nil {
		return nil, err
	}

	f, err := open(d.Source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := lang.Load(
		ctx,
		f,
		lang.WithLogger(log.Default()),
		lang.WithCasts(r),
		lang.WithCache(!d.NoCache),
	)
	if err != nil {
		return nil, ErrLoadDocument.Wrap(err).With(slog.String("file", d.Source))
	}

	log.DebugContext(ctx, "document loaded",
		slog.String("file", d.Source),
		slog.Any("casts", r.Names()),
	)

	return t, nil
}

// Input selects the data a command matches.
type Input struct {
	Data string `arg:"" default:"-" help:"Data file (YAML or JSON), or '-' for standard input." optional:""`
}

func (in *Input) read(ctx context.Context) (any, error) {
	f, err := open(in.Data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := lang.DecodeData(ctx, f)
	if err != nil {
		return nil, ErrReadData.Wrap(err).With(slog.String("file", in.Data))
	}

	return v, nil
}

// write formats v to the command's standard output.
func write(ctx context.Context, v any, format string, indent int) error {
	err := lang.Format(ctx, stdout(ctx), v, format, indent)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("format", format))
	}

	return nil
}
