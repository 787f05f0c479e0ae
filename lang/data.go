package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/goccy/go-yaml"
)

// DecodeData reads one YAML or JSON value from r.
func DecodeData(ctx context.Context, r io.Reader) (any, error) {
	source, err := readAll(r)
	if err != nil {
		return nil, err
	}

	return DecodeDataString(ctx, source)
}

// DecodeDataString decodes one YAML or JSON value from source.
func DecodeDataString(ctx context.Context, source string) (any, error) {
	var v any

	err := yaml.UnmarshalContext(ctx, []byte(source), &v)
	if err != nil {
		return nil, ErrDecodeData.Wrap(err).With(
			slog.Int("source_length", len(source)),
		)
	}

	return v, nil
}
