package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns ctx carrying ktx.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// stdout returns the writer for command output.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// stdinPath is the path that selects standard input.
const stdinPath = "-"

// open opens path for reading, or returns standard input for "-".
func open(path string) (io.ReadCloser, error) {
	if path == stdinPath || path == "" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrOpenFile.Wrap(err).With(slog.String("file", path))
	}

	return f, nil
}

// unique returns paths with duplicates removed. Two paths are duplicates if
// they name the same file, through symlinks or relative forms. Paths that
// cannot be inspected are kept so that opening them reports the error.
func unique(paths []string) []string {
	var (
		out  []string
		seen []os.FileInfo
	)

next:
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			out = append(out, path)

			continue
		}

		for _, s := range seen {
			if os.SameFile(s, info) {
				continue next
			}
		}

		seen = append(seen, info)
		out = append(out, path)
	}

	return out
}
