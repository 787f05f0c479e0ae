package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/reshape/cast"
	"github.com/ardnew/reshape/pkg"
)

// transforms stores compiled transforms keyed by source and option hash.
//
//nolint:gochecknoglobals
var transforms sync.Map

// state tracks the single compilation of one source.
type state struct {
	once      sync.Once
	transform *Transform
	err       error
	canceled  bool // err came from a done context, not from the source
}

// hashOptions encodes the options that affect compilation using gob and
// hashes them with xxh3. It reports false if the options cannot be hashed,
// which is the case for casts not defined by an expression.
func hashOptions(o options) (uint64, bool) {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	for _, name := range pkg.SortedKeys(o.casts) {
		p, ok := o.casts[name].(*cast.Program)
		if !ok {
			return 0, false
		}

		if enc.Encode(name) != nil || enc.Encode(p.Source()) != nil {
			return 0, false
		}
	}

	return xxh3.Hash(buf.Bytes()), true
}

// Load reads, parses, and compiles a document from r.
//
// Compiled transforms are cached by the hash of their source and options, so
// loading the same document again, from any goroutine, compiles it once.
func Load(ctx context.Context, r io.Reader, opts ...Option) (*Transform, error) {
	source, err := readAll(r)
	if err != nil {
		return nil, err
	}

	return LoadString(ctx, source, opts...)
}

// LoadString parses and compiles a document from source. See [Load].
func LoadString(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Transform, error) {
	o := makeOptions(opts...)

	optsHash, ok := hashOptions(o)
	if !o.cache || !ok {
		o.logger.TraceContext(
			ctx,
			"cache bypass",
			slog.Bool("cache", o.cache),
			slog.Bool("hashable", ok),
		)

		return compileSource(ctx, source, opts...)
	}

	sourceHash := xxh3.HashString(source)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := transforms.LoadOrStore(key, new(state))
	entry, _ := value.(*state)

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.transform, entry.err = compileSource(ctx, source, opts...)
		entry.canceled = entry.err != nil && context.Cause(ctx) != nil
	})

	if entry.err != nil {
		if !entry.canceled {
			return nil, entry.err
		}

		transforms.CompareAndDelete(key, entry)

		if context.Cause(ctx) != nil {
			return nil, entry.err
		}

		return LoadString(ctx, source, opts...)
	}

	return entry.transform.withLogger(o.logger), nil
}

func compileSource(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Transform, error) {
	if err := context.Cause(ctx); err != nil {
		return nil, err
	}

	doc, err := ParseString(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	return doc.Compile(ctx)
}

// ClearCache removes all cached transforms.
func ClearCache() {
	transforms.Clear()
}
