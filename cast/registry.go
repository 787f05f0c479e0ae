package cast

import (
	"log/slog"

	"github.com/ardnew/reshape/pkg"
)

// Registry maps names to user-defined casts. Built-in casts are always
// visible and cannot be replaced.
type Registry map[string]Caster

// Define compiles source and registers it under name.
func (r Registry) Define(name, source string) error {
	if _, ok := Lookup(name); ok {
		return ErrInvalidName.With(
			slog.String("cast", name),
			slog.String("reason", "shadows a built-in cast"),
		)
	}

	p, err := New(name, source)
	if err != nil {
		return err
	}

	r[name] = p

	return nil
}

// Resolve returns the cast registered under name, falling back to the
// built-in casts.
func (r Registry) Resolve(name string) (Caster, error) {
	if c, ok := Lookup(name); ok {
		return c, nil
	}

	if c, ok := r[name]; ok {
		return c, nil
	}

	return nil, ErrUnknownCast.With(
		slog.String("cast", name),
		slog.Any("known", r.Names()),
	)
}

// Names returns the names of every resolvable cast in ascending order.
func (r Registry) Names() []string {
	all := map[string]struct{}{
		Int.name: {}, Float.name: {}, String.name: {}, Bool.name: {},
	}
	for name := range r {
		all[name] = struct{}{}
	}

	return pkg.SortedKeys(all)
}
