package repl

import "github.com/ardnew/reshape/pkg"

// Predefined errors (sentinel values).
var (
	ErrOutOfBounds = pkg.NewError("history index out of range")
	ErrNoTransform = pkg.NewError("no transform to run")
	ErrNoBindings  = pkg.NewError("nothing matched yet")
	ErrUnknownName = pkg.NewError("name is not bound")

	ErrUnknownCommand = pkg.NewError("unknown command (try 'help')")
)
