package lang

import "github.com/ardnew/reshape/pkg"

// Predefined errors (sentinel values).
var (
	ErrReadInput       = pkg.NewError("failed to read input")
	ErrDecodeDocument  = pkg.NewError("document is not valid YAML")
	ErrInvalidDocument = pkg.NewError("invalid document")
	ErrUnknownKey      = pkg.NewError("unknown key")
	ErrMissingPattern  = pkg.NewError("document has no pattern")
	ErrDirective       = pkg.NewError("invalid directive")
	ErrNoTemplate      = pkg.NewError("document has no template")
	ErrDecodeData      = pkg.NewError("data is not valid YAML")
	ErrCompile         = pkg.NewError("compilation failed")
	ErrMatch           = pkg.NewError("match failed")
	ErrInstantiate     = pkg.NewError("instantiation failed")
	ErrInvalidFormat   = pkg.NewError("invalid format")
)
