package pattern

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/reshape/pkg"
)

// Build errors.
var (
	ErrMultipleEllipsis  = pkg.NewError("pattern list has more than one ellipsis")
	ErrDuplicateName     = pkg.NewError("name is bound more than once")
	ErrSkipOutsideRepeat = pkg.NewError("skip is not inside a repeated element")
	ErrInvalidPattern    = pkg.NewError("invalid pattern")
)

// Mismatch sentinels for errors.Is.
var (
	ErrMismatch        = pkg.NewError("data does not match pattern")
	ErrLiteralMismatch = pkg.NewError("literal mismatch")
	ErrTypeMismatch    = pkg.NewError("type mismatch")
	ErrLengthMismatch  = pkg.NewError("length mismatch")
	ErrKeyMismatch     = pkg.NewError("key mismatch")
	ErrCastMismatch    = pkg.NewError("cast mismatch")
)

// Kind classifies a [Mismatch].
type Kind uint8

// Mismatch kinds.
const (
	KindLiteral Kind = iota + 1 // literal
	KindType                    // type
	KindLength                  // length
	KindKey                     // key
	KindCast                    // cast
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindType:
		return "type"
	case KindLength:
		return "length"
	case KindKey:
		return "key"
	case KindCast:
		return "cast"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() *pkg.Error {
	switch k {
	case KindLiteral:
		return ErrLiteralMismatch
	case KindType:
		return ErrTypeMismatch
	case KindLength:
		return ErrLengthMismatch
	case KindKey:
		return ErrKeyMismatch
	case KindCast:
		return ErrCastMismatch
	default:
		return ErrMismatch
	}
}

// Mismatch describes why data did not match a pattern.
//
// Data is the offending value, or its length for [KindLength]. Expected is
// the literal, the required type name, the required length, the missing key,
// or the cast name, according to Kind. Path locates Data within the matched
// input as a sequence of list indices and mapping keys.
type Mismatch struct {
	Kind     Kind
	Data     any
	Expected any
	Path     []any
	Cause    error
}

func mismatch(kind Kind, data, expected any) *Mismatch {
	return &Mismatch{Kind: kind, Data: data, Expected: expected}
}

// at records that the mismatch occurred under the given index or key.
func (m *Mismatch) at(step any) *Mismatch {
	m.Path = append([]any{step}, m.Path...)

	return m
}

// Error implements the error interface.
func (m *Mismatch) Error() string {
	var sb strings.Builder

	sb.WriteString(m.Kind.sentinel().Error())

	if len(m.Path) > 0 {
		fmt.Fprintf(&sb, " at %v", m.Path)
	}

	switch m.Kind {
	case KindKey:
		fmt.Fprintf(&sb, ": missing key %#v", m.Expected)
	case KindLength:
		fmt.Fprintf(&sb, ": got %v elements, expected %v", m.Data, m.Expected)
	default:
		fmt.Fprintf(&sb, ": got %#v, expected %v", m.Data, m.Expected)
	}

	if m.Cause != nil {
		sb.WriteString(": ")
		sb.WriteString(m.Cause.Error())
	}

	return sb.String()
}

// Is reports whether target is [ErrMismatch] or the sentinel for m.Kind.
func (m *Mismatch) Is(target error) bool {
	return target == ErrMismatch || target == m.Kind.sentinel()
}

// Unwrap returns the cast error of a [KindCast] mismatch.
func (m *Mismatch) Unwrap() error { return m.Cause }

// LogValue implements slog.LogValuer.
func (m *Mismatch) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", m.Kind.sentinel().Error()),
		slog.String("kind", m.Kind.String()),
		slog.Any("data", m.Data),
		slog.Any("expected", m.Expected),
	}

	if len(m.Path) > 0 {
		attrs = append(attrs, slog.Any("path", m.Path))
	}

	if m.Cause != nil {
		attrs = append(attrs, slog.String("cause", m.Cause.Error()))
	}

	return slog.GroupValue(attrs...)
}
