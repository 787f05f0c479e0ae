// Package cast converts captured values to a requested type.
//
// A [Caster] is attached to a typed capture or a type-check pattern. Each
// conversion is an expr-lang program evaluated with the captured value bound
// to the variable "value", so built-in and user-defined casts share one
// mechanism.
package cast

import (
	"log/slog"
	"reflect"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/reshape/pkg"
)

// Predefined errors (sentinel values).
var (
	ErrCompile     = pkg.NewError("cast compilation failed")
	ErrConvert     = pkg.NewError("cast failed")
	ErrUnknownCast = pkg.NewError("unknown cast")
	ErrInvalidName = pkg.NewError("invalid cast name")
)

// Variable is the name under which the input is visible to a cast program.
const Variable = "value"

// Caster converts a value, returning an error if it cannot.
type Caster interface {
	Cast(v any) (any, error)
	String() string
}

// Program is a Caster backed by a compiled expr-lang program.
type Program struct {
	name    string
	source  string
	program *vm.Program
}

// env is the environment a cast program runs in.
type env struct {
	Value any `expr:"value"`
}

// options returns the expr-lang compile options shared by every cast.
func options() []expr.Option {
	return []expr.Option{
		expr.Env(env{}),
		expr.Function("parseBool", parseBool),
	}
}

// parseBool converts strings by strconv rules and numbers by comparison with
// zero.
func parseBool(params ...any) (any, error) {
	if len(params) != 1 {
		return nil, ErrConvert.With(
			slog.String("to", "bool"),
			slog.Int("args", len(params)),
		)
	}

	switch v := params[0].(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	}

	rv := reflect.ValueOf(params[0])

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	default:
		return nil, ErrConvert.With(
			slog.String("to", "bool"),
			slog.Any("value", params[0]),
		)
	}
}

// New compiles source into a named Caster.
//
// The source is an expr-lang expression over the variable "value", for
// example "int(value) * 1000" or "trim(value)".
func New(name, source string) (*Program, error) {
	if name == "" {
		return nil, ErrInvalidName.With(slog.String("source", source))
	}

	program, err := expr.Compile(source, options()...)
	if err != nil {
		return nil, ErrCompile.Wrap(err).With(
			slog.String("cast", name),
			slog.String("source", source),
		)
	}

	return &Program{name: name, source: source, program: program}, nil
}

// Must is like [New] but panics on error.
func Must(name, source string) *Program {
	p, err := New(name, source)
	if err != nil {
		panic(err)
	}

	return p
}

// Cast evaluates the program with v bound to "value".
//
// Programs are immutable after compilation; each call runs on its own VM, so
// a Program is safe for concurrent use.
func (p *Program) Cast(v any) (any, error) {
	out, err := expr.Run(p.program, env{Value: v})
	if err != nil {
		return nil, ErrConvert.Wrap(err).With(
			slog.String("cast", p.name),
			slog.Any("value", v),
		)
	}

	return out, nil
}

// String returns the cast name.
func (p *Program) String() string { return p.name }

// Source returns the expression the program was compiled from.
func (p *Program) Source() string { return p.source }

// Built-in casts.
//
//nolint:gochecknoglobals
var (
	Int    = Must("int", "int(value)")
	Float  = Must("float", "float(value)")
	String = Must("string", "string(value)")
	Bool   = Must("bool", "parseBool(value)")
)

// Lookup returns the built-in Caster with the given name.
func Lookup(name string) (Caster, bool) {
	switch name {
	case Int.name:
		return Int, true
	case Float.name:
		return Float, true
	case String.name:
		return String, true
	case Bool.name:
		return Bool, true
	default:
		return nil, false
	}
}
