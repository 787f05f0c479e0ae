// Package cli contains the command line interface.
//
// # Commands
//
//	reshape [apply] -s DOC [DATA]   instantiate the template from matched data
//	reshape match -s DOC [DATA]     print the bindings of a match
//	reshape names -s DOC            list bound and inserted names
//	reshape check -s DOC...         compile documents
//	reshape repl -s DOC             match data interactively
//	reshape init                    write the configuration file
//
// DATA defaults to standard input. Casts may be added to a document with
// repeated --cast NAME=EXPR flags, where EXPR is an expression over value.
//
// # Configuration
//
// Flags may be set in config.yaml in the user configuration directory. See
// [resolve] for the file layout. Command-line flags take precedence.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (text, json)
//   - --log-time: timestamp layout, or none
//   - --log-caller: include the caller's source location
//   - --log-pretty: colorized output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
// Then --pprof-mode selects a profile and --pprof-dir its output directory
// (default: the pprof directory in the user cache directory).
package cli
