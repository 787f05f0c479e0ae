package cmd

import "github.com/ardnew/reshape/pkg"

// Predefined errors (sentinel values).
var (
	ErrDefineCast   = pkg.NewError("invalid --cast")
	ErrOpenFile     = pkg.NewError("cannot open file")
	ErrLoadDocument = pkg.NewError("cannot load document")
	ErrReadData     = pkg.NewError("cannot read data")
	ErrWriteOutput  = pkg.NewError("cannot write output")
	ErrCheckFailed  = pkg.NewError("check failed")
	ErrWriteConfig  = pkg.NewError("cannot write configuration file")
	ErrFileExists   = pkg.NewError("file exists (use --force to overwrite)")
	ErrNoContext    = pkg.NewError("command context missing")
)
