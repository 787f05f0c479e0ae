// Package log is a small leveled logger over [log/slog].
//
// A [Logger] is configured once with functional options and is immutable
// afterwards; [Logger.Wrap] and [Logger.With] derive new loggers. The zero
// Logger discards everything, which lets library packages accept one as an
// optional setting.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("rfc3339nano"))
//	logger.TraceContext(ctx, "matched", slog.Int("bindings", 3))
//
// [LevelTrace] sits below [LevelDebug] and carries the step-by-step output
// of pattern compilation, matching, and template instantiation.
//
// With [WithPretty], records are colored with lipgloss when the output is a
// terminal, and JSON records are spread over indented lines.
//
// The package-level functions log through a default Logger writing to
// standard error, which [Config] and [SetDefault] replace.
package log
