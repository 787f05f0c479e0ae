package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of the pretty handler. Styles come from a
// renderer bound to the output, so color is dropped when it is not a
// terminal.
type palette struct {
	key, str, num, yes, no, dur, null lipgloss.Style
	trace, debug, info, warn, err     lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		null:  fg("8"),
		trace: fg("4"),
		debug: fg("4").Bold(true),
		info:  fg("2").Bold(true),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

func (p *palette) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return p.str.Render(v.String())
	case slog.KindInt64:
		return p.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return p.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return p.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return p.yes.Render("true")
		}

		return p.no.Render("false")
	case slog.KindDuration:
		return p.dur.Render(v.Duration().String())
	case slog.KindTime:
		return p.str.Render(v.Time().Format(time.RFC3339))
	default:
		if v.Any() == nil {
			return p.null.Render("null")
		}

		return p.str.Render(fmt.Sprint(v.Any()))
	}
}

// prettyHandler writes colored records for human readers. Text records are
// one key=value line; JSON-style records put one field per indented line.
// Attributes of groups are flattened into dotted keys.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	style  *palette
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	prefix string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		style:  newPalette(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(
		h.attrs[:len(h.attrs):len(h.attrs)],
		h.flatten(h.prefix, attrs)...,
	)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// flatten resolves attrs and expands groups into dotted keys.
func (h *prettyHandler) flatten(prefix string, attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		switch {
		case a.Equal(slog.Attr{}):
		case a.Value.Kind() == slog.KindGroup:
			sub := prefix
			if a.Key != "" {
				sub += a.Key + "."
			}

			out = append(out, h.flatten(sub, a.Value.Group())...)
		default:
			a.Key = prefix + a.Key
			out = append(out, a)
		}
	}

	return out
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]string, 0, 4+len(h.attrs)+r.NumAttrs())
	field := func(key, value string) {
		fields = append(fields, h.style.key.Render(key)+h.separator()+value)
	}

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); !a.Equal(slog.Attr{}) {
			field(a.Key, h.style.value(a.Value))
		}
	}

	level := h.replace(slog.Any(slog.LevelKey, r.Level))
	field(level.Key, h.style.level(r.Level).Render(level.Value.String()))

	if h.opts.AddSource {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if r.PC != 0 && frame.File != "" {
			source := fmt.Sprintf("%s:%d", frame.File, frame.Line)
			field(slog.SourceKey, h.style.str.Render(source))
		}
	}

	field(slog.MessageKey, h.style.str.Render(r.Message))

	for _, a := range h.attrs {
		field(a.Key, h.style.value(a.Value))
	}

	var attrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	for _, a := range h.flatten(h.prefix, attrs) {
		field(a.Key, h.style.value(a.Value))
	}

	var buf bytes.Buffer

	if h.format == FormatJSON {
		buf.WriteString("{\n")

		for i, f := range fields {
			buf.WriteString("  ")
			buf.WriteString(f)

			if i < len(fields)-1 {
				buf.WriteByte(',')
			}

			buf.WriteByte('\n')
		}

		buf.WriteString("}\n")
	} else {
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(f)
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) separator() string {
	if h.format == FormatJSON {
		return ": "
	}

	return "="
}
