package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ColorEnabled reports whether ANSI colors should be written to w: w must be
// a terminal and neither NO_COLOR nor TERM=dumb may be set.
func ColorEnabled(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return colorAllowed(ok && term.IsTerminal(int(f.Fd())))
}

func colorAllowed(terminal bool) bool {
	if _, off := os.LookupEnv("NO_COLOR"); off || os.Getenv("TERM") == "dumb" {
		return false
	}
	return terminal
}

// Handler is a compact slog.Handler for terminals:
//
//	3:04PM DEBUG exploded schema=form.json variants=4
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string

	palette *palette
}

type palette struct {
	time, debug, info, warn, err, key *color.Color
}

// NewHandler creates a text handler; colors are used only when out supports
// them.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	h := &Handler{opts: *opts, out: out, mu: &sync.Mutex{}}
	if ColorEnabled(out) {
		h.palette = &palette{
			time:  color.New(color.FgHiBlack),
			debug: color.New(color.FgMagenta),
			info:  color.New(color.FgGreen),
			warn:  color.New(color.FgYellow),
			err:   color.New(color.FgRed, color.Bold),
			key:   color.New(color.FgCyan),
		}
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle writes one line per record.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if !r.Time.IsZero() {
		b.WriteString(h.paint(h.pick(func(p *palette) *color.Color { return p.time }), r.Time.Format(time.Kitchen)))
		b.WriteByte(' ')
	}

	level := r.Level.String()
	switch {
	case r.Level >= slog.LevelError:
		level = h.paint(h.pick(func(p *palette) *color.Color { return p.err }), level)
	case r.Level >= slog.LevelWarn:
		level = h.paint(h.pick(func(p *palette) *color.Color { return p.warn }), level)
	case r.Level >= slog.LevelInfo:
		level = h.paint(h.pick(func(p *palette) *color.Color { return p.info }), level)
	default:
		level = h.paint(h.pick(func(p *palette) *color.Color { return p.debug }), level)
	}
	fmt.Fprintf(&b, "%-5s %s", level, r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&b, "", a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) pick(f func(*palette) *color.Color) *color.Color {
	if h.palette == nil {
		return nil
	}
	return f(h.palette)
}

func (h *Handler) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (h *Handler) appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		p := prefix
		if a.Key != "" {
			p += a.Key + "."
		}
		for _, g := range a.Value.Group() {
			h.appendAttr(b, p, g)
		}
		return
	}
	key := prefix + a.Key
	val := a.Value.String()
	if strings.ContainsAny(val, " \t\n\"=") {
		val = strconv.Quote(val)
	}
	fmt.Fprintf(b, " %s=%s", h.paint(h.pick(func(p *palette) *color.Color { return p.key }), key), val)
}

// WithAttrs returns a new Handler with the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	nh.attrs = append(nh.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		nh.attrs = append(nh.attrs, a)
	}
	return &nh
}

// WithGroup returns a new Handler whose keys are prefixed with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	nh := *h
	nh.prefix = h.prefix + name + "."
	return &nh
}
