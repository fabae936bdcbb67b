package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
)

type Level int

const (
	TRACE Level = iota
	DEBUG
	INFO
	WARN
	ERROR
	NONE
)

var levelNames = [...]string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR", "NONE"}

var levelColors = [...]string{
	"\033[90m", // Grey
	"\033[36m", // Cyan
	"\033[32m", // Green
	"\033[33m", // Yellow
	"\033[31m", // Red
}

const resetColor = "\033[0m"

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.Level(-8)

func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "trace":
		return TRACE
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return NONE
	}
}

func (l Level) String() string { return levelNames[l] }

// Slog maps the level onto slog's scale. NONE lies above every level in use.
func (l Level) Slog() slog.Level {
	switch l {
	case TRACE:
		return LevelTrace
	case DEBUG:
		return slog.LevelDebug
	case INFO:
		return slog.LevelInfo
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	}
	return slog.LevelError + 100
}

func fromSlog(l slog.Level) Level {
	switch {
	case l < slog.LevelDebug:
		return TRACE
	case l < slog.LevelInfo:
		return DEBUG
	case l < slog.LevelWarn:
		return INFO
	case l < slog.LevelError:
		return WARN
	}
	return ERROR
}

// Handler writes records as "[LEVEL] message key=value ..." lines.
type Handler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	color  bool
	time   bool
	prefix string // open groups, dot separated
	attrs  string
}

func NewHandler(out io.Writer, level slog.Leveler, color bool) *Handler {
	return &Handler{mu: &sync.Mutex{}, out: out, level: level, color: color, time: true}
}

// WithoutTime drops the timestamp prefix.
func (h *Handler) WithoutTime() *Handler {
	clone := *h
	clone.time = false
	return &clone
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	if h.time && !r.Time.IsZero() {
		b.WriteString(r.Time.Format("2006/01/02 15:04:05 "))
	}

	level := fromSlog(r.Level)
	tag := level.String()
	if h.color {
		tag = fmt.Sprintf("%s%-5s%s", levelColors[level], tag, resetColor)
	}
	b.WriteString("[" + tag + "] " + r.Message)
	b.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.prefix, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	for _, a := range attrs {
		writeAttr(&b, h.prefix, a)
	}
	clone := *h
	clone.attrs += b.String()
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix += name + "."
	return &clone
}

func writeAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(b, group, ga)
		}
		return
	}

	val := a.Value.String()
	if a.Value.Kind() == slog.KindTime {
		val = a.Value.Time().Format(time.RFC3339)
	}
	if val == "" || strings.ContainsAny(val, " \t\n\"=") {
		val = strconv.Quote(val)
	}
	b.WriteString(" " + prefix + a.Key + "=" + val)
}

// Options select where and how log records are written.
type Options struct {
	Level  string
	File   string
	Format string // "text" or "json"
	Color  bool
}

// Setup builds a logger from opts. When logging to a file, SIGHUP reopens it so the
// file can be rotated externally. The returned closer releases the file.
func Setup(opts Options) (*slog.Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		w, err := openReopenable(opts.File)
		if err != nil {
			return nil, nil, err
		}
		w.listen()
		out, closer = w, w
	}

	level := ParseLevel(opts.Level).Slog()

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	case "", "text":
		handler = NewHandler(out, level, opts.Color && isTerminal(out))
	default:
		return nil, nil, errors.Errorf("unknown log format %q", opts.Format)
	}
	return slog.New(handler), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		fi, err := f.Stat()
		return err == nil && (fi.Mode()&os.ModeCharDevice) != 0
	}
	return false
}

// reopenableFile is an append-only log file that can be swapped for a fresh handle.
type reopenableFile struct {
	mu   sync.Mutex
	path string
	f    *os.File
	sigs chan os.Signal
}

func openReopenable(path string) (*reopenableFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create log directory for '%s'", path)
	}
	w := &reopenableFile{path: path}
	if err := w.Reopen(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *reopenableFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Write(p)
}

// Reopen closes the current handle and opens the path again.
func (w *reopenableFile) Reopen() error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "could not open log file '%s'", w.path)
	}
	w.mu.Lock()
	old := w.f
	w.f = f
	w.mu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

/*
 * listen reopens the file on SIGHUP:
 * mv caml.log caml.bak && kill -HUP <pid>
 */
func (w *reopenableFile) listen() {
	w.sigs = make(chan os.Signal, 1)
	signal.Notify(w.sigs, syscall.SIGHUP)
	go func() {
		for range w.sigs {
			if err := w.Reopen(); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
	}()
}

func (w *reopenableFile) Close() error {
	if w.sigs != nil {
		signal.Stop(w.sigs)
		close(w.sigs)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}
