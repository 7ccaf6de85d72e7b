package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
)

// New returns the process handler: JSON lines when format is "json", the colored console format otherwise.
func New(w io.Writer, level slog.Level, format string, addSource bool) slog.Handler {
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, AddSource: addSource})
	}
	return NewHandler(w, level)
}

// CustomHandler prints one colored line per record, tagged with the record's "type" attribute.
type CustomHandler struct {
	out    io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	attrs  []slog.Attr
	groups []string
}

func NewHandler(w io.Writer, level slog.Leveler) *CustomHandler {
	if w == nil {
		w = os.Stdout
	}
	return &CustomHandler{
		out:   w,
		mu:    &sync.Mutex{},
		level: level,
	}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &c
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.groups = append(append([]string{}, h.groups...), name)
	return &c
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(r.Message) {
		return nil
	}

	levelColor, levelText := levelStyle(r.Level)
	fields := collect(h.attrs, r)

	message := r.Message
	if r.Level >= slog.LevelError && fields.err != "" {
		message = fmt.Sprintf("%s: %s", message, fields.err)
	}
	if fields.command != "" && fields.user != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, fields.command, fields.user)
	}
	if fields.status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, fields.status)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s[ASAE] [%s] [%s%s%s] [%s] %s",
		colorWhite,
		r.Time.Format(time.TimeOnly),
		levelColor,
		levelText,
		colorWhite,
		fields.logType,
		message,
	)
	for _, a := range fields.rest {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	b.WriteString(colorReset)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return colorRed, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN"
	case level >= slog.LevelInfo:
		return colorGreen, "INFO"
	default:
		return colorPurple, "DEBUG"
	}
}

type recordFields struct {
	logType LogType
	command string
	user    string
	status  string
	err     string
	rest    []slog.Attr
}

func collect(handlerAttrs []slog.Attr, r slog.Record) recordFields {
	f := recordFields{logType: TypeSystem}
	visit := func(a slog.Attr) bool {
		switch a.Key {
		case "type":
			switch a.Value.String() {
			case "cmd":
				f.logType = TypeCommand
			case "db":
				f.logType = TypeDB
			case "error":
				f.logType = TypeError
			}
		case "name":
			f.command = a.Value.String()
		case "user_name":
			f.user = a.Value.String()
		case "status":
			f.status = a.Value.String()
		case "error":
			f.err = a.Value.String()
		default:
			f.rest = append(f.rest, a)
		}
		return true
	}
	for _, a := range handlerAttrs {
		visit(a)
	}
	r.Attrs(visit)
	return f
}

// skippedMessages are chatty disgo internals.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"locking gateway rate limiter",
	"unlocking gateway rate limiter",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

func shouldSkipLog(message string) bool {
	lower := strings.ToLower(message)
	for _, skip := range skippedMessages {
		if strings.Contains(lower, skip) {
			return true
		}
	}
	return false
}
