package logger

import (
	"log/slog"
	"time"
)

// CommandRun is the outcome of one slash command invocation. Runs that took longer than Slow are
// reported as slow; a zero Slow disables the check.
type CommandRun struct {
	Name     string
	UserID   string
	UserName string
	Took     time.Duration
	Slow     time.Duration
	TimedOut bool
	Err      error
}

func (r CommandRun) status() string {
	switch {
	case r.TimedOut:
		return "timeout"
	case r.Err != nil:
		return "failed"
	case r.Slow > 0 && r.Took > r.Slow:
		return "slow"
	default:
		return "success"
	}
}

// LogCommand writes the outcome of a command with the status tag the console handler renders.
func LogCommand(run CommandRun) {
	status := run.status()
	attrs := []any{
		slog.String("type", "cmd"),
		slog.String("name", run.Name),
		slog.String("user_id", run.UserID),
		slog.String("user_name", run.UserName),
		slog.Duration("took", run.Took),
		slog.String("status", status),
	}
	if run.Err != nil {
		attrs = append(attrs, slog.Any("error", run.Err))
	}

	switch status {
	case "timeout":
		slog.Error("Command timed out", attrs...)
	case "failed":
		slog.Error("Command failed", attrs...)
	case "slow":
		slog.Warn("Command executed slowly", attrs...)
	default:
		slog.Info("Command completed", attrs...)
	}
}

func LogSystem(msg string, attrs ...any) {
	slog.Info(msg, append([]any{slog.String("type", "sys")}, attrs...)...)
}

func LogError(msg string, err error, attrs ...any) {
	slog.Error(msg, append([]any{slog.String("type", "error"), slog.Any("error", err)}, attrs...)...)
}
