package postgres

import (
	"log/slog"
	"time"
)

type queryLog struct {
	operation string
	query     string
	args      []any
	start     time.Time
}

func newQueryLog(operation, query string, args ...any) *queryLog {
	return &queryLog{
		operation: operation,
		query:     query,
		args:      args,
		start:     time.Now(),
	}
}

// done logs failures at error level and successes at debug, so schema setup does not flood the console.
func (l *queryLog) done(err error, rowsAffected int64) {
	took := time.Since(l.start)
	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", l.operation),
			slog.String("query", l.query),
			slog.Any("args", l.args),
			slog.Duration("took", took),
			slog.Any("error", err),
		)
		return
	}
	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", l.operation),
		slog.String("query", l.query),
		slog.Duration("took", took),
		slog.Int64("affected_rows", rowsAffected),
	)
}
