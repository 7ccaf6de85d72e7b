package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/asae/asae/logger"
)

// slowCommand is the duration after which a finished command is logged as slow.
const slowCommand = 2 * time.Second

func guildOf(e *handler.CommandEvent) string {
	if id := e.GuildID(); id != nil {
		return id.String()
	}
	return "dm"
}

// WrapWithLogging wraps a command handler with logging functionality. The handler keeps running after
// timeout; the wrapper only stops waiting for it.
func WrapWithLogging(name string, timeout time.Duration, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()
		user := e.User()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", user.ID.String()),
			slog.String("user_name", user.Username),
			slog.String("guild_id", guildOf(e)),
			slog.String("channel_id", e.ChannelID().String()),
		)

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		run := logger.CommandRun{
			Name:     name,
			UserID:   user.ID.String(),
			UserName: user.Username,
			Slow:     slowCommand,
		}
		select {
		case err := <-done:
			run.Took = time.Since(start)
			run.Err = err
			logger.LogCommand(run)
			return err

		case <-time.After(timeout):
			run.Took = timeout
			run.TimedOut = true
			run.Err = fmt.Errorf("command %s timed out after %s", name, timeout)
			logger.LogCommand(run)
			return run.Err
		}
	}
}
