package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCustomHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo))

	log.Info("Category scanned", slog.String("type", "sys"), slog.Int("added", 3))
	line := buf.String()
	assert.Contains(t, line, "[ASAE]")
	assert.Contains(t, line, "[SYS] Category scanned")
	assert.Contains(t, line, "added=3")
	assert.NotContains(t, line, "type=")
}

func TestCustomHandler_ErrorsAndCommands(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug))

	log.Error("Command failed",
		slog.String("type", "cmd"),
		slog.String("name", "atualizar"),
		slog.String("user_name", "ana"),
		slog.String("status", "failed"),
		slog.Any("error", errors.New("disk full")))

	line := buf.String()
	assert.Contains(t, line, "[CMD] Command failed: disk full [atualizar by ana] [Status: failed]")
	assert.Contains(t, line, "ERROR")
}

func TestCustomHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelWarn))

	log.Info("hidden")
	log.Warn("shown")
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), "shown")
}

func TestCustomHandler_SkipsGatewayNoise(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelDebug))

	log.Debug("sending heartbeat")
	assert.Empty(t, buf.String())
}

func TestCustomHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, slog.LevelInfo)).With(slog.String("type", "db"))

	log.Info("Ledger saved")
	assert.Contains(t, buf.String(), "[DB] Ledger saved")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	slog.New(New(&buf, slog.LevelInfo, "json", false)).Info("ready", slog.String("type", "sys"))
	assert.Contains(t, buf.String(), `"msg":"ready"`)
	assert.Contains(t, buf.String(), `"type":"sys"`)
}

func captureDefault(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := slog.Default()
	slog.SetDefault(slog.New(NewHandler(&buf, slog.LevelDebug)))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return &buf
}

func TestLogCommand(t *testing.T) {
	tests := []struct {
		name string
		run  CommandRun
		want string
	}{
		{
			"success",
			CommandRun{Name: "ranking", UserName: "ana", Took: time.Second, Slow: 2 * time.Second},
			"[CMD] Command completed [ranking by ana] [Status: success]",
		},
		{
			"slow",
			CommandRun{Name: "ranking", UserName: "ana", Took: 3 * time.Second, Slow: 2 * time.Second},
			"[CMD] Command executed slowly [ranking by ana] [Status: slow]",
		},
		{
			"failed",
			CommandRun{Name: "atualizar", UserName: "ana", Err: errors.New("disk full")},
			"[CMD] Command failed: disk full [atualizar by ana] [Status: failed]",
		},
		{
			"timeout",
			CommandRun{Name: "atualizar", UserName: "ana", TimedOut: true, Err: errors.New("timed out")},
			"[CMD] Command timed out: timed out [atualizar by ana] [Status: timeout]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureDefault(t)
			LogCommand(tt.run)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestLogSystemAndError(t *testing.T) {
	buf := captureDefault(t)

	LogSystem("Bot is running", slog.Int("tenants", 2))
	LogError("Unclean shutdown", errors.New("db closed"))

	out := buf.String()
	assert.Contains(t, out, "[SYS] Bot is running")
	assert.Contains(t, out, "tenants=2")
	assert.Contains(t, out, "[ERR] Unclean shutdown: db closed")
}
