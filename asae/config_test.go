package asae

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[log]
level = "debug"
format = "text"

[bot]
token = "file-token"
dev_guilds = [1000000000001]
timezone = "America/Sao_Paulo"

[storage]
data_dir = "data"

[[tenants]]
id = 1000000000001
name = "Oficina"
category_id = 2000000000001
weekly_channel_id = 3000000000001
monthly_channel_id = 3000000000002
viewer_role_id = 4000000000001

[[tenants]]
id = 1000000000002
name = "Garagem"
category_id = 2000000000002
default = true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Bot.Token)
	assert.Equal(t, StorageJSON, cfg.Storage.Driver)
	assert.Equal(t, "data", cfg.Storage.DataDir)
	assert.Equal(t, "backups", cfg.Storage.BackupDir)
	require.Len(t, cfg.Tenants, 2)
	assert.EqualValues(t, 2000000000001, cfg.Tenants[0].CategoryID)
	assert.True(t, cfg.Tenants[1].Default)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Sao_Paulo", loc.String())
}

func TestLoadConfig_EnvTokenOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "env-token")
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Bot.Token)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Config{
		Bot:     BotConfig{Timezone: "Nowhere/City"},
		Storage: StorageConfig{Driver: "sqlite"},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot.token")
	assert.Contains(t, err.Error(), "bot.timezone")
	assert.Contains(t, err.Error(), "storage.driver")
	assert.Contains(t, err.Error(), "tenants")
}

func TestValidate_PostgresNeedsConnection(t *testing.T) {
	cfg := Config{
		Bot:     BotConfig{Token: "x"},
		Storage: StorageConfig{Driver: StoragePostgres},
	}
	cfg.Tenants = []tenant.Tenant{{ID: 1, Name: "a"}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db.host")
}

func TestLocation_DefaultsToHostZone(t *testing.T) {
	loc, err := (&Config{}).Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}
