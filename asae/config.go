package asae

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/disgoorg/snowflake/v2"
	"github.com/ellavondegurechaff/asae/internal/domain/tenant"
	"github.com/ellavondegurechaff/asae/internal/gateways/storage/postgres"
	"github.com/ellavondegurechaff/asae/internal/gateways/storage/spaces"
	"github.com/pelletier/go-toml/v2"
)

const (
	StorageJSON     = "json"
	StoragePostgres = "postgres"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}
	cfg.applyDefaults()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log     LogConfig       `toml:"log"`
	Bot     BotConfig       `toml:"bot"`
	Storage StorageConfig   `toml:"storage"`
	DB      postgres.Config `toml:"db"`
	Spaces  spaces.Config   `toml:"spaces"`
	Tenants []tenant.Tenant `toml:"tenants"`
}

type BotConfig struct {
	DevGuilds     []snowflake.ID `toml:"dev_guilds"`
	Token         string         `toml:"token"`
	ReporterNames []string       `toml:"reporter_names"`
	// Timezone is an IANA name used for record dates and leaderboard windows. Empty means the host zone.
	Timezone string `toml:"timezone"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type StorageConfig struct {
	Driver    string `toml:"driver"`
	DataDir   string `toml:"data_dir"`
	BackupDir string `toml:"backup_dir"`
}

func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageJSON
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = "."
	}
	if c.Storage.BackupDir == "" {
		c.Storage.BackupDir = "backups"
	}
}

// Validate reports every problem at once so a broken deployment is fixed in one pass.
func (c *Config) Validate() error {
	var errs []error
	if c.Bot.Token == "" {
		errs = append(errs, errors.New("bot.token is required (or set DISCORD_TOKEN)"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("bot.timezone: %w", err))
	}
	switch c.Storage.Driver {
	case StorageJSON:
	case StoragePostgres:
		if c.DB.Host == "" || c.DB.Database == "" {
			errs = append(errs, errors.New("db.host and db.database are required by the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q is not one of %q, %q", c.Storage.Driver, StorageJSON, StoragePostgres))
	}
	if _, err := tenant.NewRegistry(c.Tenants); err != nil {
		errs = append(errs, fmt.Errorf("tenants: %w", err))
	}
	return errors.Join(errs...)
}

func (c *Config) Location() (*time.Location, error) {
	if c.Bot.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Bot.Timezone)
}
