package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/ellavondegurechaff/asae/asae"
	"github.com/ellavondegurechaff/asae/asae/commands"
	"github.com/ellavondegurechaff/asae/asae/config"
	"github.com/ellavondegurechaff/asae/asae/logger"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"

	configPath   string
	syncCommands bool
)

var rootCmd = &cobra.Command{
	Use:           "asae",
	Short:         "Discord bot that tracks Bate-Ponto hours and publishes leaderboards",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return run(cmd.Context(), *cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
	rootCmd.Flags().BoolVar(&syncCommands, "sync-commands", false, "Whether to sync commands to discord")
}

// Execute runs the selected command and exits with -1 when it fails.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.LogError("Fatal error", err)
		os.Exit(-1)
	}
}

// loadConfig reads the config and installs the process logger it describes.
func loadConfig() (*asae.Config, error) {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stdout, slog.LevelInfo)))

	cfg, err := asae.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	slog.SetDefault(slog.New(logger.New(os.Stdout, cfg.Log.Level, cfg.Log.Format, cfg.Log.AddSource)))
	slog.Info("Configuration loaded successfully",
		slog.String("type", "sys"),
		slog.String("storage", cfg.Storage.Driver),
		slog.Int("tenants", len(cfg.Tenants)))
	return cfg, nil
}

func run(ctx context.Context, cfg asae.Config) error {
	slog.Info("Starting ASAE Discord Bot",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	b, err := asae.New(cfg, version, commit)
	if err != nil {
		return err
	}

	storageCtx, cancel := context.WithTimeout(ctx, config.StorageTimeout)
	ledgers, settings, err := b.OpenStorage(storageCtx)
	cancel()
	if err != nil {
		return err
	}

	h := handler.New()
	commands.Register(h, b)

	if err = b.SetupBot(h,
		bot.NewListenerFunc(b.OnReady),
		bot.NewListenerFunc(b.OnGuildReady),
		bot.NewListenerFunc(b.OnMemberUpdate),
	); err != nil {
		return fmt.Errorf("failed to setup bot: %w", err)
	}
	b.InitServices(ledgers, settings)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		b.Shutdown(ctx)
	}()

	if syncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
			slog.Any("commands", commands.Names()))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"))
		}
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, config.GatewayTimeout)
	defer cancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		return fmt.Errorf("failed to open gateway: %w", err)
	}

	logger.LogSystem("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	logger.LogSystem("Shutting down bot...")
	return nil
}
