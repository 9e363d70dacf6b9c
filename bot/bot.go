// Package bot connects to Discord: it reads the mirrored channel, downloads the
// avatar, checks the application credentials and schedules periodic refreshes.
package bot

import (
	"fmt"

	"discord-blog/models"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot encapsulates the Discord session and the mirrored channel.
type Bot struct {
	Session *discordgo.Session
	cfg     models.Config
	logger  *zap.Logger
}

// New creates a session authenticated with the bot token. It does not connect.
func New(cfg models.Config, logger *zap.Logger) (*Bot, error) {
	if cfg.Discord.BotToken == "" {
		return nil, fmt.Errorf("no bot token provided")
	}

	dg, err := discordgo.New("Bot " + cfg.Discord.BotToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	// Handlers run one after another so events reach the pipeline in gateway order.
	dg.SyncEvents = true

	return &Bot{
		Session: dg,
		cfg:     cfg,
		logger:  logger.Named("bot"),
	}, nil
}

// Config returns the configuration the bot was built with.
func (b *Bot) Config() models.Config {
	return b.cfg
}

// Source returns the channel source backed by this session.
func (b *Bot) Source() *Source {
	return NewSource(b.Session, b.Session.Client, b.cfg, b.logger)
}

// Open connects to the gateway.
func (b *Bot) Open() error {
	if err := b.Session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}
	b.logger.Info("Connected to Discord gateway", zap.String("channel", b.cfg.Discord.ChannelID))
	return nil
}

// RegisterCommands creates the given slash commands for the application.
func (b *Bot) RegisterCommands(defs []*discordgo.ApplicationCommand) {
	for _, def := range defs {
		if _, err := b.Session.ApplicationCommandCreate(b.cfg.Discord.AppID, "", def); err != nil {
			b.logger.Warn("Cannot create command", zap.String("command", def.Name), zap.Error(err))
		}
	}
}

// Close gracefully closes the session.
func (b *Bot) Close() {
	if b.Session != nil {
		if err := b.Session.Close(); err != nil {
			b.logger.Warn("Error closing Discord session", zap.Error(err))
		}
	}
	b.logger.Info("Bot stopped gracefully.")
}
