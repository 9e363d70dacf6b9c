package handlers

import (
	"context"

	"discord-blog/bot"
	"discord-blog/command"
	"discord-blog/models"
	"discord-blog/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Register all handlers to the bot. Callbacks only enqueue into events; ctx
// unblocks a pending send once the pipeline has stopped.
func Register(ctx context.Context, b *bot.Bot, events chan<- models.ChannelEvent, auth *utils.Auth, logger *zap.Logger) {
	logger = logger.Named("handlers")
	router := NewMessageRouter(ctx, b.Config().Discord.ChannelID, events, logger)
	b.Session.AddHandler(router.MessageCreate)
	b.Session.AddHandler(router.MessageUpdate)

	if auth.Enabled() {
		b.Session.AddHandler(InteractionCreate(NewDispatcher(events, auth, logger)))
	}

	// Add a ready handler to log when the bot is connected.
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		logger.Info("Logged in",
			zap.String("user", r.User.Username),
			zap.Int("guilds", len(r.Guilds)),
		)
	})
}

// RegisterCommands creates the slash commands when anyone is allowed to use them.
func RegisterCommands(b *bot.Bot, auth *utils.Auth) {
	if !auth.Enabled() {
		return
	}
	b.RegisterCommands(command.Definitions())
}
