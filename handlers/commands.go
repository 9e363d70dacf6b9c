package handlers

import (
	"discord-blog/command"
	"discord-blog/models"
	"discord-blog/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Responder answers an interaction. *discordgo.Session satisfies it.
type Responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// Dispatcher is the central handler for /blog interactions.
type Dispatcher struct {
	events chan<- models.ChannelEvent
	auth   *utils.Auth
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher that queues accepted commands into events.
func NewDispatcher(events chan<- models.ChannelEvent, auth *utils.Auth, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{events: events, auth: auth, logger: logger}
}

// Dispatch performs permission checks and then queues the requested event.
func (d *Dispatcher) Dispatch(r Responder, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != command.Name {
		d.respond(r, i, "Unknown command.")
		return
	}

	userID := utils.InteractionUserID(i)
	if !d.auth.CheckPermission(i) {
		d.logger.Warn("Refused blog command", zap.String("user", userID))
		d.respond(r, i, "🚫 You are not allowed to run this command.")
		return
	}

	var sub string
	if len(data.Options) > 0 {
		sub = data.Options[0].Name
	}

	var kind models.EventKind
	switch sub {
	case command.Rebuild:
		kind = models.EventRebuild
	case command.Refresh:
		kind = models.EventRefresh
	default:
		d.respond(r, i, "Unknown subcommand.")
		return
	}

	select {
	case d.events <- models.ChannelEvent{Kind: kind}:
		d.logger.Info("Queued blog command", zap.String("user", userID), zap.String("kind", kind.String()))
		d.respond(r, i, "Queued "+kind.String()+".")
	default:
		d.logger.Warn("Event queue full; blog command dropped", zap.String("kind", kind.String()))
		d.respond(r, i, "The blog is busy, try again later.")
	}
}

func (d *Dispatcher) respond(r Responder, i *discordgo.InteractionCreate, content string) {
	err := r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		d.logger.Warn("Failed to respond to interaction", zap.Error(err))
	}
}
