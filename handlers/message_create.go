package handlers

import (
	"context"

	"discord-blog/bot"
	"discord-blog/models"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// MessageRouter turns new and edited messages of the mirrored channel into
// EventMessage values.
type MessageRouter struct {
	ctx       context.Context
	channelID string
	events    chan<- models.ChannelEvent
	logger    *zap.Logger
}

// NewMessageRouter creates a router for channelID.
func NewMessageRouter(ctx context.Context, channelID string, events chan<- models.ChannelEvent, logger *zap.Logger) *MessageRouter {
	return &MessageRouter{ctx: ctx, channelID: channelID, events: events, logger: logger}
}

// MessageCreate will be called every time a new message is created on any channel that the authenticated bot has access to.
func (r *MessageRouter) MessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	r.Route(m.Message)
}

// MessageUpdate handles edits. An edit replaces the stored post with the same id.
func (r *MessageRouter) MessageUpdate(_ *discordgo.Session, m *discordgo.MessageUpdate) {
	r.Route(m.Message)
}

// Route queues m when it belongs to the mirrored channel. It blocks while the
// queue is full so no message is lost.
func (r *MessageRouter) Route(m *discordgo.Message) {
	if m == nil || m.ChannelID != r.channelID {
		return
	}

	msg, err := bot.ToChannelMessage(m)
	if err != nil {
		r.logger.Error("Dropping malformed message", zap.String("message_id", m.ID), zap.Error(err))
		return
	}

	select {
	case r.events <- models.ChannelEvent{Kind: models.EventMessage, Message: msg}:
	case <-r.ctx.Done():
		r.logger.Warn("Listener stopped; message not queued", zap.Int64("message_id", msg.ID))
	}
}
