// Package utils holds the logger and the slash command permission check.
package utils

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ColorInfo  = 0x00ff00 // Green
	ColorWarn  = 0xffff00 // Yellow
	ColorError = 0xff0000 // Red
)

// NewLogger builds a zap.Logger configured for development or production.
func NewLogger(development bool) (*zap.Logger, error) {
	if development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		logger, err := cfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build dev logger: %w", err)
		}
		return logger, nil
	}
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build prod logger: %w", err)
	}
	return logger, nil
}

// EmbedSender is the part of a discordgo session the admin reporter needs.
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// AdminReporter mirrors warnings and errors into an admin channel as embeds.
type AdminReporter struct {
	session   EmbedSender
	channelID string
}

// NewAdminReporter returns a reporter posting to channelID. An empty channelID
// disables reporting.
func NewAdminReporter(s EmbedSender, channelID string) *AdminReporter {
	return &AdminReporter{session: s, channelID: channelID}
}

// Attach returns logger with the reporter hooked in, or logger itself when disabled.
func (r *AdminReporter) Attach(logger *zap.Logger) *zap.Logger {
	if r == nil || r.session == nil || r.channelID == "" {
		return logger
	}
	return logger.WithOptions(zap.Hooks(r.Hook))
}

// Hook sends entries at warn level or above to the admin channel.
func (r *AdminReporter) Hook(e zapcore.Entry) error {
	if e.Level < zapcore.WarnLevel {
		return nil
	}
	_, err := r.session.ChannelMessageSendEmbed(r.channelID, Embed(e))
	if err != nil {
		return fmt.Errorf("send log embed: %w", err)
	}
	return nil
}

// Embed formats a log entry for the admin channel.
func Embed(e zapcore.Entry) *discordgo.MessageEmbed {
	var color int
	switch {
	case e.Level >= zapcore.ErrorLevel:
		color = ColorError
	case e.Level == zapcore.WarnLevel:
		color = ColorWarn
	default:
		color = ColorInfo
	}

	module := e.LoggerName
	if module == "" {
		module = "main"
	}

	return &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("Log Level: %s", e.Level.CapitalString()),
		Color:     color,
		Timestamp: e.Time.Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Module",
				Value:  module,
				Inline: true,
			},
			{
				Name:   "Caller",
				Value:  e.Caller.TrimmedPath(),
				Inline: true,
			},
			{
				Name:  "Details",
				Value: e.Message,
			},
		},
	}
}
