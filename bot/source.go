package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"discord-blog/models"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// ErrMalformedMessage is returned when the platform hands back data that cannot be
// mapped onto a post.
var ErrMalformedMessage = errors.New("malformed message")

// historyPageSize is the largest page the messages endpoint serves.
const historyPageSize = 100

// avatarSize is the icon edge length requested from the CDN.
const avatarSize = "256"

// ChannelAPI is the subset of the discordgo session the source calls.
type ChannelAPI interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	GuildWithCounts(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
}

// Source reads the mirrored channel.
type Source struct {
	api        ChannelAPI
	client     *http.Client
	channelID  string
	avatarPath string
	logger     *zap.Logger
}

// NewSource builds a Source. client downloads the avatar; nil means http.DefaultClient.
func NewSource(api ChannelAPI, client *http.Client, cfg models.Config, logger *zap.Logger) *Source {
	if client == nil {
		client = http.DefaultClient
	}
	return &Source{
		api:        api,
		client:     client,
		channelID:  cfg.Discord.ChannelID,
		avatarPath: cfg.Blog.AvatarFile,
		logger:     logger.Named("source"),
	}
}

// History pages backwards through the channel until the first message and returns
// every message, newest first.
func (s *Source) History(ctx context.Context) ([]models.ChannelMessage, error) {
	var (
		all    []models.ChannelMessage
		before string
	)
	for {
		page, err := s.api.ChannelMessages(s.channelID, historyPageSize, before, "", "", discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("failed to get messages for channel %s: %w", s.channelID, err)
		}
		if len(page) == 0 {
			break
		}
		for _, m := range page {
			cm, err := ToChannelMessage(m)
			if err != nil {
				return nil, err
			}
			all = append(all, cm)
		}
		before = page[len(page)-1].ID
		if len(page) < historyPageSize {
			break
		}
	}
	s.logger.Info("Fetched channel history", zap.Int("messages", len(all)))
	return all, nil
}

// ChannelInfo fetches the channel title, topic, member count and creation year, and
// rewrites the avatar file from the guild icon.
func (s *Source) ChannelInfo(ctx context.Context) (models.ChannelInfo, error) {
	ch, err := s.api.Channel(s.channelID, discordgo.WithContext(ctx))
	if err != nil {
		return models.ChannelInfo{}, fmt.Errorf("failed to get channel %s: %w", s.channelID, err)
	}

	created, err := discordgo.SnowflakeTimestamp(ch.ID)
	if err != nil {
		return models.ChannelInfo{}, fmt.Errorf("%w: channel id %q: %v", ErrMalformedMessage, ch.ID, err)
	}

	info := models.ChannelInfo{
		Title:      ch.Name,
		About:      ch.Topic,
		Members:    "0",
		Date:       created.UTC().Format(models.FoundingYearLayout),
		AvatarPath: s.avatarPath,
	}

	if ch.GuildID == "" {
		return info, nil
	}

	guild, err := s.api.GuildWithCounts(ch.GuildID, discordgo.WithContext(ctx))
	if err != nil {
		return models.ChannelInfo{}, fmt.Errorf("failed to get guild %s: %w", ch.GuildID, err)
	}
	info.Members = strconv.Itoa(guild.ApproximateMemberCount)

	if iconURL := guild.IconURL(avatarSize); iconURL != "" {
		if err := s.downloadAvatar(ctx, iconURL); err != nil {
			return models.ChannelInfo{}, err
		}
	} else {
		s.logger.Debug("Guild has no icon; keeping existing avatar file", zap.String("guild", ch.GuildID))
	}

	return info, nil
}

func (s *Source) downloadAvatar(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build avatar request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("download avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download avatar: unexpected status %d", resp.StatusCode)
	}

	dir := filepath.Dir(s.avatarPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create avatar directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(s.avatarPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open avatar file: %w", err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return fmt.Errorf("write avatar file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync avatar file: %w", err)
	}
	return f.Close()
}

// ToChannelMessage maps a Discord message. Partial messages from edit events may lack
// a timestamp; the creation time encoded in the id is used instead.
func ToChannelMessage(m *discordgo.Message) (models.ChannelMessage, error) {
	if m == nil {
		return models.ChannelMessage{}, fmt.Errorf("%w: nil message", ErrMalformedMessage)
	}
	id, err := strconv.ParseInt(m.ID, 10, 64)
	if err != nil {
		return models.ChannelMessage{}, fmt.Errorf("%w: id %q: %v", ErrMalformedMessage, m.ID, err)
	}

	date := m.Timestamp
	if date.IsZero() {
		date, err = discordgo.SnowflakeTimestamp(m.ID)
		if err != nil {
			return models.ChannelMessage{}, fmt.Errorf("%w: id %q: %v", ErrMalformedMessage, m.ID, err)
		}
	}

	return models.ChannelMessage{
		ID:   id,
		Date: date.In(time.UTC),
		Text: m.Content,
	}, nil
}
