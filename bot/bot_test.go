package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"discord-blog/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Snowflakes with known creation times.
const (
	channelID = "175928847299117063" // 2016-04-30
	guildID   = "41771983423143937"
)

type fakeAPI struct {
	messages   []*discordgo.Message // newest first
	channel    *discordgo.Channel
	guild      *discordgo.Guild
	pageErr    error
	guildErr   error
	pageCalls  []string
	guildCalls int
}

func (f *fakeAPI) ChannelMessages(_ string, limit int, beforeID, _, _ string, _ ...discordgo.RequestOption) ([]*discordgo.Message, error) {
	f.pageCalls = append(f.pageCalls, beforeID)
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	start := 0
	if beforeID != "" {
		for i, m := range f.messages {
			if m.ID == beforeID {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(f.messages) {
		end = len(f.messages)
	}
	return f.messages[start:end], nil
}

func (f *fakeAPI) Channel(string, ...discordgo.RequestOption) (*discordgo.Channel, error) {
	return f.channel, nil
}

func (f *fakeAPI) GuildWithCounts(string, ...discordgo.RequestOption) (*discordgo.Guild, error) {
	f.guildCalls++
	return f.guild, f.guildErr
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func imageClient(status int, body []byte, seen *string) *http.Client {
	return &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if seen != nil {
			*seen = r.URL.String()
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewReader(body)),
			Header:     make(http.Header),
		}, nil
	})}
}

func testConfig(t *testing.T) models.Config {
	return models.Config{
		Discord: models.DiscordConfig{ChannelID: channelID, AppID: "1", AppSecret: "s", BotToken: "t"},
		Blog:    models.BlogConfig{AvatarFile: filepath.Join(t.TempDir(), "avatar_photo.jpg")},
	}
}

func makeMessages(n int) []*discordgo.Message {
	msgs := make([]*discordgo.Message, 0, n)
	for i := n; i >= 1; i-- {
		msgs = append(msgs, &discordgo.Message{
			ID:        strconv.Itoa(1000 + i),
			Content:   fmt.Sprintf("message %d", i),
			Timestamp: time.Date(2024, time.March, 1, 12, i%60, 0, 0, time.UTC),
		})
	}
	return msgs
}

func TestHistoryPagesUntilExhausted(t *testing.T) {
	api := &fakeAPI{messages: makeMessages(250)}
	s := NewSource(api, nil, testConfig(t), zap.NewNop())

	msgs, err := s.History(context.Background())
	require.NoError(t, err)

	require.Len(t, msgs, 250)
	assert.Equal(t, int64(1250), msgs[0].ID)
	assert.Equal(t, int64(1001), msgs[249].ID)
	assert.Equal(t, []string{"", "1151", "1051"}, api.pageCalls)
}

func TestHistoryExactMultipleOfPageSize(t *testing.T) {
	api := &fakeAPI{messages: makeMessages(100)}
	s := NewSource(api, nil, testConfig(t), zap.NewNop())

	msgs, err := s.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, msgs, 100)
	assert.Len(t, api.pageCalls, 2)
}

func TestHistoryError(t *testing.T) {
	api := &fakeAPI{pageErr: errors.New("401 unauthorized")}
	s := NewSource(api, nil, testConfig(t), zap.NewNop())

	_, err := s.History(context.Background())
	assert.Error(t, err)
}

func TestHistoryMalformedID(t *testing.T) {
	api := &fakeAPI{messages: []*discordgo.Message{{ID: "not-a-number", Content: "x"}}}
	s := NewSource(api, nil, testConfig(t), zap.NewNop())

	_, err := s.History(context.Background())
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestChannelInfoDownloadsAvatar(t *testing.T) {
	cfg := testConfig(t)
	var seen string
	api := &fakeAPI{
		channel: &discordgo.Channel{ID: channelID, GuildID: guildID, Name: "announcements", Topic: "news\nand notes"},
		guild:   &discordgo.Guild{ID: guildID, Icon: "abc123", ApproximateMemberCount: 1234},
	}
	s := NewSource(api, imageClient(http.StatusOK, []byte("JPEG"), &seen), cfg, zap.NewNop())

	info, err := s.ChannelInfo(context.Background())
	require.NoError(t, err)

	assert.Equal(t, models.ChannelInfo{
		Title:      "announcements",
		About:      "news\nand notes",
		Members:    "1234",
		Date:       "2016",
		AvatarPath: cfg.Blog.AvatarFile,
	}, info)
	assert.Contains(t, seen, "abc123")

	data, err := os.ReadFile(cfg.Blog.AvatarFile)
	require.NoError(t, err)
	assert.Equal(t, "JPEG", string(data))
}

func TestChannelInfoCreatesAvatarDirectory(t *testing.T) {
	cfg := testConfig(t)
	cfg.Blog.AvatarFile = filepath.Join(t.TempDir(), "img", "a.jpg")
	api := &fakeAPI{
		channel: &discordgo.Channel{ID: channelID, GuildID: guildID, Name: "c"},
		guild:   &discordgo.Guild{ID: guildID, Icon: "abc"},
	}
	s := NewSource(api, imageClient(http.StatusOK, []byte("JPEG"), nil), cfg, zap.NewNop())

	_, err := s.ChannelInfo(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Blog.AvatarFile)
	require.NoError(t, err)
	assert.Equal(t, "JPEG", string(data))
}

func TestChannelInfoWithoutIconKeepsAvatar(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Blog.AvatarFile, []byte("old"), 0o600))
	api := &fakeAPI{
		channel: &discordgo.Channel{ID: channelID, GuildID: guildID, Name: "c"},
		guild:   &discordgo.Guild{ID: guildID, ApproximateMemberCount: 2},
	}
	s := NewSource(api, imageClient(http.StatusOK, []byte("new"), nil), cfg, zap.NewNop())

	info, err := s.ChannelInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2", info.Members)

	data, err := os.ReadFile(cfg.Blog.AvatarFile)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestChannelInfoAvatarDownloadFailure(t *testing.T) {
	api := &fakeAPI{
		channel: &discordgo.Channel{ID: channelID, GuildID: guildID, Name: "c"},
		guild:   &discordgo.Guild{ID: guildID, Icon: "abc"},
	}
	s := NewSource(api, imageClient(http.StatusNotFound, nil, nil), testConfig(t), zap.NewNop())

	_, err := s.ChannelInfo(context.Background())
	assert.Error(t, err)
}

func TestChannelInfoGuildError(t *testing.T) {
	api := &fakeAPI{
		channel:  &discordgo.Channel{ID: channelID, GuildID: guildID},
		guildErr: errors.New("missing access"),
	}
	s := NewSource(api, nil, testConfig(t), zap.NewNop())

	_, err := s.ChannelInfo(context.Background())
	assert.Error(t, err)
}

func TestChannelInfoOutsideGuild(t *testing.T) {
	api := &fakeAPI{channel: &discordgo.Channel{ID: channelID, Name: "dm"}}
	s := NewSource(api, nil, testConfig(t), zap.NewNop())

	info, err := s.ChannelInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "0", info.Members)
	assert.Zero(t, api.guildCalls)
}

func TestToChannelMessage(t *testing.T) {
	ts := time.Date(2024, time.January, 2, 11, 0, 0, 0, time.FixedZone("CET", 3600))
	m, err := ToChannelMessage(&discordgo.Message{ID: "2", Content: "world", Timestamp: ts})
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.ID)
	assert.Equal(t, "world", m.Text)
	assert.Equal(t, "Jan 02, 10:00", m.Post().Date)
}

func TestToChannelMessageFallsBackToSnowflakeTime(t *testing.T) {
	m, err := ToChannelMessage(&discordgo.Message{ID: channelID, Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, 2016, m.Date.Year())

	_, err = ToChannelMessage(nil)
	assert.ErrorIs(t, err, ErrMalformedMessage)
}

func TestVerifyCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "app" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"x","token_type":"Bearer","expires_in":604800}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	assert.NoError(t, VerifyCredentials(ctx, srv.Client(), srv.URL, "app", "secret"))
	assert.Error(t, VerifyCredentials(ctx, srv.Client(), srv.URL, "app", "wrong"))
}

func TestNewRequiresToken(t *testing.T) {
	_, err := New(models.Config{}, zap.NewNop())
	assert.Error(t, err)

	b, err := New(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	assert.True(t, b.Session.SyncEvents)
	assert.Equal(t, channelID, b.Config().Discord.ChannelID)
}

func TestSchedulerQueuesRefresh(t *testing.T) {
	events := make(chan models.ChannelEvent, 1)
	s, err := StartScheduler("@every 1s", events, zap.NewNop())
	require.NoError(t, err)
	defer s.Stop()

	select {
	case ev := <-events:
		assert.Equal(t, models.EventRefresh, ev.Kind)
	case <-time.After(3 * time.Second):
		t.Fatal("no refresh queued")
	}
}

func TestSchedulerDisabledAndInvalid(t *testing.T) {
	s, err := StartScheduler("", nil, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, s)
	s.Stop()

	_, err = StartScheduler("every other tuesday", make(chan models.ChannelEvent), zap.NewNop())
	assert.Error(t, err)
}
