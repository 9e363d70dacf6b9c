package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var requiredEnv = map[string]string{
	"WEBSITE_NAME":       "https://blog.example.com",
	"DISCORD_CHANNEL_ID": "1100000000000000000",
	"DISCORD_APP_ID":     "1200000000000000000",
	"DISCORD_APP_SECRET": "secret",
	"BOT_TOKEN":          "token",
}

// isolate runs the test from an empty directory with every bound variable cleared.
func isolate(t *testing.T) {
	t.Helper()
	chdir(t, t.TempDir())
	for _, b := range envBindings {
		t.Setenv(b.env, "")
		require.NoError(t, os.Unsetenv(b.env))
	}
}

func setRequired(t *testing.T) {
	t.Helper()
	for k, v := range requiredEnv {
		t.Setenv(k, v)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	setRequired(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://blog.example.com", cfg.Website.URL)
	assert.Equal(t, "1100000000000000000", cfg.Discord.ChannelID)
	assert.Equal(t, "avatar_photo.jpg", cfg.Blog.AvatarFile)
	assert.Equal(t, "posts.json", cfg.Blog.DBFile)
	assert.Equal(t, "templates", cfg.Blog.TemplatesPath)
	assert.Equal(t, "file", cfg.Server.Expose)
	assert.False(t, cfg.Server.ExposeHTTP())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Empty(t, cfg.Website.Title)
	assert.Empty(t, cfg.Website.Description)
}

func TestLoadMissingRequired(t *testing.T) {
	isolate(t)
	t.Setenv("WEBSITE_NAME", "https://blog.example.com")
	t.Setenv("BOT_TOKEN", "token")

	_, err := Load("")
	require.ErrorIs(t, err, ErrMissingRequired)
	assert.Contains(t, err.Error(), "DISCORD_CHANNEL_ID")
	assert.Contains(t, err.Error(), "DISCORD_APP_ID")
	assert.Contains(t, err.Error(), "DISCORD_APP_SECRET")
	assert.NotContains(t, err.Error(), "BOT_TOKEN")
}

func TestLoadOverrides(t *testing.T) {
	isolate(t)
	setRequired(t)
	t.Setenv("WEBSITE_TITLE", "My Blog")
	t.Setenv("WEBSITE_DESCRIPTION", "line one\nline two")
	t.Setenv("BLOG_EXPOSE_WAY", "http")
	t.Setenv("HTTP_SERVER_PORT", "9090")
	t.Setenv("ADMIN_USER_IDS", "1,2")
	t.Setenv("REFRESH_SCHEDULE", "@hourly")
	t.Setenv("DB_FILE_NAME", "data/posts.db")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "My Blog", cfg.Website.Title)
	assert.Equal(t, "line one\nline two", cfg.Website.Description)
	assert.True(t, cfg.Server.ExposeHTTP())
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"1", "2"}, cfg.Bot.AdminUserIDs)
	assert.Equal(t, "@hourly", cfg.Bot.RefreshSchedule)
	assert.Equal(t, "data/posts.db", cfg.Blog.DBFile)
}

func TestLoadRejectsNonNumericPort(t *testing.T) {
	isolate(t)
	setRequired(t)
	t.Setenv("HTTP_SERVER_PORT", "eighty")

	_, err := Load("")
	require.Error(t, err)
}

func TestLoadRejectsUnknownExposeWay(t *testing.T) {
	isolate(t)
	setRequired(t)
	t.Setenv("BLOG_EXPOSE_WAY", "ftp")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BLOG_EXPOSE_WAY")
}

func TestLoadReadsDotEnv(t *testing.T) {
	isolate(t)
	content := "WEBSITE_NAME=https://env.example.com\n" +
		"DISCORD_CHANNEL_ID=42\n" +
		"DISCORD_APP_ID=43\n" +
		"DISCORD_APP_SECRET=s\n" +
		"BOT_TOKEN=t\n"
	require.NoError(t, os.WriteFile(".env", []byte(content), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Website.URL)
	assert.Equal(t, "42", cfg.Discord.ChannelID)
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	setRequired(t)
	path := filepath.Join(t.TempDir(), "blog.yaml")
	content := "blog:\n  templates_path: themes/plain\nserver:\n  port: 8181\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "themes/plain", cfg.Blog.TemplatesPath)
	assert.Equal(t, 8181, cfg.Server.Port)
}

func TestLoadEnvBeatsConfigFile(t *testing.T) {
	isolate(t)
	setRequired(t)
	t.Setenv("HTTP_SERVER_PORT", "7070")
	path := filepath.Join(t.TempDir(), "blog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 8181\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoadMissingConfigFile(t *testing.T) {
	isolate(t)
	setRequired(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadEmptyOverridesAreUnset(t *testing.T) {
	isolate(t)
	setRequired(t)
	t.Setenv("WEBSITE_TITLE", "")
	t.Setenv("WEBSITE_DESCRIPTION", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Website.Title)
	assert.Empty(t, cfg.Website.Description)
}
