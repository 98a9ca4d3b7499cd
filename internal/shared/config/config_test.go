package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/reshetovitsme/channel-mirror/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-mirror/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var optionalKeys = []string{
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_API_URL", "PORT", "HTTP_PORT", "ALBUM_DELAY_MS",
	"TRANSIENT_COOLDOWN_SECONDS", "CONFIG_COOLDOWN_SECONDS", "EDIT_POLICY",
	"DEDUP_SIZE", "ACTIVITY_SIZE", "APP_ENV",
}

func setRequired(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range optionalKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("SOURCE_CHANNEL", "@mirror_source")
	t.Setenv("TARGET_CHANNEL", "-1002222222222")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, "@mirror_source", cfg.SourceChannel)
	assert.Equal(t, "-1002222222222", cfg.TargetChannel)
	assert.Equal(t, "https://api.telegram.org", cfg.TelegramAPIURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 800*time.Millisecond, cfg.AlbumDelay())
	assert.Equal(t, 5*time.Second, cfg.TransientCooldown())
	assert.Equal(t, 30*time.Second, cfg.ConfigCooldown())
	assert.Equal(t, domain.EditPolicyCopy, cfg.EditPolicy)
	assert.Equal(t, 1024, cfg.DedupSize)
	assert.Equal(t, 100, cfg.ActivitySize)
	assert.Equal(t, domain.AppEnvProduction, cfg.AppEnv)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SOURCE_CHANNEL", "  https://t.me/mirror_source  ")
	t.Setenv("ALBUM_DELAY_MS", "1500")
	t.Setenv("EDIT_POLICY", "IGNORE")
	t.Setenv("APP_ENV", "development")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://t.me/mirror_source", cfg.SourceChannel)
	assert.Equal(t, 1500*time.Millisecond, cfg.AlbumDelay())
	assert.Equal(t, domain.EditPolicyIgnore, cfg.EditPolicy)
	assert.Equal(t, domain.AppEnvDevelopment, cfg.AppEnv)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoad_LegacyKeys(t *testing.T) {
	setRequired(t)
	t.Setenv("BOT_TOKEN", "")
	os.Unsetenv("BOT_TOKEN")
	t.Setenv("TELEGRAM_BOT_TOKEN", "legacy:token")
	t.Setenv("HTTP_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy:token", cfg.BotToken)
	assert.Equal(t, "3000", cfg.Port)
}

func TestLoad_ConfigFileThenEnvironment(t *testing.T) {
	setRequired(t)
	os.Unsetenv("SOURCE_CHANNEL")
	t.Setenv("TARGET_CHANNEL", "@from_env")

	content := []byte("source_channel: \"@from_file\"\ntarget_channel: \"@file_target\"\nalbum_delay_ms: 400\n")
	require.NoError(t, os.WriteFile("config.yaml", content, 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "@from_file", cfg.SourceChannel)
	assert.Equal(t, "@from_env", cfg.TargetChannel)
	assert.Equal(t, 400*time.Millisecond, cfg.AlbumDelay())
}

func TestLoad_MissingRequired(t *testing.T) {
	tests := []struct {
		unset string
		want  error
	}{
		{"BOT_TOKEN", errors.ErrMissingBotToken},
		{"SOURCE_CHANNEL", errors.ErrMissingSourceChannel},
		{"TARGET_CHANNEL", errors.ErrMissingTargetChannel},
	}
	for _, tt := range tests {
		t.Run(tt.unset, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.unset, "   ")

			_, err := Load()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("album delay", func(t *testing.T) {
		setRequired(t)
		t.Setenv("ALBUM_DELAY_MS", "0")

		_, err := Load()
		assert.ErrorIs(t, err, errors.ErrInvalidAlbumDelay)
	})

	t.Run("edit policy", func(t *testing.T) {
		setRequired(t)
		t.Setenv("EDIT_POLICY", "rewrite")

		_, err := Load()
		assert.ErrorIs(t, err, domain.ErrInvalidEditPolicy)
	})
}

func TestConfig_LogLevelFollowsAppEnv(t *testing.T) {
	tests := []struct {
		env  string
		want slog.Level
	}{
		{"development", slog.LevelDebug},
		{"local", slog.LevelDebug},
		{"production", slog.LevelInfo},
		{"testing", slog.LevelInfo},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			setRequired(t)
			t.Setenv("APP_ENV", tt.env)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.LogLevel())
		})
	}
}
