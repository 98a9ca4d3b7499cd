package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/channel-mirror/internal/modules/channel/domain"
	"github.com/reshetovitsme/channel-mirror/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	BotToken                 string            `koanf:"bot_token"`
	SourceChannel            string            `koanf:"source_channel"`
	TargetChannel            string            `koanf:"target_channel"`
	TelegramAPIURL           string            `koanf:"telegram_api_url"`
	Port                     string            `koanf:"port"`
	AlbumDelayMS             int               `koanf:"album_delay_ms"`
	TransientCooldownSeconds int               `koanf:"transient_cooldown_seconds"`
	ConfigCooldownSeconds    int               `koanf:"config_cooldown_seconds"`
	EditPolicy               domain.EditPolicy `koanf:"edit_policy"`
	DedupSize                int               `koanf:"dedup_size"`
	ActivitySize             int               `koanf:"activity_size"`
	AppEnv                   domain.AppEnv     `koanf:"app_env"`
}

// AlbumDelay is the debounce window applied to media groups
func (c *Config) AlbumDelay() time.Duration {
	return time.Duration(c.AlbumDelayMS) * time.Millisecond
}

// TransientCooldown is the wait before restarting after a stream failure
func (c *Config) TransientCooldown() time.Duration {
	return time.Duration(c.TransientCooldownSeconds) * time.Second
}

// ConfigCooldown is the wait before retrying a failed channel resolution
func (c *Config) ConfigCooldown() time.Duration {
	return time.Duration(c.ConfigCooldownSeconds) * time.Second
}

// LogLevel is debug for local and development environments, info otherwise
func (c *Config) LogLevel() slog.Level {
	switch c.AppEnv {
	case domain.AppEnvLocal, domain.AppEnvDevelopment:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

var configFiles = []string{
	"config.yaml",
	"config.yml",
	"config.json",
	"config.toml",
}

// Load reads the first config file found in the working directory, then
// lets environment variables override it.
func Load() (*Config, error) {
	k := koanf.New(".")

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// SOURCE_CHANNEL -> source_channel
	if err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	return fromKoanf(k)
}

func fromKoanf(k *koanf.Koanf) (*Config, error) {
	// Older deployments use the names the RSS bot used
	if !k.Exists("bot_token") && k.Exists("telegram_bot_token") {
		k.Set("bot_token", k.String("telegram_bot_token"))
	}
	if !k.Exists("port") && k.Exists("http_port") {
		k.Set("port", k.String("http_port"))
	}

	// Set defaults
	if !k.Exists("telegram_api_url") {
		k.Set("telegram_api_url", "https://api.telegram.org")
	}
	if !k.Exists("port") {
		k.Set("port", "8080")
	}
	if !k.Exists("album_delay_ms") {
		k.Set("album_delay_ms", 800)
	}
	if !k.Exists("transient_cooldown_seconds") {
		k.Set("transient_cooldown_seconds", 5)
	}
	if !k.Exists("config_cooldown_seconds") {
		k.Set("config_cooldown_seconds", 30)
	}
	if !k.Exists("dedup_size") {
		k.Set("dedup_size", 1024)
	}
	if !k.Exists("activity_size") {
		k.Set("activity_size", 100)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	cfg.BotToken = strings.TrimSpace(cfg.BotToken)
	cfg.SourceChannel = strings.TrimSpace(cfg.SourceChannel)
	cfg.TargetChannel = strings.TrimSpace(cfg.TargetChannel)

	cfg.EditPolicy = domain.EditPolicyCopy
	if policy := k.String("edit_policy"); policy != "" {
		parsed, err := domain.ParseEditPolicy(policy)
		if err != nil {
			return nil, oops.With("edit_policy", policy).Wrap(err)
		}
		cfg.EditPolicy = parsed
	}

	cfg.AppEnv = domain.AppEnvProduction
	if appEnvStr := k.String("app_env"); appEnvStr != "" {
		if env, err := domain.ParseAppEnv(appEnvStr); err == nil {
			cfg.AppEnv = env
		}
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, errors.ErrMissingBotToken
	}
	if cfg.SourceChannel == "" {
		return nil, errors.ErrMissingSourceChannel
	}
	if cfg.TargetChannel == "" {
		return nil, errors.ErrMissingTargetChannel
	}
	if cfg.AlbumDelayMS <= 0 {
		return nil, oops.With("album_delay_ms", cfg.AlbumDelayMS).Wrap(errors.ErrInvalidAlbumDelay)
	}

	return &cfg, nil
}
