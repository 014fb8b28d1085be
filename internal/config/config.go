// Package config loads the bot's settings from a YAML file, an optional .env
// file and MAFIA_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/mafiabot/internal/models"
)

const (
	// DefaultPath is where the config file is looked up when no -config flag is given
	DefaultPath = "config.yaml"

	// DefaultSnapshotHistory is how many cycles the snapshot store keeps
	DefaultSnapshotHistory = 20

	defaultPollInterval     = 5 * time.Minute
	defaultPostPushInterval = 30
)

// Config is the full runtime configuration
type Config struct {
	// ThreadURL is the game thread, e.g. https://www.mediavida.com/foro/juegos/partida-mafia-123456
	ThreadURL string `yaml:"thread_url"`

	// GameMaster is the forum user running the game
	GameMaster string `yaml:"game_master"`

	// BotUser is the forum user the bot posts as
	BotUser string `yaml:"bot_user"`

	// RightsFile is the path of the CSV rights table
	RightsFile string `yaml:"rights_file"`

	// PollInterval is the sleep between cycles
	PollInterval time.Duration `yaml:"poll_interval"`

	// PostPushInterval is how many posts may pass before an interim tally
	PostPushInterval int `yaml:"post_push_interval"`

	// PageSize is the number of posts per thread page
	PageSize int `yaml:"page_size"`

	// CommandHeadingLevel is the heading level of vote commands
	CommandHeadingLevel int `yaml:"command_heading_level"`

	// MarkerHeadingLevel is the heading level of phase and count markers
	MarkerHeadingLevel int `yaml:"marker_heading_level"`

	// LoginURL receives the bot's login form
	LoginURL string `yaml:"login_url"`

	// ReplyURL receives the bot's replies
	ReplyURL string `yaml:"reply_url"`

	// SnapshotHistory caps the snapshot store's cycle history
	SnapshotHistory int `yaml:"snapshot_history"`

	// Secrets come from the environment only
	Secrets Secrets `yaml:"-"`

	// ThreadID is derived from ThreadURL
	ThreadID int `yaml:"-"`
}

// Secrets holds credentials and infrastructure addresses
type Secrets struct {
	BotPassword          string `env:"MAFIA_BOT_PASSWORD"`
	RedisAddr            string `env:"MAFIA_REDIS_ADDR"`
	RedisPassword        string `env:"MAFIA_REDIS_PASSWORD"`
	DiscordToken         string `env:"MAFIA_DISCORD_TOKEN"`
	DiscordChannelID     string `env:"MAFIA_DISCORD_CHANNEL_ID"`
	DiscordApplicationID string `env:"MAFIA_DISCORD_APPLICATION_ID"`
	DiscordGuildID       string `env:"MAFIA_DISCORD_GUILD_ID"`
}

// LoadDotEnv loads a .env file into the environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load reads the config file at path and overlays the environment
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse decodes a YAML config, applies defaults and overlays the environment.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}

	if err := env.Parse(&cfg.Secrets); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.applyDefaults()

	if cfg.ThreadURL != "" {
		if cfg.ThreadID, err = ThreadIDFromURL(cfg.ThreadURL); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.PostPushInterval == 0 {
		c.PostPushInterval = defaultPostPushInterval
	}
	if c.PageSize == 0 {
		c.PageSize = models.DefaultPageSize
	}
	if c.CommandHeadingLevel == 0 {
		c.CommandHeadingLevel = models.DefaultCommandHeadingLevel
	}
	if c.MarkerHeadingLevel == 0 {
		c.MarkerHeadingLevel = models.DefaultMarkerHeadingLevel
	}
	if c.SnapshotHistory == 0 {
		c.SnapshotHistory = DefaultSnapshotHistory
	}
}

// Validate checks the configuration. The bot password and forum URLs are only
// needed when the bot really posts.
func (c *Config) Validate(dryRun bool) error {
	var errs []error

	required := map[string]string{
		"thread_url":  c.ThreadURL,
		"game_master": c.GameMaster,
		"bot_user":    c.BotUser,
		"rights_file": c.RightsFile,
	}
	if !dryRun {
		required["login_url"] = c.LoginURL
		required["reply_url"] = c.ReplyURL
		required["MAFIA_BOT_PASSWORD"] = c.Secrets.BotPassword
	}
	for _, name := range sortedKeys(required) {
		if strings.TrimSpace(required[name]) == "" {
			errs = append(errs, fmt.Errorf("%s is required", name))
		}
	}

	if c.PollInterval <= 0 {
		errs = append(errs, errors.New("poll_interval must be positive"))
	}
	if c.PostPushInterval <= 0 {
		errs = append(errs, errors.New("post_push_interval must be positive"))
	}
	if c.PageSize <= 0 {
		errs = append(errs, errors.New("page_size must be positive"))
	}
	if c.SnapshotHistory <= 0 {
		errs = append(errs, errors.New("snapshot_history must be positive"))
	}
	if !validHeadingLevel(c.CommandHeadingLevel) {
		errs = append(errs, fmt.Errorf("command_heading_level %d is outside 1..6", c.CommandHeadingLevel))
	}
	if !validHeadingLevel(c.MarkerHeadingLevel) {
		errs = append(errs, fmt.Errorf("marker_heading_level %d is outside 1..6", c.MarkerHeadingLevel))
	}
	if c.ThreadURL != "" && c.ThreadID <= 0 {
		errs = append(errs, errors.New("thread_url must end in a numeric thread id"))
	}
	if c.Secrets.DiscordToken != "" && c.Secrets.DiscordChannelID == "" {
		errs = append(errs, errors.New("MAFIA_DISCORD_CHANNEL_ID is required with MAFIA_DISCORD_TOKEN"))
	}

	return errors.Join(errs...)
}

// ThreadIDFromURL extracts the numeric id after the last '-' of the thread path
func ThreadIDFromURL(rawURL string) (int, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, fmt.Errorf("invalid thread_url: %w", err)
	}

	path := strings.TrimRight(u.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	i := strings.LastIndex(path, "-")
	if i < 0 {
		return 0, fmt.Errorf("thread_url %q has no thread id", rawURL)
	}

	id, err := strconv.Atoi(path[i+1:])
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("thread_url %q has no thread id", rawURL)
	}
	return id, nil
}

func validHeadingLevel(level int) bool {
	return level >= 1 && level <= 6
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
