package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	BotToken   string `yaml:"bot_token"`
	WorkChatID int64  `yaml:"work_chat_id"`

	DBPath string `yaml:"db_path"`

	// Intake
	CooldownSeconds    int `yaml:"cooldown_seconds"`
	MediaGroupWindowMS int `yaml:"media_group_window_ms"`

	// Listing
	PerPage  int    `yaml:"per_page"`
	Timezone string `yaml:"timezone"`

	// Redis is optional; an empty address keeps cooldowns in memory.
	Redis RedisConfig `yaml:"redis"`

	// HTTPAddr enables the health endpoint when set, e.g. ":8081".
	HTTPAddr           string   `yaml:"http_addr"`
	HTTPAllowedOrigins []string `yaml:"http_allowed_origins"`

	LogFile string `yaml:"log_file"`
	PIDFile string `yaml:"pid_file"`
	Debug   bool   `yaml:"debug"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		DBPath:             "questions.db",
		CooldownSeconds:    60,
		MediaGroupWindowMS: 1000,
		PerPage:            8,
		Timezone:           "UTC",
		LogFile:            filepath.Join("logs", "bot.log"),
		PIDFile:            "bot.pid",
	}
}

// Load reads the YAML file at path, then .env, then the environment.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	return cfg, nil
}

// ReadFile reads only the YAML file, without environment overrides. It is
// what botctl edits and saves back.
func ReadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		c.BotToken = v
	}
	if v := os.Getenv("WORK_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("WORK_CHAT_ID: %w", err)
		}
		c.WorkChatID = id
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		c.LogFile = v
	}
	return nil
}

func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.DBPath == "" {
		c.DBPath = def.DBPath
	}
	if c.CooldownSeconds <= 0 {
		c.CooldownSeconds = def.CooldownSeconds
	}
	if c.MediaGroupWindowMS <= 0 {
		c.MediaGroupWindowMS = def.MediaGroupWindowMS
	}
	if c.PerPage <= 0 {
		c.PerPage = def.PerPage
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.PIDFile == "" {
		c.PIDFile = def.PIDFile
	}
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

func (c *Config) MediaGroupWindow() time.Duration {
	return time.Duration(c.MediaGroupWindowMS) * time.Millisecond
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Validate reports what is missing before the bot can start.
func (c *Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("bot_token is not set"))
	}
	if c.WorkChatID == 0 {
		errs = append(errs, errors.New("work_chat_id is not set"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	return errors.Join(errs...)
}

// Keys lists the names accepted by Set.
func Keys() []string {
	return []string{
		"bot_token", "work_chat_id", "db_path",
		"cooldown_seconds", "media_group_window_ms",
		"per_page", "timezone",
		"redis.addr", "redis.password", "redis.db",
		"http_addr", "http_allowed_origins",
		"log_file", "pid_file", "debug",
	}
}

// Set assigns one value by its YAML key, parsing it to the field's type.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	var err error
	switch strings.ToLower(key) {
	case "bot_token":
		c.BotToken = value
	case "work_chat_id":
		c.WorkChatID, err = strconv.ParseInt(value, 10, 64)
	case "db_path":
		c.DBPath = value
	case "cooldown_seconds":
		c.CooldownSeconds, err = positiveInt(value)
	case "media_group_window_ms":
		c.MediaGroupWindowMS, err = positiveInt(value)
	case "per_page":
		c.PerPage, err = positiveInt(value)
	case "timezone":
		if _, err = time.LoadLocation(value); err == nil {
			c.Timezone = value
		}
	case "redis.addr":
		c.Redis.Addr = value
	case "redis.password":
		c.Redis.Password = value
	case "redis.db":
		c.Redis.DB, err = strconv.Atoi(value)
	case "http_addr":
		c.HTTPAddr = value
	case "http_allowed_origins":
		c.HTTPAllowedOrigins = splitTrim(value, ",")
	case "log_file":
		c.LogFile = value
	case "pid_file":
		c.PIDFile = value
	case "debug":
		c.Debug, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("unknown key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func splitTrim(s, sep string) []string {
	var out []string
	for _, v := range strings.Split(s, sep) {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
