package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"BOT_TOKEN", "WORK_CHAT_ID", "DB_PATH", "REDIS_ADDR", "REDIS_PASSWORD", "HTTP_ADDR", "LOG_FILE"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Cooldown() != time.Minute {
		t.Errorf("expected 60s cooldown, got %v", cfg.Cooldown())
	}
	if cfg.MediaGroupWindow() != time.Second {
		t.Errorf("expected 1s media window, got %v", cfg.MediaGroupWindow())
	}
	if cfg.PerPage != 8 {
		t.Errorf("expected PerPage=8, got %d", cfg.PerPage)
	}
	if cfg.LogFile != filepath.Join("logs", "bot.log") {
		t.Errorf("unexpected LogFile %q", cfg.LogFile)
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath != "questions.db" {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
}

func TestSave_And_Load(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.BotToken = "123:abc"
	cfg.WorkChatID = -1001
	cfg.Redis.Addr = "localhost:6379"
	cfg.PerPage = 5
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.BotToken != "123:abc" || loaded.WorkChatID != -1001 {
		t.Errorf("identity not preserved: %+v", loaded)
	}
	if loaded.Redis.Addr != "localhost:6379" || loaded.PerPage != 5 {
		t.Errorf("settings not preserved: %+v", loaded)
	}
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bot_token: t\nper_page: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PerPage != 8 || cfg.CooldownSeconds != 60 || cfg.Timezone != "UTC" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bot_token: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bot_token: from-file\nwork_chat_id: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("WORK_CHAT_ID", "-42")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BotToken != "from-env" || cfg.WorkChatID != -42 || cfg.Redis.Addr != "redis:6379" {
		t.Errorf("env not applied: %+v", cfg)
	}

	t.Setenv("WORK_CHAT_ID", "not-a-number")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed WORK_CHAT_ID")
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "bot_token") || !strings.Contains(err.Error(), "work_chat_id") {
		t.Errorf("error should name both missing fields: %v", err)
	}

	cfg.BotToken = "t"
	cfg.WorkChatID = -1
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
		check      func(*Config) bool
	}{
		{"work_chat_id", "-100500", false, func(c *Config) bool { return c.WorkChatID == -100500 }},
		{"WORK_CHAT_ID", "7", false, func(c *Config) bool { return c.WorkChatID == 7 }},
		{"work_chat_id", "abc", true, nil},
		{"cooldown_seconds", "30", false, func(c *Config) bool { return c.Cooldown() == 30*time.Second }},
		{"per_page", "0", true, nil},
		{"redis.db", "2", false, func(c *Config) bool { return c.Redis.DB == 2 }},
		{"debug", "true", false, func(c *Config) bool { return c.Debug }},
		{"http_allowed_origins", "https://a.example, ,https://b.example", false, func(c *Config) bool {
			return len(c.HTTPAllowedOrigins) == 2 && c.HTTPAllowedOrigins[1] == "https://b.example"
		}},
		{"timezone", "Not/AZone", true, nil},
		{"managers", "a,b", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			cfg := DefaultConfig()
			err := cfg.Set(tt.key, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q, %q) error = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("value not applied: %+v", cfg)
			}
		})
	}
}

func TestReadFileIgnoresEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("bot_token: from-file\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BotToken != "from-file" {
		t.Errorf("env leaked into file config: %q", cfg.BotToken)
	}
}
