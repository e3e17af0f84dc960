package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
server:
  host: 0.0.0.0
  port: 8080
database:
  host: localhost
  port: 5432
  name: trainload
  user: trainload
  password: secret
auth:
  api_key: test-key
telegram:
  enabled: false
llm:
  model: gemini-2.5-flash
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "trainload" {
		t.Errorf("Database.Name = %q, want %q", cfg.Database.Name, "trainload")
	}
	if cfg.Auth.APIKey != "test-key" {
		t.Errorf("Auth.APIKey = %q, want %q", cfg.Auth.APIKey, "test-key")
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("LLM.Model = %q, want %q", cfg.LLM.Model, "gemini-2.5-flash")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TRAINLOAD_SERVER_PORT", "9090")
	t.Setenv("TRAINLOAD_DB_PASSWORD", "from-env")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Password != "from-env" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "from-env")
	}
}

// TestTelegramTokenEnvEnables verifies that supplying a bot token via env
// also flips the enabled flag, so a token alone is enough to run the bot.
func TestTelegramTokenEnvEnables(t *testing.T) {
	t.Setenv("TRAINLOAD_TELEGRAM_TOKEN", "123:abc")

	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Telegram.Enabled {
		t.Error("Telegram.Enabled = false, want true after token override")
	}
	if cfg.Telegram.Token != "123:abc" {
		t.Errorf("Telegram.Token = %q, want %q", cfg.Telegram.Token, "123:abc")
	}
}

func TestValidationMissingPort(t *testing.T) {
	yaml := strings.Replace(validYAML, "port: 8080", "port: 0", 1)
	_, err := Load(writeConfig(t, yaml))
	if err == nil {
		t.Fatal("Load succeeded, want validation error for missing server.port")
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("error = %q, want mention of server.port", err)
	}
}

func TestValidationMissingAPIKey(t *testing.T) {
	yaml := strings.Replace(validYAML, "api_key: test-key", "api_key: \"\"", 1)
	_, err := Load(writeConfig(t, yaml))
	if err == nil {
		t.Fatal("Load succeeded, want validation error for missing auth.api_key")
	}
}

func TestValidationTelegramToken(t *testing.T) {
	yaml := strings.Replace(validYAML, "enabled: false", "enabled: true", 1)
	_, err := Load(writeConfig(t, yaml))
	if err == nil {
		t.Fatal("Load succeeded, want validation error for enabled telegram without token")
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		Name:     "trainload",
		User:     "app",
		Password: "pw",
		SSLMode:  "require",
	}
	want := "postgres://app:pw@db.internal:5433/trainload?sslmode=require"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestDSNDefaultSSLMode(t *testing.T) {
	d := DatabaseConfig{Host: "localhost", Port: 5432, Name: "t", User: "u", Password: "p"}
	if got := d.DSN(); !strings.HasSuffix(got, "sslmode=disable") {
		t.Errorf("DSN() = %q, want sslmode=disable suffix", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load succeeded, want error for missing file")
	}
}
