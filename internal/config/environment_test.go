package config

import "testing"

func TestGetConfigDefaults(t *testing.T) {
	cfg := GetConfig()
	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.DBPath != "data/portfolio.db" || cfg.DataPath != "data" {
		t.Errorf("Unexpected default paths: %+v", cfg)
	}
}

func TestGetConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_PORT", "9000")
	t.Setenv("PORTFOLIO_DB_PATH", "/tmp/test.db")
	t.Setenv("PORTFOLIO_REMOTE_URL", "https://origin.example.com")
	t.Setenv("PORTFOLIO_CONTACT_URL", "https://contact.example.com/send")
	t.Setenv("PORTFOLIO_GITHUB_USER", "someone")

	cfg := GetConfig()
	if cfg.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Port)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("Expected overridden DB path, got %q", cfg.DBPath)
	}
	if cfg.RemoteBaseURL != "https://origin.example.com" {
		t.Errorf("Expected remote URL override, got %q", cfg.RemoteBaseURL)
	}
	if cfg.ContactURL != "https://contact.example.com/send" || cfg.GitHubUser != "someone" {
		t.Errorf("Unexpected overrides: %+v", cfg)
	}
}

func TestGetConfigIgnoresBadPort(t *testing.T) {
	t.Setenv("PORTFOLIO_PORT", "not-a-number")
	if cfg := GetConfig(); cfg.Port != 8080 {
		t.Errorf("Expected default port for invalid value, got %d", cfg.Port)
	}
}

func TestGetAddress(t *testing.T) {
	cfg := Config{Port: 8080}
	if got := cfg.GetAddress(); got != ":8080" {
		t.Errorf("Expected :8080, got %q", got)
	}
}
