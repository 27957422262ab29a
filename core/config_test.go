package core

import (
	"context"
	"testing"
	"time"
)

func TestConfig_ResolvedBaseURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "default", cfg: Config{}, want: DefaultBaseURL},
		{name: "backup", cfg: Config{UseBackupBaseURL: true}, want: BackupBaseURL},
		{name: "override wins over backup", cfg: Config{BaseURL: "http://127.0.0.1:8080/", UseBackupBaseURL: true}, want: "http://127.0.0.1:8080"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cfg.ResolvedBaseURL(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestConfig_ValidateRequiresAppCredentials(t *testing.T) {
	if err := (Config{AppSecret: "s"}).Validate(); !IsConfigurationError(err) {
		t.Fatalf("expected configuration error for missing app id, got %v", err)
	}
	if err := (Config{AppID: "wx1"}).Validate(); !IsConfigurationError(err) {
		t.Fatalf("expected configuration error for missing app secret, got %v", err)
	}
	if err := (Config{AppID: "wx1", AppSecret: "s"}).Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestConfig_ResolvedTimeoutDefaults(t *testing.T) {
	if got := (Config{}).ResolvedTimeout(); got != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", got)
	}
	if got := (Config{Timeout: 3 * time.Second}).ResolvedTimeout(); got != 3*time.Second {
		t.Fatalf("expected configured timeout, got %s", got)
	}
}

func TestLoadConfig_RuntimeOverridesLoaded(t *testing.T) {
	provider := NewCfgxConfigProvider(StaticRawConfigLoader{Values: map[string]any{
		"app_id":       "wx-from-file",
		"app_secret":   "secret-from-file",
		"redirect_url": "https://example.com/callback",
	}})

	cfg, err := LoadConfig(context.Background(), provider, GoOptionsResolver{}, Config{AppID: "wx-runtime"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AppID != "wx-runtime" {
		t.Fatalf("expected runtime app id, got %q", cfg.AppID)
	}
	if cfg.AppSecret != "secret-from-file" {
		t.Fatalf("expected file app secret, got %q", cfg.AppSecret)
	}
	if cfg.RedirectURL != "https://example.com/callback" {
		t.Fatalf("expected file redirect url, got %q", cfg.RedirectURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Fatalf("expected default timeout, got %s", cfg.Timeout)
	}
}

func TestLoadConfig_FailsWithoutCredentials(t *testing.T) {
	if _, err := LoadConfig(context.Background(), nil, nil, Config{}); err == nil {
		t.Fatalf("expected validation failure without app credentials")
	}
}
