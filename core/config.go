package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.weixin.qq.com"
	BackupBaseURL  = "https://api2.weixin.qq.com"
	DefaultTimeout = 10 * time.Second
)

type Config struct {
	AppID            string        `koanf:"app_id" mapstructure:"app_id"`
	AppSecret        string        `koanf:"app_secret" mapstructure:"app_secret"`
	Token            string        `koanf:"token" mapstructure:"token"`
	BaseURL          string        `koanf:"base_url" mapstructure:"base_url"`
	UseBackupBaseURL bool          `koanf:"use_backup_base_url" mapstructure:"use_backup_base_url"`
	Timeout          time.Duration `koanf:"timeout" mapstructure:"timeout"`
	RedirectURL      string        `koanf:"redirect_url" mapstructure:"redirect_url"`
	Debug            bool          `koanf:"debug" mapstructure:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Timeout: DefaultTimeout,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.AppID) == "" {
		return ConfigurationError("core: app_id is required")
	}
	if strings.TrimSpace(c.AppSecret) == "" {
		return ConfigurationError("core: app_secret is required")
	}
	if c.Timeout < 0 {
		return ConfigurationError(fmt.Sprintf("core: timeout must not be negative, got %s", c.Timeout))
	}
	return nil
}

// ResolvedBaseURL applies the override > backup > default precedence.
func (c Config) ResolvedBaseURL() string {
	if base := strings.TrimSpace(c.BaseURL); base != "" {
		return strings.TrimRight(base, "/")
	}
	if c.UseBackupBaseURL {
		return BackupBaseURL
	}
	return DefaultBaseURL
}

func (c Config) ResolvedTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
