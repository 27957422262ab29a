package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "WXMP_"

// envKeys maps config keys to the variables read after the optional file.
var envKeys = map[string]string{
	"app_id":              envPrefix + "APP_ID",
	"app_secret":          envPrefix + "APP_SECRET",
	"token":               envPrefix + "TOKEN",
	"base_url":            envPrefix + "BASE_URL",
	"use_backup_base_url": envPrefix + "USE_BACKUP_BASE_URL",
	"timeout":             envPrefix + "TIMEOUT",
	"redirect_url":        envPrefix + "REDIRECT_URL",
	"debug":               envPrefix + "DEBUG",
}

type fileConfig struct {
	AppID            string `yaml:"app_id"`
	AppSecret        string `yaml:"app_secret"`
	Token            string `yaml:"token"`
	BaseURL          string `yaml:"base_url"`
	UseBackupBaseURL *bool  `yaml:"use_backup_base_url"`
	Timeout          string `yaml:"timeout"`
	RedirectURL      string `yaml:"redirect_url"`
	Debug            *bool  `yaml:"debug"`
}

// loadEnvFile loads path into the process environment. A missing default
// file is not an error; variables already set are kept.
func loadEnvFile(path string, explicit bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("wxmp: env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("wxmp: env file %s: %w", path, err)
	}
	return nil
}

// loadRawConfig layers the YAML file under WXMP_* variables.
func loadRawConfig(path string, lookup func(string) (string, bool)) (map[string]any, error) {
	raw := map[string]any{}
	if path = strings.TrimSpace(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("wxmp: config file: %w", err)
		}
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("wxmp: config file %s: %w", path, err)
		}
		setString(raw, "app_id", file.AppID)
		setString(raw, "app_secret", file.AppSecret)
		setString(raw, "token", file.Token)
		setString(raw, "base_url", file.BaseURL)
		setString(raw, "redirect_url", file.RedirectURL)
		if file.UseBackupBaseURL != nil {
			raw["use_backup_base_url"] = *file.UseBackupBaseURL
		}
		if file.Debug != nil {
			raw["debug"] = *file.Debug
		}
		if file.Timeout != "" {
			timeout, err := time.ParseDuration(file.Timeout)
			if err != nil {
				return nil, fmt.Errorf("wxmp: config file timeout: %w", err)
			}
			raw["timeout"] = timeout
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	for key, name := range envKeys {
		value, ok := lookup(name)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "use_backup_base_url", "debug":
			parsed, err := strconv.ParseBool(value)
			if err != nil {
				return nil, fmt.Errorf("wxmp: %s: %w", name, err)
			}
			raw[key] = parsed
		case "timeout":
			parsed, err := time.ParseDuration(value)
			if err != nil {
				return nil, fmt.Errorf("wxmp: %s: %w", name, err)
			}
			raw[key] = parsed
		default:
			raw[key] = value
		}
	}
	return raw, nil
}

func setString(raw map[string]any, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		raw[key] = value
	}
}
