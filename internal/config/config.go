package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// StorageKey is the single local-storage key holding the config blob.
const StorageKey = "shoplist-config"

// Environment overrides, applied field by field over the stored blob.
const (
	EnvURL   = "SHOPLIST_URL"
	EnvToken = "SHOPLIST_TOKEN"
)

// Blob is the slice of the local store the config needs.
type Blob interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Config is the backend endpoint and its access token.
type Config struct {
	TableURL string `json:"tableUrl"`
	Token    string `json:"token"`
	Source   string `json:"-"` // "store" | "env" (env wins when both contribute)
}

// Complete reports whether both the endpoint and the token are set.
func (c Config) Complete() bool {
	return strings.TrimSpace(c.TableURL) != "" && strings.TrimSpace(c.Token) != ""
}

// Validate checks the endpoint is an absolute http(s) URL and a token is present.
func (c Config) Validate() error {
	if strings.TrimSpace(c.TableURL) == "" {
		return errors.New("empty table url")
	}
	u, err := url.Parse(c.TableURL)
	if err != nil {
		return fmt.Errorf("table url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("table url must be an absolute http(s) url: %q", c.TableURL)
	}
	if strings.TrimSpace(c.Token) == "" {
		return errors.New("empty token")
	}
	return nil
}

// MaskedToken shows only the last four characters of the token.
func (c Config) MaskedToken() string {
	t := c.Token
	if len(t) <= 4 {
		return strings.Repeat("*", len(t))
	}
	return strings.Repeat("*", len(t)-4) + t[len(t)-4:]
}

// Load reads the stored blob and applies environment overrides. It
// returns nil, nil when nothing is configured anywhere.
func Load(s Blob) (*Config, error) {
	var cfg Config
	b, ok, err := s.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if ok {
		if err := json.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		cfg.Source = "store"
	}

	if v := strings.TrimSpace(os.Getenv(EnvURL)); v != "" {
		cfg.TableURL = v
		cfg.Source = "env"
	}
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		cfg.Token = v
		cfg.Source = "env"
	}
	if cfg.Source == "" {
		return nil, nil
	}
	cfg.Token = stripBearer(cfg.Token)
	return &cfg, nil
}

// Normalized trims both fields and drops a "Bearer " token prefix.
func (c Config) Normalized() Config {
	c.TableURL = strings.TrimSpace(c.TableURL)
	c.Token = stripBearer(strings.TrimSpace(c.Token))
	return c
}

// Save validates cfg and writes it as the config blob.
func Save(s Blob, cfg Config) error {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return err
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := s.Set(StorageKey, b); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Clear removes the stored blob. Environment overrides are untouched.
func Clear(s Blob) error {
	if err := s.Delete(StorageKey); err != nil {
		return fmt.Errorf("remove config: %w", err)
	}
	return nil
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
