// Package config loads the service configuration from YAML and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Port is the HTTP listen port.
	Port string `yaml:"port"`

	// DBPath is the SQLite file. ":memory:" keeps everything in process.
	DBPath string `yaml:"db_path"`

	LogLevel string `yaml:"log_level"`

	// Timezone is the IANA zone in which calendar days are computed.
	Timezone string `yaml:"timezone"`

	// FallbackUser is the identity used by the agenda when a request carries
	// no user name.
	FallbackUser string `yaml:"fallback_user"`

	// ReminderCron is the standard five-field schedule of the morning agenda
	// summary. Empty disables it.
	ReminderCron string `yaml:"reminder_cron"`

	SessionTTL time.Duration `yaml:"session_ttl"`

	// LoginRateLimit is the number of login attempts allowed per IP per minute.
	LoginRateLimit int `yaml:"login_rate_limit"`

	// TrustedProxies lists the addresses or CIDR ranges of reverse proxies
	// whose X-Forwarded-For and X-Real-IP headers are believed. Empty means
	// the peer address is always the client.
	TrustedProxies []string `yaml:"trusted_proxies"`

	// Fixtures optionally points at a YAML dataset used instead of the
	// embedded demo data.
	Fixtures string `yaml:"fixtures"`

	// VAPID keys enable Web Push delivery. Both or neither must be set.
	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
	PushSubject     string `yaml:"push_subject"`
}

const (
	defaultPort         = "8080"
	defaultDBPath       = ":memory:"
	defaultLogLevel     = "info"
	defaultTimezone     = "America/Sao_Paulo"
	defaultFallbackUser = "Thiago"
	defaultReminderCron = "0 7 * * 1-5"
	defaultSessionTTL   = 12 * time.Hour
	defaultLoginLimit   = 5
	defaultPushSubject  = "agenda@siag.local"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Port:           defaultPort,
		DBPath:         defaultDBPath,
		LogLevel:       defaultLogLevel,
		Timezone:       defaultTimezone,
		FallbackUser:   defaultFallbackUser,
		ReminderCron:   defaultReminderCron,
		SessionTTL:     defaultSessionTTL,
		LoginRateLimit: defaultLoginLimit,
		PushSubject:    defaultPushSubject,
	}
}

// Normalize fills zero values with defaults. ReminderCron is left alone so
// an explicit empty value can disable the reminder.
func (c *Config) Normalize() {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.DBPath == "" {
		c.DBPath = defaultDBPath
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.FallbackUser == "" {
		c.FallbackUser = defaultFallbackUser
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = defaultSessionTTL
	}
	if c.LoginRateLimit <= 0 {
		c.LoginRateLimit = defaultLoginLimit
	}
	if c.PushSubject == "" {
		c.PushSubject = defaultPushSubject
	}
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q: want debug, info, warn or error", c.LogLevel))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone %q: %w", c.Timezone, err))
	}
	if c.ReminderCron != "" {
		if _, err := cron.ParseStandard(c.ReminderCron); err != nil {
			errs = append(errs, fmt.Errorf("reminder_cron %q: %w", c.ReminderCron, err))
		}
	}
	if _, err := ParsePrefixes(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("trusted_proxies: %w", err))
	}
	if (c.VAPIDPublicKey == "") != (c.VAPIDPrivateKey == "") {
		errs = append(errs, errors.New("vapid_public_key and vapid_private_key must be set together"))
	}
	return errors.Join(errs...)
}

// PushEnabled reports whether Web Push keys are configured.
func (c *Config) PushEnabled() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != ""
}

// ParsePrefixes reads IP addresses and CIDR ranges. A bare address becomes
// a single-host prefix.
func ParsePrefixes(specs []string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, s := range specs {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.Contains(s, "/") {
			p, err := netip.ParsePrefix(s)
			if err != nil {
				return nil, err
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(s)
		if err != nil {
			return nil, err
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

// ProxyPrefixes returns the parsed TrustedProxies. Invalid entries are
// rejected by Validate, so they are skipped here.
func (c *Config) ProxyPrefixes() []netip.Prefix {
	var out []netip.Prefix
	for _, s := range c.TrustedProxies {
		p, err := ParsePrefixes([]string{s})
		if err != nil {
			continue
		}
		out = append(out, p...)
	}
	return out
}

// Location returns the configured time zone, or UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads path, applies environment overrides and validates the result.
// A missing file yields the defaults; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from SIAG_* variables read through getenv.
// SIAG_REMINDER_CRON=off disables the reminder.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("SIAG_PORT"); v != "" {
		c.Port = v
	}
	if v := getenv("SIAG_DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := getenv("SIAG_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("SIAG_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := getenv("SIAG_FALLBACK_USER"); v != "" {
		c.FallbackUser = v
	}
	if v := getenv("SIAG_REMINDER_CRON"); v != "" {
		if v == "off" {
			v = ""
		}
		c.ReminderCron = v
	}
	if v := getenv("SIAG_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SIAG_SESSION_TTL: %w", err)
		}
		c.SessionTTL = d
	}
	if v := getenv("SIAG_TRUSTED_PROXIES"); v != "" {
		c.TrustedProxies = strings.Split(v, ",")
	}
	if v := getenv("SIAG_FIXTURES"); v != "" {
		c.Fixtures = v
	}
	if v := getenv("SIAG_VAPID_PUBLIC_KEY"); v != "" {
		c.VAPIDPublicKey = v
	}
	if v := getenv("SIAG_VAPID_PRIVATE_KEY"); v != "" {
		c.VAPIDPrivateKey = v
	}
	if v := getenv("SIAG_PUSH_SUBJECT"); v != "" {
		c.PushSubject = v
	}
	return nil
}

// Path returns the config file path named by SIAG_CONFIG, or "siag.yaml".
func Path() string {
	if p := os.Getenv("SIAG_CONFIG"); p != "" {
		return p
	}
	return "siag.yaml"
}
