package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-leasepdf/internal/assets"
	"github.com/alnah/go-leasepdf/internal/dateutil"
	"github.com/alnah/go-leasepdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxURLLength     = 2048 // Browser limit
	MaxPathLength    = 4096
	MaxProxies       = 10
	MaxAddrLength    = 100
	MaxPageSizeLen   = 10 // "a4", "letter"
	MaxDateFmtLength = dateutil.MaxDateFormatLength
)

// Ranges enforced by Validate.
const (
	MinAttemptTimeout = 8 * time.Second
	MaxAttemptTimeout = 15 * time.Second
	MaxImageBytes     = 50 << 20
	MinMargin         = 5.0  // mm
	MaxMargin         = 40.0 // mm
	MinFontSize       = 8.0
	MaxFontSize       = 16.0
)

// Defaults.
const (
	DefaultAttemptTimeout = "10s"
	DefaultImageBytes     = 10 << 20
	DefaultPageSize       = "a4"
	DefaultMargin         = 20.0
	DefaultFontSize       = 11.0
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultServerAddr     = ":8080"
	DefaultMaxBodyBytes   = 5 << 20
)

// Config holds all configuration for contract generation.
type Config struct {
	Relay   RelayConfig   `yaml:"relay"`
	Page    PageConfig    `yaml:"page"`
	Output  OutputConfig  `yaml:"output"`
	Clauses ClausesConfig `yaml:"clauses"`
	Log     LogConfig     `yaml:"log"`
	Server  ServerConfig  `yaml:"server"`
}

// RelayConfig defines how remote images are fetched.
type RelayConfig struct {
	URL      string   `yaml:"url"`      // trusted relay, e.g. http://localhost:8080/relay
	Proxies  []string `yaml:"proxies"`  // third-party relays, tried in order
	Timeout  string   `yaml:"timeout"`  // per attempt, 8s to 15s (default: 10s)
	MaxBytes int64    `yaml:"maxBytes"` // per image (default: 10 MiB)
	Browser  bool     `yaml:"browser"`  // draw images in headless Chrome
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size     string  `yaml:"size"`     // "a4", "a5", "letter", "legal" (default: "a4")
	Margin   float64 `yaml:"margin"`   // mm (default: 20)
	FontSize float64 `yaml:"fontSize"` // points (default: 11)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir   string `yaml:"defaultDir"`   // empty = current directory
	FilenameDate string `yaml:"filenameDate"` // date token format (default: YYYYMMDD)
	Optimize     bool   `yaml:"optimize"`     // run the PDF optimizer on output
}

// ClausesConfig selects the clause set.
type ClausesConfig struct {
	Name     string `yaml:"name"`     // default: "standard"
	BasePath string `yaml:"basePath"` // empty = embedded sets only
}

// LogConfig defines logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// ServerConfig defines the HTTP server options.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes"`
}

// AttemptTimeout returns the parsed per-attempt timeout, or the default when
// unset or invalid. Validate reports invalid values.
func (r RelayConfig) AttemptTimeout() time.Duration {
	if d, err := time.ParseDuration(r.Timeout); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultAttemptTimeout)
	return d
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually (e.g., API adapters, library users).
func (c *Config) Validate() error {
	if err := c.validateRelay(); err != nil {
		return err
	}

	switch strings.ToLower(c.Page.Size) {
	case "", "a4", "a5", "letter", "legal":
	default:
		return fmt.Errorf("%w: page.size %q (must be a4, a5, letter or legal)", ErrInvalidValue, c.Page.Size)
	}
	if c.Page.Margin != 0 && (c.Page.Margin < MinMargin || c.Page.Margin > MaxMargin) {
		return fmt.Errorf("%w: page.margin must be between %.0f and %.0f mm, got %.1f", ErrInvalidValue, MinMargin, MaxMargin, c.Page.Margin)
	}
	if c.Page.FontSize != 0 && (c.Page.FontSize < MinFontSize || c.Page.FontSize > MaxFontSize) {
		return fmt.Errorf("%w: page.fontSize must be between %.0f and %.0f, got %.1f", ErrInvalidValue, MinFontSize, MaxFontSize, c.Page.FontSize)
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if c.Output.FilenameDate != "" {
		goFmt, err := dateutil.ParseDateFormat(c.Output.FilenameDate)
		if err != nil {
			return fmt.Errorf("output.filenameDate: %w", err)
		}
		if strings.ContainsAny(goFmt, "/\\:") {
			return fmt.Errorf("%w: output.filenameDate %q must not produce path separators", ErrInvalidValue, c.Output.FilenameDate)
		}
	}

	if c.Clauses.Name != "" {
		if err := assets.ValidateAssetName(c.Clauses.Name); err != nil {
			return fmt.Errorf("clauses.name: %w", err)
		}
	}
	if err := validateFieldLength("clauses.basePath", c.Clauses.BasePath, MaxPathLength); err != nil {
		return err
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn or error)", ErrInvalidValue, c.Log.Level)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be console or json)", ErrInvalidValue, c.Log.Format)
	}

	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("%w: server.maxBodyBytes must not be negative", ErrInvalidValue)
	}

	return nil
}

func (c *Config) validateRelay() error {
	if c.Relay.URL != "" {
		if err := validateEndpoint("relay.url", c.Relay.URL); err != nil {
			return err
		}
	}
	if len(c.Relay.Proxies) > MaxProxies {
		return fmt.Errorf("%w: relay.proxies has %d entries (max %d)", ErrInvalidValue, len(c.Relay.Proxies), MaxProxies)
	}
	for i, p := range c.Relay.Proxies {
		if err := validateEndpoint(fmt.Sprintf("relay.proxies[%d]", i), p); err != nil {
			return err
		}
	}
	if c.Relay.Timeout != "" {
		d, err := time.ParseDuration(c.Relay.Timeout)
		if err != nil {
			return fmt.Errorf("%w: relay.timeout %q: %v", ErrInvalidValue, c.Relay.Timeout, err)
		}
		if d < MinAttemptTimeout || d > MaxAttemptTimeout {
			return fmt.Errorf("%w: relay.timeout must be between %s and %s, got %s", ErrInvalidValue, MinAttemptTimeout, MaxAttemptTimeout, d)
		}
	}
	if c.Relay.MaxBytes < 0 || c.Relay.MaxBytes > MaxImageBytes {
		return fmt.Errorf("%w: relay.maxBytes must be between 0 and %d, got %d", ErrInvalidValue, MaxImageBytes, c.Relay.MaxBytes)
	}
	return nil
}

// validateEndpoint accepts absolute http(s) URLs. A "{url}" placeholder is
// allowed anywhere in the template.
func validateEndpoint(field, raw string) error {
	if err := validateFieldLength(field, raw, MaxURLLength); err != nil {
		return err
	}
	u, err := url.Parse(strings.ReplaceAll(raw, "{url}", "x"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s %q (must be an absolute http or https URL)", ErrInvalidValue, field, raw)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Relay: RelayConfig{
			Timeout:  DefaultAttemptTimeout,
			MaxBytes: DefaultImageBytes,
		},
		Page: PageConfig{
			Size:     DefaultPageSize,
			Margin:   DefaultMargin,
			FontSize: DefaultFontSize,
		},
		Output:  OutputConfig{FilenameDate: dateutil.DefaultFilenameFormat},
		Clauses: ClausesConfig{Name: assets.DefaultClauseSetName},
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Server:  ServerConfig{Addr: DefaultServerAddr, MaxBodyBytes: DefaultMaxBodyBytes},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Keys absent from the file keep their DefaultConfig value.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/leasepdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "leasepdf", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
