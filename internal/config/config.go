// Package config loads YAML configuration files for the textile CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-textile/internal/fileutil"
	"github.com/alnah/go-textile/internal/hints"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrInputTooLarge   = errors.New("config input exceeds maximum size")
)

// MaxInputSize limits config files to prevent memory exhaustion (1MB).
const MaxInputSize = 1 << 20

// Field length limits.
const (
	MaxRelLength        = 100
	MaxLinkPrefixLength = 64
	MaxStyleLength      = 64
	MaxLangLength       = 35 // BCP 47 tags stay well below this
	MaxAllowedTags      = 100
	MaxSpanDepth        = 20
)

// Recognized output dialects.
var dialects = []string{"xhtml", "html5"}

// Config holds all configuration for a conversion run.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Textile TextileConfig `yaml:"textile"`
	Images  ImagesConfig  `yaml:"images"`
	Page    PageConfig    `yaml:"page"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = must specify
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = same as source
}

// TextileConfig mirrors the engine options.
type TextileConfig struct {
	Dialect      string   `yaml:"dialect"` // "xhtml" (default) or "html5"
	Restricted   bool     `yaml:"restricted"`
	Lite         bool     `yaml:"lite"`
	NoBlockTags  bool     `yaml:"noBlockTags"`
	Rel          string   `yaml:"rel"`
	LinkPrefix   string   `yaml:"linkPrefix"`
	MaxSpanDepth int      `yaml:"maxSpanDepth"` // 0 = engine default
	Sanitize     bool     `yaml:"sanitize"`
	AllowedTags  []string `yaml:"allowedTags"` // Empty = sanitizer default
}

// ImagesConfig controls image rendering.
type ImagesConfig struct {
	Disabled bool   `yaml:"disabled"`
	Sizes    bool   `yaml:"sizes"`   // Probe remote images for width/height
	Timeout  string `yaml:"timeout"` // Go duration, e.g. "3s"
}

// PageConfig controls standalone HTML output.
type PageConfig struct {
	Standalone bool   `yaml:"standalone"`
	Style      string `yaml:"style"`     // Name of an embedded or basePath stylesheet
	Lang       string `yaml:"lang"`      // <html lang>, default "en"
	Highlight  string `yaml:"highlight"` // Chroma style for bc blocks; empty = off
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// ProbeTimeout returns the parsed image probe timeout, or 0 when unset.
func (c ImagesConfig) ProbeTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: images.timeout %q", ErrInvalidValue, c.Timeout)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: images.timeout must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

// Validate checks enumerations, ranges and field lengths.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	t := c.Textile
	if t.Dialect != "" && !contains(dialects, strings.ToLower(t.Dialect)) {
		return fmt.Errorf("%w: textile.dialect %q (must be xhtml or html5)", ErrInvalidValue, t.Dialect)
	}
	if t.MaxSpanDepth < 0 || t.MaxSpanDepth > MaxSpanDepth {
		return fmt.Errorf("%w: textile.maxSpanDepth must be between 0 and %d, got %d", ErrInvalidValue, MaxSpanDepth, t.MaxSpanDepth)
	}
	if err := validateFieldLength("textile.rel", t.Rel, MaxRelLength); err != nil {
		return err
	}
	if err := validateFieldLength("textile.linkPrefix", t.LinkPrefix, MaxLinkPrefixLength); err != nil {
		return err
	}
	if len(t.AllowedTags) > MaxAllowedTags {
		return fmt.Errorf("%w: textile.allowedTags has %d entries (max %d)", ErrInvalidValue, len(t.AllowedTags), MaxAllowedTags)
	}
	for i, tag := range t.AllowedTags {
		if !isTagName(tag) {
			return fmt.Errorf("%w: textile.allowedTags[%d] %q is not a tag name", ErrInvalidValue, i, tag)
		}
	}

	if _, err := c.Images.ProbeTimeout(); err != nil {
		return err
	}

	if err := validateFieldLength("page.style", c.Page.Style, MaxStyleLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.lang", c.Page.Lang, MaxLangLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.highlight", c.Page.Highlight, MaxStyleLength); err != nil {
		return err
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

func isTagName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// DefaultConfig returns a neutral configuration: XHTML fragments with
// images on and every optional feature off.
func DefaultConfig() *Config {
	return &Config{
		Textile: TextileConfig{Dialect: "xhtml"},
		Page:    PageConfig{Lang: "en"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
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

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse decodes YAML strictly over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}

	cfg := DefaultConfig()
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-textile/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-textile", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s%s", ErrConfigNotFound, strings.Join(triedPaths, ", "), hints.ForConfigNotFound(triedPaths))
}
