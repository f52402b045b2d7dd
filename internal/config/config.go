// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kpauljoseph/pdfslice/pkg/utils"
)

const (
	DefaultPages                = 2
	DefaultPageWarningThreshold = 200
	DefaultMaxPages             = 10000
	DefaultPreviewDPI           = 72.0
)

type Config struct {
	Pages                int    `yaml:"pages"`
	OutputSuffix         string `yaml:"output_suffix"`
	CropBox              *bool  `yaml:"crop_box"`
	PageWarningThreshold int    `yaml:"page_warning_threshold"`
	MaxPages             int    `yaml:"max_pages"`
	Preview              struct {
		Dir string  `yaml:"dir"`
		DPI float64 `yaml:"dpi"`
	} `yaml:"preview"`
}

func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadOrDefault loads path when it exists and falls back to Default otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Pages == 0 {
		c.Pages = DefaultPages
	}
	if c.OutputSuffix == "" {
		c.OutputSuffix = utils.DefaultOutputSuffix
	}
	if c.CropBox == nil {
		enabled := true
		c.CropBox = &enabled
	}
	if c.PageWarningThreshold == 0 {
		c.PageWarningThreshold = DefaultPageWarningThreshold
	}
	if c.MaxPages == 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.Preview.DPI == 0 {
		c.Preview.DPI = DefaultPreviewDPI
	}
}

func (c *Config) Validate() error {
	if c.Pages < 1 {
		return fmt.Errorf("pages must be at least 1, got %d", c.Pages)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be at least 1, got %d", c.MaxPages)
	}
	if c.PageWarningThreshold < 1 {
		return fmt.Errorf("page_warning_threshold must be at least 1, got %d", c.PageWarningThreshold)
	}
	if c.Preview.DPI < 0 {
		return fmt.Errorf("preview dpi must be positive, got %.2f", c.Preview.DPI)
	}
	return nil
}

func (c *Config) SetCropBox() bool {
	return c.CropBox == nil || *c.CropBox
}
