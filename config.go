package canopy

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds engine-wide settings. Zero fields are filled from
// DefaultConfig by NewEngine.
type Config struct {
	// Screen resolution in pixels.
	Width  int `toml:"width" yaml:"width"`
	Height int `toml:"height" yaml:"height"`

	// FrameRate is the target logical frame rate. Zero selects 40 for
	// APIVersion 1 and 60 otherwise.
	FrameRate      int  `toml:"frame_rate" yaml:"frame_rate"`
	AllowFrameSkip bool `toml:"allow_frame_skip" yaml:"allow_frame_skip"`

	// VerticalSort keys sprites by (z, y) instead of (z).
	VerticalSort bool `toml:"vertical_sort" yaml:"vertical_sort"`

	// APIVersion selects RGSS 1, 2 or 3 behaviour for windows and defaults.
	APIVersion int `toml:"api_version" yaml:"api_version"`

	// DisableBatching turns off adjacency merging of sprite draws, so every
	// sprite issues its own draw call.
	DisableBatching bool `toml:"disable_batching" yaml:"disable_batching"`

	// MaxTextureSize caps bitmap dimensions below the device limit. Zero
	// uses the device limit.
	MaxTextureSize int `toml:"max_texture_size" yaml:"max_texture_size"`

	DefaultFont string  `toml:"default_font" yaml:"default_font"`
	FontSize    float64 `toml:"font_size" yaml:"font_size"`

	// AssetDir is the root for LoadBitmap and font paths. AssetFS, when set,
	// takes precedence.
	AssetDir string `toml:"asset_dir" yaml:"asset_dir"`
	AssetFS  fs.FS  `toml:"-" yaml:"-"`

	// Debug logs per-frame statistics at debug level.
	Debug bool `toml:"debug" yaml:"debug"`

	// ScreenshotDir is where Screen.Screenshot writes PNG files.
	ScreenshotDir string `toml:"screenshot_dir" yaml:"screenshot_dir"`
}

// DefaultConfig returns RGSS-like defaults for API version 3.
func DefaultConfig() Config {
	return Config{
		Width:         640,
		Height:        480,
		FrameRate:     60,
		APIVersion:    3,
		FontSize:      24,
		AssetDir:      ".",
		ScreenshotDir: "screenshots",
	}
}

// defaultFrameRate returns the RGSS frame rate for an API version.
func defaultFrameRate(api int) int {
	if api == 1 {
		return 40
	}
	return 60
}

// withDefaults fills zero fields.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.APIVersion <= 0 {
		c.APIVersion = d.APIVersion
	}
	if c.FrameRate <= 0 {
		c.FrameRate = defaultFrameRate(c.APIVersion)
	}
	if c.FontSize <= 0 {
		c.FontSize = d.FontSize
	}
	if c.AssetDir == "" {
		c.AssetDir = d.AssetDir
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = d.ScreenshotDir
	}
	return c
}

// Validate reports settings that cannot be honoured.
func (c Config) Validate() error {
	if c.APIVersion < 1 || c.APIVersion > 3 {
		return opError("config", fmt.Errorf("api_version %d: %w", c.APIVersion, ErrOutOfRange))
	}
	if c.Width <= 0 || c.Height <= 0 {
		return opError("config", fmt.Errorf("resolution %dx%d: %w", c.Width, c.Height, ErrInvalidSize))
	}
	return nil
}

// LoadConfig reads a TOML (.toml) or YAML (.yaml, .yml) file on top of
// DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, opError("load config", err)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes data in the format named by ext.
func ParseConfig(data []byte, ext string) (Config, error) {
	cfg := DefaultConfig()
	cfg.FrameRate = 0
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, opError("parse config", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, opError("parse config", err)
		}
	default:
		return Config{}, opError("parse config", fmt.Errorf("unknown format %q", ext))
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = defaultFrameRate(cfg.APIVersion)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
