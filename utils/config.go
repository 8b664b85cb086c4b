package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	// DefaultProbability is the live-cell chance Randomize uses unless configured
	DefaultProbability = 0.5
)

// Config holds the configuration for the game
type Config struct {
	TotalWidth  int     `json:"total_width" yaml:"total_width"`
	TotalHeight int     `json:"total_height" yaml:"total_height"`
	CellSize    int     `json:"cell_size" yaml:"cell_size"`
	IntervalMs  int     `json:"interval_ms" yaml:"interval_ms"`
	Probability float64 `json:"probability" yaml:"probability"`
	Seed        int64   `json:"seed" yaml:"seed"`
	Theme       string  `json:"theme" yaml:"theme"`

	// Headless runner settings
	MaxGenerations      int  `json:"max_generations" yaml:"max_generations"`
	StagnationThreshold int  `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	UseMemoryPool       bool `json:"use_memory_pool" yaml:"use_memory_pool"`

	// Restart policy of the headless runner
	AutoRestart    bool `json:"auto_restart" yaml:"auto_restart"`
	InjectionCount int  `json:"injection_count" yaml:"injection_count"`
	RefreshEvery   int  `json:"refresh_every" yaml:"refresh_every"` // generations, 0 disables
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		TotalWidth:          800,
		TotalHeight:         600,
		CellSize:            20,
		IntervalMs:          100,
		Probability:         DefaultProbability,
		Theme:               ThemeLight,
		MaxGenerations:      100,
		StagnationThreshold: 5,
		UseMemoryPool:       true,
		InjectionCount:      3,
		RefreshEvery:        200,
	}
}

// Dimensions derives the board size from the pixel configuration. Pixels that
// do not fill a whole cell are truncated.
func (c Config) Dimensions() (rows, cols int) {
	if c.CellSize <= 0 {
		return 0, 0
	}
	return c.TotalHeight / c.CellSize, c.TotalWidth / c.CellSize
}

// Interval returns IntervalMs as a duration
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Validate reports the first unusable setting
func (c Config) Validate() error {
	if c.TotalWidth <= 0 || c.TotalHeight <= 0 || c.CellSize <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] non-positive size: %dx%d cell %d",
			c.TotalWidth, c.TotalHeight, c.CellSize)
	}
	if rows, cols := c.Dimensions(); rows == 0 || cols == 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] cell size %d leaves an empty board", c.CellSize)
	}
	if c.IntervalMs <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] non-positive interval: %d", c.IntervalMs)
	}
	if c.Probability < 0 || c.Probability > 1 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] probability outside [0,1]: %v", c.Probability)
	}
	if c.InjectionCount < 0 || c.RefreshEvery < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] negative restart setting: inject %d refresh %d",
			c.InjectionCount, c.RefreshEvery)
	}
	if c.Theme != ThemeLight && c.Theme != ThemeDark {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] unknown theme: %+v", c.Theme)
	}
	return nil
}

// LoadConfig loads configuration from a JSON or YAML file
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}
