package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"filechooser/internal/errors"

	"gopkg.in/yaml.v3"
)

// Default sizing for scans and the rendered list.
const (
	DefaultSyncThreshold = 1000
	DefaultRenderCap     = 500
	DefaultBatchSize     = 32
	DefaultWorkers       = 4
	DefaultIconTheme     = "Adwaita"
)

// Config represents the chooser configuration.
type Config struct {
	Browser struct {
		StartDir      string `yaml:"start_dir"`      // Directory opened when no folder is requested
		ShowHidden    bool   `yaml:"show_hidden"`    // Show dot-files
		PreviewImages bool   `yaml:"preview_images"` // Render image thumbnails instead of icons
		Watch         bool   `yaml:"watch"`          // Rescan the current directory when it changes
	} `yaml:"browser"`
	Scan struct {
		SyncThreshold int  `yaml:"sync_threshold"` // Directories smaller than this are read in one go
		BatchSize     int  `yaml:"batch_size"`     // Entries classified per incremental step
		Workers       int  `yaml:"workers"`        // Parallel classifiers per batch
		RenderCap     int  `yaml:"render_cap"`     // Maximum entries handed to the view
		ContentSniff  bool `yaml:"content_sniff"`  // Read file headers when the name gives no type
	} `yaml:"scan"`
	Icons struct {
		Theme       string   `yaml:"theme"`        // Icon theme name
		SearchPaths []string `yaml:"search_paths"` // Extra icon base directories
	} `yaml:"icons"`
	Logging struct {
		Debug bool   `yaml:"debug"`
		JSON  bool   `yaml:"json"`
		File  string `yaml:"file"`
	} `yaml:"logging"`
	Theme ThemeConfig `yaml:"theme"`
}

// ThemeConfig holds the terminal color palette. Colors left empty are
// filled from the named palette.
type ThemeConfig struct {
	Name     string `yaml:"name"`     // Palette name (default, dark, light, monochrome)
	Primary  string `yaml:"primary"`  // Titles and the cursor
	Success  string `yaml:"success"`  // Selected entries
	Warning  string `yaml:"warning"`  // Partial listings
	Error    string `yaml:"error"`    // Error messages
	Info     string `yaml:"info"`     // Directories
	Emphasis string `yaml:"emphasis"` // Highlighted text
	Border   string `yaml:"border"`   // Frames
}

// DefaultPath returns ~/.config/filechooser/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "filechooser", "config.yaml"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/filechooser/config.yaml).
func LoadConfig() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(configPath)
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration. Keys present in
// the file override the defaults; absent keys keep them.
func LoadConfigFile(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.ConfigNotFound, err)
	}

	cfg.Theme = ThemeConfig{Name: "default"}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.InvalidConfig, err)
	}
	cfg.fillTheme()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

// defaultConfig returns the default configuration.
func defaultConfig() *Config {
	cfg := &Config{}

	cfg.Browser.StartDir = "" // Home directory
	cfg.Browser.ShowHidden = false
	cfg.Browser.PreviewImages = true
	cfg.Browser.Watch = true

	cfg.Scan.SyncThreshold = DefaultSyncThreshold
	cfg.Scan.BatchSize = DefaultBatchSize
	cfg.Scan.Workers = DefaultWorkers
	cfg.Scan.RenderCap = DefaultRenderCap
	cfg.Scan.ContentSniff = false

	cfg.Icons.Theme = DefaultIconTheme
	cfg.Icons.SearchPaths = []string{}

	cfg.ApplyTheme("default")

	return cfg
}

func (c *Config) fillTheme() {
	palette := GetTheme(c.Theme.Name)
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = palette[key]
		}
	}
	fill(&c.Theme.Primary, "primary")
	fill(&c.Theme.Success, "success")
	fill(&c.Theme.Warning, "warning")
	fill(&c.Theme.Error, "error")
	fill(&c.Theme.Info, "info")
	fill(&c.Theme.Emphasis, "emphasis")
	fill(&c.Theme.Border, "border")
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	if c.Scan.SyncThreshold < 1 {
		return errors.NewConfigError("must be >= 1", "scan.sync_threshold", errors.InvalidConfig, nil)
	}
	if c.Scan.BatchSize < 1 {
		return errors.NewConfigError("must be >= 1", "scan.batch_size", errors.InvalidConfig, nil)
	}
	if c.Scan.Workers < 1 || c.Scan.Workers > 64 {
		return errors.NewConfigError("must be between 1 and 64", "scan.workers", errors.InvalidConfig, nil)
	}
	if c.Scan.RenderCap < 1 {
		return errors.NewConfigError("must be >= 1", "scan.render_cap", errors.InvalidConfig, nil)
	}
	if c.Icons.Theme == "" {
		return errors.NewConfigError("theme name is required", "icons.theme", errors.InvalidConfig, nil)
	}
	for i, p := range c.Icons.SearchPaths {
		if p == "" {
			return errors.NewConfigError(fmt.Sprintf("search path %d is empty", i), "icons.search_paths", errors.InvalidConfig, nil)
		}
	}

	if c.Browser.StartDir != "" {
		info, err := os.Stat(c.Browser.StartDir)
		if err != nil {
			return errors.NewConfigError("cannot access start directory", "browser.start_dir", errors.InvalidConfig, err)
		}
		if !info.IsDir() {
			return errors.NewConfigError("start directory is not a directory", "browser.start_dir", errors.InvalidConfig, nil)
		}
	}

	return nil
}

// StartDir resolves the directory the chooser opens first.
func (c *Config) StartDir() string {
	if c.Browser.StartDir != "" {
		return c.Browser.StartDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "/"
}

// New creates a new configuration instance with default values.
func New() *Config {
	return defaultConfig()
}

// NewTestConfig creates a configuration instance for testing purposes:
// a low sync threshold so incremental scanning is exercised with few files.
func NewTestConfig() *Config {
	cfg := defaultConfig()
	cfg.Browser.Watch = false
	cfg.Scan.SyncThreshold = 8
	cfg.Scan.BatchSize = 4
	cfg.Scan.Workers = 2
	cfg.Scan.RenderCap = 16
	return cfg
}

// GetTheme returns a predefined color palette by name.
// If the theme doesn't exist, returns the default theme.
func GetTheme(name string) map[string]string {
	themes := map[string]map[string]string{
		"default": {
			"primary":  "213", // Purple
			"success":  "114", // Green
			"warning":  "220", // Yellow
			"error":    "196", // Red
			"info":     "39",  // Blue
			"emphasis": "212", // Light Pink
			"border":   "213", // Purple
		},
		"dark": {
			"primary":  "105",
			"success":  "78",
			"warning":  "214",
			"error":    "160",
			"info":     "33",
			"emphasis": "147",
			"border":   "105",
		},
		"light": {
			"primary":  "135",
			"success":  "150",
			"warning":  "222",
			"error":    "210",
			"info":     "117",
			"emphasis": "219",
			"border":   "135",
		},
		"monochrome": {
			"primary":  "245",
			"success":  "252",
			"warning":  "241",
			"error":    "232",
			"info":     "248",
			"emphasis": "255",
			"border":   "245",
		},
	}

	if theme, exists := themes[name]; exists {
		return theme
	}

	return themes["default"]
}

// ApplyTheme sets the palette in the configuration.
func (c *Config) ApplyTheme(name string) {
	if !slices.Contains(ListThemes(), name) {
		name = "default"
	}
	c.Theme = ThemeConfig{Name: name}
	c.fillTheme()
}

// ListThemes returns a list of available theme names.
func ListThemes() []string {
	return []string{"default", "dark", "light", "monochrome"}
}
