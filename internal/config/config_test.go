package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"filechooser/internal/config"
	"filechooser/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary YAML config file
func createTestYAML(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "config-*.yaml")
	require.NoError(t, err)
	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

const (
	validYAML = `
browser:
  show_hidden: true
  preview_images: false
scan:
  sync_threshold: 200
  workers: 8
icons:
  theme: hicolor
  search_paths: ["/opt/icons"]
theme:
  name: dark
  primary: "99"
`
	invalidSyntaxYAML = `
scan:
  sync_threshold: [1
browser: : :
`
	invalidValueYAML = `
scan:
  render_cap: 0
`
)

func TestLoadConfigFile(t *testing.T) {
	t.Run("load valid config", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(createTestYAML(t, validYAML))
		require.NoError(t, err)

		assert.True(t, cfg.Browser.ShowHidden)
		assert.False(t, cfg.Browser.PreviewImages)
		assert.Equal(t, 200, cfg.Scan.SyncThreshold)
		assert.Equal(t, 8, cfg.Scan.Workers)
		assert.Equal(t, "hicolor", cfg.Icons.Theme)
		assert.Equal(t, []string{"/opt/icons"}, cfg.Icons.SearchPaths)

		// Unset keys keep their defaults
		assert.Equal(t, config.DefaultBatchSize, cfg.Scan.BatchSize)
		assert.Equal(t, config.DefaultRenderCap, cfg.Scan.RenderCap)
		assert.True(t, cfg.Browser.Watch)

		// Explicit color wins, the rest come from the named palette
		assert.Equal(t, "dark", cfg.Theme.Name)
		assert.Equal(t, "99", cfg.Theme.Primary)
		assert.Equal(t, config.GetTheme("dark")["success"], cfg.Theme.Success)
	})

	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := config.LoadConfigFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultSyncThreshold, cfg.Scan.SyncThreshold)
		assert.Equal(t, config.DefaultIconTheme, cfg.Icons.Theme)
	})

	t.Run("invalid syntax", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidSyntaxYAML))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := config.LoadConfigFile(createTestYAML(t, invalidValueYAML))
		require.Error(t, err)
		var ce *errors.ConfigError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, "scan.render_cap", ce.Param())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		param  string
	}{
		{"zero threshold", func(c *config.Config) { c.Scan.SyncThreshold = 0 }, "scan.sync_threshold"},
		{"zero batch", func(c *config.Config) { c.Scan.BatchSize = 0 }, "scan.batch_size"},
		{"too many workers", func(c *config.Config) { c.Scan.Workers = 1000 }, "scan.workers"},
		{"empty theme", func(c *config.Config) { c.Icons.Theme = "" }, "icons.theme"},
		{"empty search path", func(c *config.Config) { c.Icons.SearchPaths = []string{""} }, "icons.search_paths"},
		{"missing start dir", func(c *config.Config) { c.Browser.StartDir = "/definitely/not/here" }, "browser.start_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var ce *errors.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.param, ce.Param())
		})
	}

	t.Run("start dir is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "f")
		require.NoError(t, os.WriteFile(file, nil, 0644))
		cfg := config.New()
		cfg.Browser.StartDir = file
		assert.Error(t, cfg.Validate())
	})

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, config.New().Validate())
		assert.NoError(t, config.NewTestConfig().Validate())
	})

	var nilCfg *config.Config
	assert.Error(t, nilCfg.Validate())
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := config.New()
	cfg.Browser.ShowHidden = true
	cfg.Scan.Workers = 3
	cfg.ApplyTheme("light")

	require.NoError(t, config.SaveConfig(cfg, path))

	loaded, err := config.LoadConfigFile(path)
	require.NoError(t, err)
	assert.True(t, loaded.Browser.ShowHidden)
	assert.Equal(t, 3, loaded.Scan.Workers)
	assert.Equal(t, cfg.Theme, loaded.Theme)
}

func TestStartDir(t *testing.T) {
	dir := t.TempDir()
	cfg := config.New()
	cfg.Browser.StartDir = dir
	assert.Equal(t, dir, cfg.StartDir())

	cfg.Browser.StartDir = ""
	assert.NotEmpty(t, cfg.StartDir())
}

func TestThemes(t *testing.T) {
	cfg := config.New()
	cfg.ApplyTheme("no-such-theme")
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.Equal(t, config.GetTheme("default")["primary"], cfg.Theme.Primary)

	for _, name := range config.ListThemes() {
		assert.Len(t, config.GetTheme(name), 7, name)
	}
}
