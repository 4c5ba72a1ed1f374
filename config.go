package main

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigDir = ".guestpost-writer"

// Embedded configuration files
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/writer-system-prompt.md
var defaultWriterSystemPrompt string

//go:embed config/writer-user-prompt.md
var defaultWriterUserPrompt string

// ConfigOverrides holds file path overrides for embedded configurations
type ConfigOverrides struct {
	WriterPromptPath *string
	SettingsPath     *string
}

// WriterSettings configures the article generation model
type WriterSettings struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// WordpressSite describes one WordPress target configured for publishing
type WordpressSite struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	AppPassword string `yaml:"app_password"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	OutputDirectory string         `yaml:"output_directory"`
	Language        string         `yaml:"language"`
	Writer          WriterSettings `yaml:"writer"`
	Sheets          struct {
		LinkColumn string `yaml:"link_column"`
	} `yaml:"sheets"`
	Wordpress struct {
		Sites []WordpressSite `yaml:"sites"`
	} `yaml:"wordpress"`
}

// Config holds settings and overrides
type Config struct {
	Settings  *Settings
	Overrides *ConfigOverrides
}

// NewConfig creates a Config, writing the default settings file on first run
func NewConfig(overrides *ConfigOverrides) (*Config, error) {
	if err := ensureConfigExists(); err != nil {
		return nil, fmt.Errorf("ensuring config files exist: %w", err)
	}

	var settings *Settings
	var err error
	if overrides != nil && overrides.SettingsPath != nil {
		settings, err = loadSettingsRequired(*overrides.SettingsPath)
		if err != nil {
			return nil, fmt.Errorf("loading settings %s: %w", *overrides.SettingsPath, err)
		}
	} else {
		settings, err = loadSettings(getConfigPath("settings.yaml"))
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
	}

	return &Config{Settings: settings, Overrides: overrides}, nil
}

// GetWriterSystemPrompt returns the writer system prompt (from override file or embedded)
func (c *Config) GetWriterSystemPrompt() string {
	if c.Overrides != nil && c.Overrides.WriterPromptPath != nil {
		if content, err := os.ReadFile(*c.Overrides.WriterPromptPath); err == nil {
			return string(content)
		}
	}
	return defaultWriterSystemPrompt
}

// GetWriterUserPrompt returns the writer user prompt template (embedded only for now)
func (c *Config) GetWriterUserPrompt() string {
	return defaultWriterUserPrompt
}

// LinkColumn returns the sheet column the publish link is written to.
func (c *Config) LinkColumn() string {
	if c.Settings.Sheets.LinkColumn == "" {
		return "F"
	}
	return c.Settings.Sheets.LinkColumn
}

// FindSite looks up a configured WordPress site by name.
func (c *Config) FindSite(name string) (WordpressSite, bool) {
	for _, site := range c.Settings.Wordpress.Sites {
		if site.Name == name {
			return site, true
		}
	}
	return WordpressSite{}, false
}

// getConfigPath returns the path to a config file in the .guestpost-writer directory
func getConfigPath(filename string) string {
	return filepath.Join(defaultConfigDir, filename)
}

// loadSettings loads settings from YAML file with fallback to defaults
func loadSettings(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return fallbackSettings(), nil
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	applySettingsDefaults(&settings)
	return &settings, nil
}

// loadSettingsRequired loads settings from YAML file, failing if the file doesn't exist
func loadSettingsRequired(settingsPath string) (*Settings, error) {
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return nil, err
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings YAML: %w", err)
	}

	applySettingsDefaults(&settings)
	return &settings, nil
}

func fallbackSettings() *Settings {
	settings := &Settings{
		OutputDirectory: "articles",
		Language:        "Português do Brasil (pt-BR)",
		Writer: WriterSettings{
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   6000,
			Temperature: 0.7,
		},
	}
	settings.Sheets.LinkColumn = "F"
	return settings
}

func applySettingsDefaults(settings *Settings) {
	if settings.OutputDirectory == "" {
		settings.OutputDirectory = "articles"
	}
	if settings.Language == "" || settings.Language == "pt-BR" {
		settings.Language = "Português do Brasil (pt-BR)"
	}
	if settings.Writer.Model == "" {
		settings.Writer.Model = "claude-sonnet-4-20250514"
	}
	if settings.Writer.MaxTokens == 0 {
		settings.Writer.MaxTokens = 6000
	}
}

// ensureConfigExists creates the config directory and writes settings.yaml if needed
func ensureConfigExists() error {
	if err := os.MkdirAll(defaultConfigDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	settingsFile := getConfigPath("settings.yaml")
	if _, err := os.Stat(settingsFile); os.IsNotExist(err) {
		if err := os.WriteFile(settingsFile, []byte(defaultSettings), 0644); err != nil {
			return fmt.Errorf("writing settings.yaml: %w", err)
		}
	}

	return nil
}
