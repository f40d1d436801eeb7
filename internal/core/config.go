package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator"
	"gopkg.in/yaml.v3"

	"github.com/jo-hoe/iconforge/internal/backend/assets"
	"github.com/jo-hoe/iconforge/internal/backend/commands"
	"github.com/jo-hoe/iconforge/internal/backend/commandstructure"
	"github.com/jo-hoe/iconforge/internal/backend/database"
	"github.com/jo-hoe/iconforge/internal/backend/iconrender"
)

// DefaultConfigFileName is looked up in the working directory when no path is given
const DefaultConfigFileName = "iconforge.yaml"

// CacheTypeNone disables the build cache
const CacheTypeNone = "none"

type IconConfig struct {
	Text           string   `yaml:"text" validate:"required"`
	CanvasSize     int      `yaml:"canvasSize" validate:"min=1,max=8192"`
	FontSize       float64  `yaml:"fontSize" validate:"gt=0"`
	Background     string   `yaml:"background" validate:"required"`
	TextColor      string   `yaml:"textColor" validate:"required"`
	FontPaths      []string `yaml:"fontPaths"`
	IconPath       string   `yaml:"iconPath" validate:"required"`
	ForegroundPath string   `yaml:"foregroundPath" validate:"required"`
}

type ExportConfig struct {
	// Root is the project directory the group path patterns are relative to
	Root          string `yaml:"root"`
	Interpolation string `yaml:"interpolation"`
	// Fit is how non-square sources are mapped onto the square outputs
	Fit             string         `yaml:"fit"`
	Workers         int            `yaml:"workers" validate:"min=1,max=64"`
	SVGFallbackSize int            `yaml:"svgFallbackSize" validate:"min=1,max=8192"`
	Groups          []assets.Group `yaml:"groups"`
}

type Cache struct {
	Type             string `yaml:"type" validate:"required,oneof=sqlite redis none"`
	ConnectionString string `yaml:"connectionString"`
}

type Server struct {
	Port int `yaml:"port" validate:"min=1,max=65535"`
}

type ServiceConfig struct {
	Icon     IconConfig   `yaml:"icon"`
	Export   ExportConfig `yaml:"export"`
	Cache    Cache        `yaml:"cache"`
	Server   Server       `yaml:"server"`
	LogLevel string       `yaml:"logLevel" validate:"omitempty,oneof=debug info warn error"`
}

// DefaultConfig returns the settings used when no config file exists
func DefaultConfig() *ServiceConfig {
	fontPaths := make([]string, len(iconrender.DefaultFontPaths))
	copy(fontPaths, iconrender.DefaultFontPaths)

	return &ServiceConfig{
		Icon: IconConfig{
			Text:           "maghali",
			CanvasSize:     1024,
			FontSize:       200,
			Background:     "#000000",
			TextColor:      "#FFFFFF",
			FontPaths:      fontPaths,
			IconPath:       filepath.Join("assets", "icon", "app_icon.png"),
			ForegroundPath: filepath.Join("assets", "icon", "app_icon_foreground.png"),
		},
		Export: ExportConfig{
			Root:            ".",
			Interpolation:   commands.DefaultInterpolation,
			Fit:             commands.ModeStretch,
			Workers:         4,
			SVGFallbackSize: 1024,
			Groups:          assets.DefaultGroups(),
		},
		Cache: Cache{
			Type:             database.TypeSQLite,
			ConnectionString: filepath.Join(".dart_tool", "iconforge", "cache.db"),
		},
		Server: Server{
			Port: 8080,
		},
		LogLevel: "info",
	}
}

// ResolveConfigPath picks the config file: the explicit path, then CONFIG_PATH,
// then iconforge.yaml in the working directory. An empty result means defaults.
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(cwd, DefaultConfigFileName)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

// LoadConfig loads configuration from the specified YAML file on top of the
// defaults, applies environment overrides and validates the result.
// An empty path yields the defaults with overrides.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// envOverrides lists the settings that can be changed through the environment
type envOverrides struct {
	Text            string `env:"ICONFORGE_TEXT"`
	Interpolation   string `env:"ICONFORGE_INTERPOLATION"`
	Fit             string `env:"ICONFORGE_FIT"`
	Workers         int    `env:"ICONFORGE_WORKERS"`
	CacheType       string `env:"ICONFORGE_CACHE_TYPE"`
	CacheConnection string `env:"ICONFORGE_CACHE_CONNECTION"`
	Port            int    `env:"PORT"`
	LogLevel        string `env:"LOG_LEVEL"`
}

func applyEnvOverrides(config *ServiceConfig) error {
	// unset variables keep the loaded values
	overrides := envOverrides{
		Text:            config.Icon.Text,
		Interpolation:   config.Export.Interpolation,
		Fit:             config.Export.Fit,
		Workers:         config.Export.Workers,
		CacheType:       config.Cache.Type,
		CacheConnection: config.Cache.ConnectionString,
		Port:            config.Server.Port,
		LogLevel:        config.LogLevel,
	}
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	config.Icon.Text = overrides.Text
	config.Export.Interpolation = overrides.Interpolation
	config.Export.Fit = overrides.Fit
	config.Export.Workers = overrides.Workers
	config.Cache.Type = overrides.CacheType
	config.Cache.ConnectionString = overrides.CacheConnection
	config.Server.Port = overrides.Port
	config.LogLevel = overrides.LogLevel
	return nil
}

func validateConfig(config *ServiceConfig) error {
	if err := validator.New().Struct(config); err != nil {
		return err
	}
	if _, err := commands.Interpolator(config.Export.Interpolation); err != nil {
		return err
	}
	if !commands.IsScaleMode(config.Export.Fit) {
		return fmt.Errorf("unsupported fit %q", config.Export.Fit)
	}
	if config.Cache.Type != CacheTypeNone && config.Cache.ConnectionString == "" {
		return fmt.Errorf("cache connection string is required for type %s", config.Cache.Type)
	}
	return validateGroups(config.Export.Groups)
}

// validateGroups ensures group names are unique and every command is known
func validateGroups(groups []assets.Group) error {
	if len(groups) == 0 {
		return errors.New("at least one export group is required")
	}
	seenNames := make(map[string]bool)

	for i, group := range groups {
		if err := group.Validate(); err != nil {
			return fmt.Errorf("group at index %d: %w", i, err)
		}

		if seenNames[group.Name] {
			return fmt.Errorf("duplicate group name: %s", group.Name)
		}
		seenNames[group.Name] = true

		for j, cmd := range group.Commands {
			if !commandstructure.DefaultRegistry.IsRegistered(cmd.Name) {
				return fmt.Errorf("group %s: command at index %d: unknown command %q, available: %s",
					group.Name, j, cmd.Name, strings.Join(commandstructure.DefaultRegistry.GetRegisteredNames(), ", "))
			}
			if _, err := commandstructure.DefaultRegistry.Create(cmd.Name, cmd.Params); err != nil {
				return fmt.Errorf("group %s: command at index %d: %w", group.Name, j, err)
			}
		}
	}

	return nil
}

// isNotExist reports whether err means a file is missing
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
