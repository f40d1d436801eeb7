package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jo-hoe/iconforge/internal/backend/assets"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "iconforge.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Icon.Text != "maghali" {
		t.Errorf("Expected text 'maghali', got '%s'", config.Icon.Text)
	}
	if config.Icon.CanvasSize != 1024 {
		t.Errorf("Expected canvas size 1024, got %d", config.Icon.CanvasSize)
	}
	if config.Icon.FontSize != 200 {
		t.Errorf("Expected font size 200, got %v", config.Icon.FontSize)
	}
	if config.Icon.IconPath != filepath.Join("assets", "icon", "app_icon.png") {
		t.Errorf("unexpected icon path %s", config.Icon.IconPath)
	}
	if diff := cmp.Diff(assets.DefaultGroups(), config.Export.Groups); diff != "" {
		t.Errorf("default groups mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	configPath := writeConfig(t, `icon:
  text: hello
  canvasSize: 512
export:
  workers: 2
  groups:
    - name: web
      source: icon
      pathPattern: web/icons/Icon-{key}.png
      required: true
      entries:
        - key: "192"
          size: 192
        - key: "512"
          size: 512
      commands:
        - name: CircleMaskCommand
cache:
  type: none
server:
  port: 9090
`)

	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Icon.Text != "hello" || config.Icon.CanvasSize != 512 {
		t.Errorf("icon overrides not applied: %+v", config.Icon)
	}
	// unset fields keep their defaults
	if config.Icon.Background != "#000000" {
		t.Errorf("Expected default background, got %s", config.Icon.Background)
	}
	if config.Export.Workers != 2 || config.Server.Port != 9090 {
		t.Errorf("Expected workers 2 and port 9090, got %d and %d", config.Export.Workers, config.Server.Port)
	}
	if len(config.Export.Groups) != 1 {
		t.Fatalf("Expected groups to be replaced, got %d", len(config.Export.Groups))
	}
	group := config.Export.Groups[0]
	want := []assets.Entry{{Key: "192", Size: 192}, {Key: "512", Size: 512}}
	if diff := cmp.Diff(want, group.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if len(group.Commands) != 1 || group.Commands[0].Name != "CircleMaskCommand" {
		t.Errorf("unexpected commands: %+v", group.Commands)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ICONFORGE_TEXT", "from-env")
	t.Setenv("ICONFORGE_WORKERS", "7")
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "debug")

	configPath := writeConfig(t, "icon:\n  text: from-file\n")
	config, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Icon.Text != "from-env" {
		t.Errorf("Expected env to win over file, got %s", config.Icon.Text)
	}
	if config.Export.Workers != 7 || config.Server.Port != 3000 || config.LogLevel != "debug" {
		t.Errorf("env overrides not applied: workers=%d port=%d level=%s",
			config.Export.Workers, config.Server.Port, config.LogLevel)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	config, err := LoadConfig("/path/that/does/not/exist/iconforge.yaml")
	if err == nil {
		t.Fatal("Expected error for non-existent file, got nil")
	}
	if config != nil {
		t.Error("Expected config to be nil on error")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "icon: [unterminated")
	if _, err := LoadConfig(configPath); err == nil {
		t.Fatal("Expected error for invalid YAML, got nil")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{
			name:    "zero workers",
			content: "export:\n  workers: 0\n",
			errPart: "Workers",
		},
		{
			name:    "unknown interpolation",
			content: "export:\n  interpolation: lanczos5\n",
			errPart: "interpolation",
		},
		{
			name:    "unknown cache type",
			content: "cache:\n  type: memcached\n",
			errPart: "Type",
		},
		{
			name:    "empty text",
			content: "icon:\n  text: \"\"\n",
			errPart: "Text",
		},
		{
			name: "duplicate group names",
			content: `export:
  groups:
    - {name: a, source: icon, pathPattern: "a/{key}.png", entries: [{key: x, size: 1}]}
    - {name: a, source: icon, pathPattern: "b/{key}.png", entries: [{key: x, size: 1}]}
`,
			errPart: "duplicate group name",
		},
		{
			name: "unknown command",
			content: `export:
  groups:
    - name: a
      source: icon
      pathPattern: "a/{key}.png"
      entries: [{key: x, size: 1}]
      commands: [{name: RotateCommand}]
`,
			errPart: "unknown command",
		},
		{
			name: "unknown command lists available",
			content: `export:
  groups:
    - {name: a, source: icon, pathPattern: "a/{key}.png", entries: [{key: x, size: 1}], commands: [{name: RotateCommand}]}
`,
			errPart: "PadCommand",
		},
		{
			name: "inline command params out of range",
			content: `export:
  groups:
    - {name: a, source: icon, pathPattern: "a/{key}.png", entries: [{key: x, size: 1}], commands: [{name: PadCommand, percent: 99}]}
`,
			errPart: "percent",
		},
		{
			name: "nested command params out of range",
			content: `export:
  groups:
    - {name: a, source: icon, pathPattern: "a/{key}.png", entries: [{key: x, size: 1}], commands: [{name: PadCommand, params: {percent: 99}}]}
`,
			errPart: "percent",
		},
		{
			name: "flatten with bad color",
			content: `export:
  groups:
    - {name: a, source: icon, pathPattern: "a/{key}.png", entries: [{key: x, size: 1}], commands: [{name: FlattenCommand, background: "#12"}]}
`,
			errPart: "FlattenCommand",
		},
		{
			name:    "pattern without placeholder",
			content: "export:\n  groups:\n    - {name: a, source: icon, pathPattern: a.png, entries: [{key: x, size: 1}]}\n",
			errPart: "{key}",
		},
		{
			name:    "no groups",
			content: "export:\n  groups: []\n",
			errPart: "at least one export group",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.errPart)
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("expected error containing %q, got %v", tt.errPart, err)
			}
		})
	}
}

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CONFIG_PATH", "")

	if got := ResolveConfigPath(""); got != "" {
		t.Errorf("expected empty path without config file, got %s", got)
	}

	local := filepath.Join(dir, DefaultConfigFileName)
	if err := os.WriteFile(local, []byte("{}"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if got := ResolveConfigPath(""); got != local {
		t.Errorf("expected %s, got %s", local, got)
	}

	t.Setenv("CONFIG_PATH", "/etc/iconforge.yaml")
	if got := ResolveConfigPath(""); got != "/etc/iconforge.yaml" {
		t.Errorf("expected CONFIG_PATH to win over cwd, got %s", got)
	}
	if got := ResolveConfigPath("explicit.yaml"); got != "explicit.yaml" {
		t.Errorf("expected explicit path to win, got %s", got)
	}
}
