package assets

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jo-hoe/iconforge/internal/backend/commandstructure"
)

// Group is one output table: every entry is resized from Source and written to
// PathPattern with the entry key substituted.
type Group struct {
	Name        string                           `yaml:"name" json:"name"`
	Source      string                           `yaml:"source" json:"source"`
	PathPattern string                           `yaml:"pathPattern" json:"pathPattern"`
	Required    bool                             `yaml:"required" json:"required"`
	Entries     []Entry                          `yaml:"entries" json:"entries"`
	Commands    []commandstructure.CommandConfig `yaml:"commands" json:"commands,omitempty"`
}

// Job is a single planned output file
type Job struct {
	Group    string                           `json:"group"`
	Key      string                           `json:"key"`
	Size     int                              `json:"size"`
	Source   string                           `json:"source"`
	Path     string                           `json:"path"`
	Required bool                             `json:"required"`
	Commands []commandstructure.CommandConfig `json:"-"`
}

// DefaultGroups returns the Android and iOS tables used by a Flutter project
func DefaultGroups() []Group {
	return []Group{
		{
			Name:        "android-launcher",
			Source:      SourceIcon,
			PathPattern: androidResDir + "/mipmap-" + KeyPlaceholder + "/ic_launcher.png",
			Required:    true,
			Entries:     cloneEntries(AndroidLauncherSizes),
		},
		{
			Name:        "android-launcher-round",
			Source:      SourceIcon,
			PathPattern: androidResDir + "/mipmap-" + KeyPlaceholder + "/ic_launcher_round.png",
			Required:    true,
			Entries:     cloneEntries(AndroidLauncherSizes),
		},
		{
			Name:        "android-adaptive-foreground",
			Source:      SourceForeground,
			PathPattern: androidResDir + "/mipmap-" + KeyPlaceholder + "/ic_launcher_foreground.png",
			Required:    false,
			Entries:     cloneEntries(AndroidAdaptiveSizes),
		},
		{
			Name:        "ios",
			Source:      SourceIcon,
			PathPattern: iosIconSetDir + "/" + KeyPlaceholder,
			Required:    true,
			Entries:     cloneEntries(IOSSizes),
			Commands: []commandstructure.CommandConfig{
				// App Store rejects icons with an alpha channel
				{Name: "FlattenCommand", Params: map[string]any{"background": "#000000"}},
			},
		},
	}
}

// Validate checks the group definition
func (g Group) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("group name cannot be empty")
	}
	if g.Source != SourceIcon && g.Source != SourceForeground {
		return fmt.Errorf("group %s: source must be %q or %q, got %q", g.Name, SourceIcon, SourceForeground, g.Source)
	}
	if !strings.Contains(g.PathPattern, KeyPlaceholder) {
		return fmt.Errorf("group %s: path pattern %q must contain %s", g.Name, g.PathPattern, KeyPlaceholder)
	}
	if len(g.Entries) == 0 {
		return fmt.Errorf("group %s has no entries", g.Name)
	}
	for i, e := range g.Entries {
		if e.Key == "" {
			return fmt.Errorf("group %s: entry at index %d has empty key", g.Name, i)
		}
		if e.Size <= 0 {
			return fmt.Errorf("group %s: entry %s size must be positive, got %d", g.Name, e.Key, e.Size)
		}
	}
	return nil
}

// Path returns the output path for key relative to root
func (g Group) Path(root, key string) string {
	rel := strings.ReplaceAll(g.PathPattern, KeyPlaceholder, key)
	return filepath.Join(root, filepath.FromSlash(rel))
}

// Plan expands groups into jobs in table order with duplicate keys collapsed
func Plan(groups []Group, root string) []Job {
	var jobs []Job
	for _, g := range groups {
		for _, e := range Dedupe(g.Entries) {
			jobs = append(jobs, Job{
				Group:    g.Name,
				Key:      e.Key,
				Size:     e.Size,
				Source:   g.Source,
				Path:     g.Path(root, e.Key),
				Required: g.Required,
				Commands: g.Commands,
			})
		}
	}
	return jobs
}

func cloneEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
