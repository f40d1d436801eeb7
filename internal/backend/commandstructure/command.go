package commandstructure

import (
	"fmt"
	"image"
	"maps"

	"gopkg.in/yaml.v3"
)

// Command defines the interface for all image processing commands
type Command interface {
	Name() string
	Execute(img image.Image) (image.Image, error)
}

// CommandFactory is a function type that creates a command from configuration parameters
type CommandFactory func(params map[string]any) (Command, error)

// CommandConfig represents a command configuration with name and parameters
type CommandConfig struct {
	Name   string         `yaml:"name" json:"name"`
	Params map[string]any `yaml:",inline" json:"params,omitempty"`
}

// UnmarshalYAML accepts parameters inline next to the name or nested under a
// params key. A parameter given both ways is rejected.
func (c *CommandConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return err
	}

	name, ok := raw["name"].(string)
	if raw["name"] != nil && !ok {
		return fmt.Errorf("line %d: command name must be a string", node.Line)
	}
	delete(raw, "name")

	params := map[string]any{}
	if nested, exists := raw["params"]; exists {
		delete(raw, "params")
		if nested != nil {
			nestedParams, ok := nested.(map[string]any)
			if !ok {
				return fmt.Errorf("line %d: params of command %s must be a mapping", node.Line, name)
			}
			maps.Copy(params, nestedParams)
		}
	}
	for key, value := range raw {
		if _, dup := params[key]; dup {
			return fmt.Errorf("line %d: parameter %s of command %s is set twice", node.Line, key, name)
		}
		params[key] = value
	}

	c.Name = name
	c.Params = params
	return nil
}
