package commandstructure

import (
	"fmt"
	"image"
	"log/slog"
	"time"
)

// CommandInvoker executes a sequence of commands on an image
type CommandInvoker struct {
	commands []Command
}

// NewCommandInvoker creates a new command invoker
func NewCommandInvoker(commands []Command) *CommandInvoker {
	return &CommandInvoker{
		commands: commands,
	}
}

// Execute applies all commands in sequence to the image
func (i *CommandInvoker) Execute(img image.Image) (image.Image, error) {
	start := time.Now()

	if len(i.commands) == 0 {
		slog.Debug("no commands to execute, returning original image")
		return img, nil
	}

	current := img
	for idx, command := range i.commands {
		commandStart := time.Now()

		processed, err := command.Execute(current)
		if err != nil {
			slog.Error("command execution failed",
				"index", idx,
				"command_name", command.Name(),
				"error", err)
			return nil, fmt.Errorf("command %s (index %d) failed: %w", command.Name(), idx, err)
		}

		bounds := processed.Bounds()
		slog.Debug("command completed",
			"index", idx,
			"command_name", command.Name(),
			"duration_ms", time.Since(commandStart).Milliseconds(),
			"output_width", bounds.Dx(),
			"output_height", bounds.Dy())

		current = processed
	}

	slog.Debug("image processing pipeline completed",
		"total_duration_ms", time.Since(start).Milliseconds(),
		"command_count", len(i.commands))

	return current, nil
}

// ExecuteCommands builds the configured commands from DefaultRegistry and applies them in order
func ExecuteCommands(img image.Image, commandConfigs []CommandConfig) (image.Image, error) {
	if len(commandConfigs) == 0 {
		return img, nil
	}
	commands, err := DefaultRegistry.CreateAll(commandConfigs)
	if err != nil {
		return nil, err
	}
	return NewCommandInvoker(commands).Execute(img)
}
