// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

// BaseCommand holds what every step and batch has in common.
// It should be embedded in other command types.
type BaseCommand struct {
	Label string // Optional label for the command
	Cwd   string // The working directory for the command
}

// NewBaseCommand creates a new BaseCommand.
func NewBaseCommand(label, cwd string) *BaseCommand {
	return &BaseCommand{
		Label: label,
		Cwd:   cwd,
	}
}

// GetLabel returns the label of the command.
func (c *BaseCommand) GetLabel() string {
	if c == nil || c.Label == "" {
		return "Command"
	}

	return c.Label
}

// GetCwd returns the working directory of the command.
func (c *BaseCommand) GetCwd() string {
	if c == nil {
		return ""
	}

	return c.Cwd
}

// InheritCwd sets the working directory unless one is already set.
func (c *BaseCommand) InheritCwd(cwd string) {
	if c == nil || c.Cwd != "" {
		return
	}

	c.Cwd = cwd
}
