// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package console is where user-facing progress goes: matrix points, commands,
// tool output and failures. Components receive a Sink instead of printing.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/matt-FFFFFF/dockmatrix/internal/color"
)

// Level is the severity of a displayed message.
type Level int

const (
	// LevelInfo is plain progress output, e.g. tool stdout.
	LevelInfo Level = iota
	// LevelCommand echoes a command before it runs.
	LevelCommand
	// LevelSuccess marks something that worked.
	LevelSuccess
	// LevelWarn marks something the user should look at.
	LevelWarn
	// LevelError marks a failure.
	LevelError
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelCommand:
		return "command"
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Sink displays a labelled message at a severity level. Implementations must be safe for concurrent use.
type Sink interface {
	Display(level Level, label, msg string)
}

var _ Sink = (*Writer)(nil)

// Writer is a Sink that writes coloured lines to an io.Writer.
// Each message is written with a single Write so lines from concurrent jobs do not tear.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// New returns a Writer for w.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Display implements Sink.
func (c *Writer) Display(level Level, label, msg string) {
	codes := levelCodes(level)

	sb := strings.Builder{}

	if label != "" {
		sb.WriteString(color.Colorize(label+":", codes...))
		sb.WriteString("\t")
		sb.WriteString(msg)
	} else {
		sb.WriteString(color.Colorize(msg, codes...))
	}

	if !strings.HasSuffix(msg, "\n") {
		sb.WriteString("\n")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = io.WriteString(c.w, sb.String())
}

func levelCodes(l Level) []color.Code {
	switch l {
	case LevelCommand:
		return []color.Code{color.Bold, color.FgBlue}
	case LevelSuccess:
		return []color.Code{color.FgGreen}
	case LevelWarn:
		return []color.Code{color.FgYellow}
	case LevelError:
		return []color.Code{color.FgRed}
	default:
		return nil
	}
}

// Message is one call to Display, as kept by Recorder.
type Message struct {
	Level Level
	Label string
	Text  string
}

var _ Sink = (*Recorder)(nil)

// Recorder is a Sink that keeps every message in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Display implements Sink.
func (r *Recorder) Display(level Level, label, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, Message{Level: level, Label: label, Text: msg})
}

// Messages returns a copy of everything displayed so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Message, len(r.messages))
	copy(out, r.messages)

	return out
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Display(Level, string, string) {}
