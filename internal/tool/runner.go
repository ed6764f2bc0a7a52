// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
)

const (
	maxBufferSize     = 8 * 1024 * 1024  // 8MB per stream
	heartbeatInterval = 30 * time.Second // how often a long-running command is reported
	killWaitDelay     = 10 * time.Second // grace period for pipes after the process is killed

	heartbeatLineLength = 120
	maxPartialLine      = 64 * 1024
)

var (
	// ErrProcess is returned when the tool exits with a non-zero code. The message carries its stderr.
	ErrProcess = errors.New("process exited with an error")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrBufferOverflow is returned alongside truncated output.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
)

// Output is what a finished invocation produced.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner invokes the tool with argv (the verb and its arguments, not the executable) in cwd.
// A non-zero exit returns the captured Output together with an error wrapping ErrProcess.
type Runner interface {
	Run(ctx context.Context, cwd string, argv ...string) (*Output, error)
}

var _ Runner = (*Exec)(nil)

// Exec runs the tool as a child process.
type Exec struct {
	// Path is the executable, usually resolved with Find.
	Path string
	// Heartbeat overrides how often a still-running command is logged.
	Heartbeat time.Duration
}

// Run implements Runner. The process is killed when ctx is cancelled.
func (e *Exec) Run(ctx context.Context, cwd string, argv ...string) (*Output, error) {
	logger := ctxlog.Logger(ctx).With("tool", e.Path, "cwd", cwd, "args", Redact(argv))

	stdout := &cappedBuffer{max: maxBufferSize}
	stderr := &cappedBuffer{max: maxBufferSize}

	cmd := exec.CommandContext(ctx, e.Path, argv...)
	cmd.Dir = cwd
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = killWaitDelay

	out := &Output{ExitCode: -1}

	logger.Debug("starting process")

	if err := cmd.Start(); err != nil {
		return out, errors.Join(ErrCouldNotStartProcess, err)
	}

	done := make(chan struct{})
	go e.heartbeat(logger, done, stderr, stdout)

	err := cmd.Wait()

	close(done)

	out.Stdout = stdout.Bytes()
	out.Stderr = stderr.Bytes()
	out.ExitCode = cmd.ProcessState.ExitCode()

	logger.Debug("process finished", "exitCode", out.ExitCode, "stdoutBytes", len(out.Stdout))

	if ctx.Err() != nil {
		return out, errors.Join(ErrProcess, ctx.Err())
	}

	if err != nil {
		msg := strings.TrimSpace(string(out.Stderr))
		if msg == "" {
			msg = err.Error()
		}

		return out, fmt.Errorf("%w: %s (exit code: %d): %s", ErrProcess, verb(argv), out.ExitCode, msg)
	}

	if stdout.overflow || stderr.overflow {
		return out, ErrBufferOverflow
	}

	return out, nil
}

func (e *Exec) heartbeat(logger *slog.Logger, done <-chan struct{}, outputs ...*cappedBuffer) {
	interval := e.Heartbeat
	if interval <= 0 {
		interval = heartbeatInterval
	}

	start := time.Now()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			last := ""
			for _, o := range outputs {
				if last = o.LastLine(heartbeatLineLength); last != "" {
					break
				}
			}

			logger.Info("still running", "elapsed", time.Since(start).Round(time.Second).String(), "lastOutput", last)
		case <-done:
			return
		}
	}
}

func verb(argv []string) string {
	if len(argv) == 0 {
		return "<none>"
	}

	return argv[0]
}

// cappedBuffer keeps at most max bytes, records whether more were written and tracks the last complete line.
// It is safe to read while the process is still writing.
type cappedBuffer struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	max      int
	overflow bool
	lastLine string
	partial  []byte
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.trackLines(p)

	room := b.max - b.buf.Len()
	if room <= 0 {
		b.overflow = b.overflow || len(p) > 0
		return len(p), nil
	}

	if len(p) > room {
		b.buf.Write(p[:room])
		b.overflow = true

		return len(p), nil
	}

	return b.buf.Write(p) //nolint:wrapcheck
}

// trackLines must be called with the lock held.
func (b *cappedBuffer) trackLines(p []byte) {
	data := append(b.partial, p...)

	i := bytes.LastIndexByte(data, '\n')
	if i < 0 {
		if len(data) > maxPartialLine {
			data = data[len(data)-maxPartialLine:]
		}

		b.partial = data

		return
	}

	complete := data[:i]
	if j := bytes.LastIndexByte(complete, '\n'); j >= 0 {
		complete = complete[j+1:]
	}

	b.lastLine = strings.TrimRight(string(complete), "\r")
	b.partial = append([]byte(nil), data[i+1:]...)
}

// LastLine returns the last complete line written, truncated to maxLength when it is positive.
func (b *cappedBuffer) LastLine(maxLength int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if maxLength > 3 && len(b.lastLine) > maxLength {
		return b.lastLine[:maxLength-3] + "..."
	}

	return b.lastLine
}

func (b *cappedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Bytes()
}
