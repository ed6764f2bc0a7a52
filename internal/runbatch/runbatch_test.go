// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runbatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/matt-FFFFFF/dockmatrix/internal/tool"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeRunner is a tool.Runner that records its calls and fails the verbs listed in fail.
type fakeRunner struct {
	mu    sync.Mutex
	calls [][]string
	fail  map[string]int // verb -> exit code
	panic string         // verb that panics
}

func (f *fakeRunner) Run(_ context.Context, cwd string, argv ...string) (*tool.Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{cwd}, argv...))
	f.mu.Unlock()

	if argv[0] == f.panic {
		panic("runner exploded")
	}

	if code, ok := f.fail[argv[0]]; ok {
		return &tool.Output{Stderr: []byte("boom"), ExitCode: code},
			fmt.Errorf("%w: %s (exit code: %d): boom", tool.ErrProcess, argv[0], code)
	}

	return &tool.Output{Stdout: []byte(argv[0] + " ok\n")}, nil
}

func (f *fakeRunner) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls
}

// fakeJob is a Runnable that sleeps and tracks how many instances run at once.
type fakeJob struct {
	label   string
	delay   time.Duration
	fail    bool
	running *atomic.Int32
	peak    *atomic.Int32
	started chan<- string
}

func (f *fakeJob) Run(ctx context.Context) Results {
	if f.started != nil {
		f.started <- f.label
	}

	if f.running != nil {
		n := f.running.Add(1)
		defer f.running.Add(-1)

		for {
			p := f.peak.Load()
			if n <= p || f.peak.CompareAndSwap(p, n) {
				break
			}
		}
	}

	select {
	case <-time.After(f.delay):
	case <-ctx.Done():
	}

	if f.fail {
		return Results{{Label: f.label, Status: ResultStatusError, ExitCode: 1, Error: tool.ErrProcess}}
	}

	return Results{{Label: f.label, Status: ResultStatusSuccess}}
}

func (f *fakeJob) GetLabel() string {
	return f.label
}
