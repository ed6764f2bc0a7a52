// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func quietCtx() context.Context {
	return ctxlog.New(context.Background(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
}

func TestWatch_FirstSignalNoCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(quietCtx())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	done := make(chan struct{})

	go func() {
		defer close(done)
		Watch(ctx, sigCh, cancel)
	}()

	sigCh <- os.Interrupt

	time.Sleep(50 * time.Millisecond)
	assert.NoError(t, ctx.Err(), "context should not be cancelled after first signal")

	close(sigCh)
	<-done
}

func TestWatch_SecondSignalCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(quietCtx())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	sigCh <- syscall.SIGTERM
	sigCh <- syscall.SIGTERM

	Watch(ctx, sigCh, cancel)

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestWatch_DifferentSignalsNoCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(quietCtx())
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	sigCh <- os.Interrupt
	sigCh <- syscall.SIGTERM
	close(sigCh)

	Watch(ctx, sigCh, cancel)

	assert.NoError(t, ctx.Err(), "context should not be cancelled for different signals")
}

func TestNewAndStop(t *testing.T) {
	ch := New(quietCtx(), syscall.SIGUSR1)
	Stop(ch)

	_, ok := <-ch
	assert.False(t, ok, "channel should be closed after Stop")
}
