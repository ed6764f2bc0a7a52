// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package registry

import (
	"context"

	"github.com/matt-FFFFFF/dockmatrix/internal/config"
	"github.com/matt-FFFFFF/dockmatrix/internal/console"
	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
	"github.com/matt-FFFFFF/dockmatrix/internal/runbatch"
	"github.com/matt-FFFFFF/dockmatrix/internal/tool"
)

// Authenticator runs the tool's login verb.
type Authenticator struct {
	Runner tool.Runner
	Exe    string // Tool name, for display
	Sink   console.Sink
}

// Login logs in to reg and returns the host that jobs should be tagged for.
//
// A nil registry returns "" without running anything. An invalid registry returns an error wrapping
// config.ErrConfig. When the login itself fails the failure is displayed and "" is returned,
// so the builds still go ahead unauthenticated.
func (a *Authenticator) Login(ctx context.Context, reg *config.Registry) (string, error) {
	if reg == nil {
		return "", nil
	}

	if err := reg.Validate(); err != nil {
		return "", err //nolint:wrapcheck
	}

	logger := ctxlog.Logger(ctx).With("registry", reg)
	if !reg.HasCredentials() {
		logger.Debug("no credentials configured, relying on the tool's credential store")
	}

	cmd := &runbatch.OSCommand{
		BaseCommand: runbatch.NewBaseCommand("login", ""),
		Runner:      a.Runner,
		Exe:         a.Exe,
		Args:        tool.LoginArgs(reg.Host, reg.Username, reg.Password),
		Sink:        a.Sink,
		Job:         reg.Host,
	}

	res := cmd.Run(ctx)[0]
	if res.Status != runbatch.ResultStatusSuccess {
		logger.Warn("registry login failed, continuing unauthenticated", "error", res.Error)
		return "", nil
	}

	logger.Info("logged in to registry")

	return reg.Host, nil
}
