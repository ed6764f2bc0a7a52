// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/dockmatrix/internal/ctxlog"
)

// Watch reads sigCh until it is closed or the same signal arrives twice.
// The second signal of a kind calls cancel and returns.
func Watch(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	seen := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := seen[sig]; ok {
			ctxlog.Warn(ctx, "received second signal, aborting remaining builds", "signal", sig.String())
			cancel()

			return
		}

		ctxlog.Warn(ctx, "received signal, send it again to abort", "signal", sig.String())

		seen[sig] = struct{}{}
	}
}
