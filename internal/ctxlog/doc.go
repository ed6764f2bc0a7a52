// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
//
// The default logger writes coloured, human-readable lines to stderr.
// The level comes from the DOCKMATRIX_LOG_LEVEL environment variable.
package ctxlog
