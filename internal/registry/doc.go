// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package registry logs the build tool in to the configured image registry before any job runs.
package registry
