// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tool wraps the external image build tool (docker, podman, ...).
//
// Everything the pipeline asks of the tool goes through the Runner interface,
// so the executor and the authenticator can be tested against fakes.
package tool
