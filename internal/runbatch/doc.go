// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runbatch runs build jobs and their steps and collects what happened to each of them.
//
// A job is a SerialBatch of steps (OSCommand and FunctionCommand). Jobs are handed to Dispatch,
// which runs them on a bounded pool of workers. Every Runnable returns Results, which form a tree
// that can be printed with WriteResults.
package runbatch
