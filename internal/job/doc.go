// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package job holds a single image build and the executor that carries it out.
//
// The executor writes the rendered recipe to a uniquely named file inside the build context,
// runs build, push and run through the external tool, and removes the file again whatever happened.
package job
