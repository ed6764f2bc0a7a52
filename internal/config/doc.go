// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads and validates the matrix build file.
//
// An example file:
//
//	variables:
//	  os: [alpine, debian]
//	  arch: [amd64, arm64]
//	recipe: "{{ os }}/Dockerfile"
//	tag: "myapp:{{ os }}-{{ arch }}"
//	registry:
//	  host: registry.example.com
//	  username: ci
//	  password: ${REGISTRY_PASSWORD}
//	parallel: 4
//	push: true
//
// Variable order is significant: it fixes the matrix order and derived tags.
package config
