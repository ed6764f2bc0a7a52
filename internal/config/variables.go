// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/dockmatrix/internal/tmpl"
)

// Variable is one matrix axis.
type Variable struct {
	Name   string
	Values []string
}

// Variables keeps the axes in the order they were declared.
type Variables []Variable

// UnmarshalYAML decodes a mapping of name to a sequence of scalars, keeping key order.
func (v *Variables) UnmarshalYAML(b []byte) error {
	var ms yaml.MapSlice
	if err := yaml.Unmarshal(b, &ms); err != nil {
		return fmt.Errorf("%w: variables must be a mapping: %w", ErrConfig, err)
	}

	out := make(Variables, 0, len(ms))

	for _, item := range ms {
		name := fmt.Sprint(item.Key)

		seq, ok := item.Value.([]any)
		if !ok {
			return fmt.Errorf("%w: variable %q must be a list of values", ErrConfig, name)
		}

		values := make([]string, 0, len(seq))

		for _, raw := range seq {
			switch raw.(type) {
			case nil, []any, map[string]any, yaml.MapSlice:
				return fmt.Errorf("%w: variable %q must only contain scalar values", ErrConfig, name)
			}

			values = append(values, fmt.Sprint(raw))
		}

		out = append(out, Variable{Name: name, Values: values})
	}

	*v = out

	return nil
}

// MarshalYAML keeps the declared order when writing variables back out.
func (v Variables) MarshalYAML() (any, error) {
	ms := make(yaml.MapSlice, 0, len(v))
	for _, x := range v {
		ms = append(ms, yaml.MapItem{Key: x.Name, Value: x.Values})
	}

	return ms, nil
}

// Names returns the variable names in declared order.
func (v Variables) Names() []string {
	names := make([]string, len(v))
	for i, x := range v {
		names[i] = x.Name
	}

	return names
}

// Size is the number of matrix points: the product of all list lengths, or 1 without variables.
func (v Variables) Size() int {
	n := 1
	for _, x := range v {
		n *= len(x.Values)
	}

	return n
}

// Validate checks names are usable in templates, unique, and that every list has values.
func (v Variables) Validate() error {
	var result *multierror.Error

	seen := make(map[string]struct{}, len(v))

	for _, x := range v {
		if err := tmpl.ValidName(x.Name); err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: %w", ErrConfig, err))
		}

		if _, ok := seen[x.Name]; ok {
			result = multierror.Append(result, fmt.Errorf("%w: variable %q declared twice", ErrConfig, x.Name))
		}

		seen[x.Name] = struct{}{}

		if len(x.Values) == 0 {
			result = multierror.Append(result, fmt.Errorf("%w: variable %q has no values", ErrConfig, x.Name))
		}
	}

	return result.ErrorOrNil()
}
