// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tmpl renders recipe paths, recipe bodies and tags against one matrix point.
//
// Templates use text/template syntax. Every variable is available both as a map key
// ({{ .os }}) and as a function of the same name ({{ os }}), so recipes written with
// bare placeholders keep working. A placeholder that names no variable is an error.
package tmpl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"text/template"
)

// ErrTemplate is returned when a template cannot be parsed or references an unknown variable.
var ErrTemplate = errors.New("template error")

// Values maps variable names to their value at one matrix point.
type Values map[string]string

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// helpers are the functions available to every template, in pipeline order (value last).
var helpers = template.FuncMap{
	"lower":   strings.ToLower,
	"upper":   strings.ToUpper,
	"trim":    strings.TrimSpace,
	"replace": func(old, new, s string) string { return strings.ReplaceAll(s, old, new) },
}

// noBare names cannot be called as {{ name }}: they are template keywords, literals or helpers.
// Builtins such as len or index are shadowed by a variable of the same name instead.
var noBare = map[string]struct{}{
	"if": {}, "else": {}, "end": {}, "range": {}, "with": {}, "define": {}, "template": {},
	"block": {}, "break": {}, "continue": {}, "nil": {}, "true": {}, "false": {},
	"lower": {}, "upper": {}, "trim": {}, "replace": {},
}

// ValidName reports whether name can be used as a variable in templates.
func ValidName(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("%w: variable name %q is not an identifier", ErrTemplate, name)
	}

	return nil
}

// BareForm reports whether a variable can be written as {{ name }}. It is always available as {{ .name }}.
func BareForm(name string) bool {
	_, ok := noBare[name]

	return !ok
}

// Render executes text against vars. The name is used in error messages only.
func Render(name, text string, vars Values) (string, error) {
	funcs := make(template.FuncMap, len(helpers)+len(vars))
	for k, fn := range helpers {
		funcs[k] = fn
	}

	for k, v := range vars {
		if err := ValidName(k); err != nil {
			return "", err
		}

		if BareForm(k) {
			funcs[k] = func() string { return v }
		}
	}

	t, err := template.New(name).
		Option("missingkey=error").
		Funcs(funcs).
		Parse(text)
	if err != nil {
		return "", errors.Join(ErrTemplate, err)
	}

	data := make(map[string]string, len(vars))
	for k, v := range vars {
		data[k] = v
	}

	sb := strings.Builder{}
	if err := t.Execute(&sb, data); err != nil {
		return "", errors.Join(ErrTemplate, err)
	}

	return sb.String(), nil
}
