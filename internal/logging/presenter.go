// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"strings"
)

// ErrorTrail splits a wrapped error into the text each layer adds, outermost
// first, with credentials masked.
func ErrorTrail(err error) []string {
	var trail []string
	for err != nil {
		text := err.Error()
		inner := errors.Unwrap(err)
		if inner != nil {
			text = strings.TrimSuffix(text, inner.Error())
			text = strings.TrimRight(text, ": ")
		}
		if text != "" {
			trail = append(trail, Mask(text))
		}
		err = inner
	}
	return trail
}

// PresentError renders err as an indented trail under label for debug output.
func PresentError(label string, err error) string {
	trail := ErrorTrail(err)
	if len(trail) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(label)
	sb.WriteByte(':')
	for _, t := range trail {
		sb.WriteString("\n  ")
		sb.WriteString(t)
	}
	return sb.String()
}
