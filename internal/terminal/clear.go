// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides prompt and screen helpers for the interactive commands.
package terminal

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// Width returns the terminal width of stdout, or 80 when unknown.
func Width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// LinesFor returns how many terminal lines textLength characters occupy at width.
func LinesFor(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	n := (textLength + width - 1) / width
	if n < 1 {
		n = 1
	}
	return n
}

// ClearPreviousLines clears a prompt and its answer after the user pressed Enter.
// textLength is the number of characters of prompt plus input.
func ClearPreviousLines(textLength int) {
	// +1 for the empty line the cursor sits on after Enter
	lines := LinesFor(textLength, Width()) + 1
	for i := 0; i < lines; i++ {
		fmt.Print("\r\x1b[2K")
		if i < lines-1 {
			fmt.Print("\x1b[1A")
		}
	}
}
