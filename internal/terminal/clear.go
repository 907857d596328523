// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides prompt helpers for interactive commands.
package terminal

import (
	"fmt"
	"io"
	"math"
	"os"

	"golang.org/x/term"
)

// ClearPreviousLines erases a prompt and the user's answer after Enter.
// textLength is the combined length of prompt and input; the line count is
// derived from the current terminal width (80 when unknown), plus one for
// the line the cursor moved to.
func ClearPreviousLines(textLength int) {
	clearLines(os.Stdout, textLength, width())
}

func width() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

func linesFor(textLength, termWidth int) int {
	n := int(math.Ceil(float64(textLength) / float64(termWidth)))
	if n < 1 {
		n = 1
	}
	return n + 1
}

func clearLines(w io.Writer, textLength, termWidth int) {
	n := linesFor(textLength, termWidth)
	for i := 0; i < n; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < n-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}
