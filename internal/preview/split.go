// Package preview deterministically partitions generated llms.txt content
// into a freely visible slice and a masked locked slice shown pre-payment.
package preview

import (
	"strings"
	"unicode"

	"github.com/jonesrussell/llmsgen/internal/domain"
)

// minLockedLines is the minimum number of lines reserved for the locked
// portion so there is always something worth paying for.
const minLockedLines = 4

// maskRune replaces every non-whitespace rune in locked lines. The masked
// text keeps the line shape without revealing content.
const maskRune = '#'

// Split partitions content into visible and locked slices. The visible slice
// targets the first half of the lines but always leaves at least
// minLockedLines lines locked. The locked slice keeps line structure with
// every non-whitespace rune masked, and is prefixed with a newline when both
// slices are non-empty so the two concatenate cleanly for display.
func Split(content string) domain.PreviewSlices {
	lines := strings.Split(content, "\n")
	total := len(lines)

	visible := (total + 1) / 2
	if total-visible < minLockedLines {
		visible = total - minLockedLines
		if visible < 1 {
			visible = 1
		}
	}
	if visible > total {
		visible = total
	}

	visibleText := strings.Join(lines[:visible], "\n")

	masked := make([]string, 0, total-visible)
	for _, line := range lines[visible:] {
		masked = append(masked, MaskLine(line))
	}
	lockedText := strings.Join(masked, "\n")

	if visibleText != "" && lockedText != "" {
		lockedText = "\n" + lockedText
	}

	return domain.PreviewSlices{Visible: visibleText, Locked: lockedText}
}

// MaskLine replaces every non-whitespace rune with the mask rune, preserving
// whitespace so indentation and word shape survive.
func MaskLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	for _, r := range line {
		if unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(maskRune)
		}
	}
	return b.String()
}
