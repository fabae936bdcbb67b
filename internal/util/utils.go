package util

import (
	"bytes"
	"fmt"
	"strings"
)

// GetContextLines formats up to two lines before errorLine plus the line itself, and
// a caret under errorCol (a 0-based byte offset). A negative errorCol points at the
// first non-blank character.
func GetContextLines(src string, errorLine, errorCol int, note string) string {
	var result bytes.Buffer

	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")
	if errorLine < 1 || errorLine > len(lines) {
		return ""
	}

	startLine := errorLine - 2
	if startLine < 1 {
		startLine = 1
	}

	for i := startLine; i <= errorLine; i++ {
		lineContent := lines[i-1]
		if i != errorLine {
			result.WriteString(fmt.Sprintf("     %3d | %s\n", i, lineContent))
			continue
		}

		margin := fmt.Sprintf("  >  %3d | ", i)
		result.WriteString(margin + lineContent + "\n")

		col := errorCol
		if col < 0 {
			col = len(lineContent) - len(strings.TrimLeft(lineContent, " \t"))
		}
		if col > len(lineContent) {
			col = len(lineContent)
		}
		result.WriteString(replaceVisibleWithSpaces(margin+lineContent[:col]) + "^ " + note)
	}

	return result.String()
}

// replaceVisibleWithSpaces replaces all non-whitespace characters with spaces
// while preserving tabs for correct alignment.
func replaceVisibleWithSpaces(s string) string {
	var buf bytes.Buffer
	for _, c := range s {
		if c == '\t' {
			buf.WriteRune('\t')
		} else {
			buf.WriteRune(' ')
		}
	}
	return buf.String()
}
