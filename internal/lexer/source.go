package lexer

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	stringLiteral = regexp.MustCompile(`"(?:\\.|[^"\\\n])*"`)
	placeholder   = regexp.MustCompile(`\x{E000}([0-9]+)\x{E001}`)
)

// preprocess normalizes line endings and removes comments, returning the source
// lines. Removed lines keep their slot as empty strings so numbering survives.
func preprocess(input string) []string {
	input = strings.ReplaceAll(input, "\r\n", "\n")
	input = strings.ReplaceAll(input, "\r", "\n")

	var hidden []string
	masked := stringLiteral.ReplaceAllStringFunc(input, func(lit string) string {
		hidden = append(hidden, lit)
		return "\uE000" + strconv.Itoa(len(hidden)-1) + "\uE001"
	})

	lines := strings.Split(masked, "\n")
	inBlock := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "$$$") {
			inBlock = !inBlock
			lines[i] = ""
			continue
		}
		if inBlock {
			lines[i] = ""
			continue
		}
		if idx := strings.IndexByte(line, '$'); idx >= 0 {
			line = line[:idx]
		}
		lines[i] = restore(line, hidden)
	}
	return lines
}

func restore(line string, hidden []string) string {
	if !strings.ContainsRune(line, '\uE000') {
		return line
	}
	return placeholder.ReplaceAllStringFunc(line, func(ph string) string {
		m := placeholder.FindStringSubmatch(ph)
		n, err := strconv.Atoi(m[1])
		if err != nil || n >= len(hidden) {
			return ph
		}
		return hidden[n]
	})
}
