package repl

import (
	"caml/internal/runner"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/peterh/liner"
)

const (
	PROMPT      = ">> "
	CONT_PROMPT = ".. "
)

const banner = `Caml interactive session. Blocks end with an empty line, :quit exits.`

// LineReader is the part of *liner.State the loop needs.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

type historian interface {
	AppendHistory(item string)
}

// NewLiner sets up a line editor with history loaded from historyPath. The returned
// function saves the history and restores the terminal.
func NewLiner(historyPath string) (*liner.State, func()) {
	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	return ln, func() {
		if historyPath != "" {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			} else {
				slog.Debug("could not save history", slog.String("path", historyPath), slog.Any("error", err))
			}
		}
		_ = ln.Close()
	}
}

// Start reads statements until EOF or :quit and runs each chunk on r. Variables,
// functions and objects survive between chunks.
func Start(r *runner.Runner, in LineReader, out io.Writer) {
	fmt.Fprintln(out, banner)

	for {
		src, ok := readChunk(in)
		if !ok {
			fmt.Fprintln(out)
			return
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":exit":
				return
			default:
				fmt.Fprintln(out, "unknown command. Type :quit to exit.")
			}
			continue
		}

		if h, ok := in.(historian); ok {
			h.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		}

		if err := r.RunSource("", src); err != nil {
			msg := runner.Render(err)
			if !strings.HasSuffix(msg, "\n") {
				msg += "\n"
			}
			io.WriteString(out, msg)
		}
	}
}

// readChunk returns one line, or a block header ending in ":" together with the
// lines after it up to the first empty one. Ctrl-C discards what was typed.
func readChunk(in LineReader) (string, bool) {
	var b strings.Builder
	block := false

	for {
		prompt := PROMPT
		if b.Len() > 0 {
			prompt = CONT_PROMPT
		}
		line, err := in.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if block {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			slog.Debug("prompt failed", slog.Any("error", err))
			return "", false
		}

		if block && strings.TrimSpace(line) == "" {
			return b.String(), true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if strings.HasSuffix(strings.TrimSpace(line), ":") {
			block = true
		}
		if !block {
			return b.String(), true
		}
	}
}
