package host

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// StdConsole prints to a writer and reads prompt answers line by line from a reader.
type StdConsole struct {
	out io.Writer
	in  *bufio.Reader
}

func NewStdConsole(in io.Reader, out io.Writer) *StdConsole {
	return &StdConsole{out: out, in: bufio.NewReader(in)}
}

// Stdio is a console over the process stdin and stdout.
func Stdio() *StdConsole {
	return NewStdConsole(os.Stdin, os.Stdout)
}

func (c *StdConsole) Print(text string) {
	fmt.Fprintln(c.out, text)
}

// Prompt returns the next input line without its line ending; EOF yields what was
// read so far, usually the empty string.
func (c *StdConsole) Prompt(text string) string {
	fmt.Fprint(c.out, text+": ")
	line, _ := c.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

// LinerConsole shares the REPL's line editor so prompts get history and editing.
type LinerConsole struct {
	State *liner.State
	Out   io.Writer
}

func (c *LinerConsole) Print(text string) {
	fmt.Fprintln(c.Out, text)
}

// Prompt returns the empty string on Ctrl-C, Ctrl-D or any other read error.
func (c *LinerConsole) Prompt(text string) string {
	answer, err := c.State.Prompt(text + ": ")
	if err != nil {
		return ""
	}
	return answer
}
