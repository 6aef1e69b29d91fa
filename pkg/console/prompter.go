package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cast"
)

// Prompter asks questions on an output stream and reads the answers line by line.
// When confirmation is on, each answer is echoed back and must be accepted with Y.
type Prompter struct {
	in      *bufio.Reader
	out     io.Writer
	confirm bool
	palette *Palette
}

// NewPrompter creates a prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer, confirm bool, palette *Palette) *Prompter {
	if palette == nil {
		palette = NewPalette(true)
	}
	return &Prompter{
		in:      bufio.NewReader(in),
		out:     out,
		confirm: confirm,
		palette: palette,
	}
}

// Out returns the stream prompts are written to.
func (p *Prompter) Out() io.Writer { return p.out }

// Palette returns the colors used by the prompter.
func (p *Prompter) Palette() *Palette { return p.palette }

// readLine returns the next line without its terminator. io.EOF is returned only when the
// input is exhausted and nothing was read.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// AskOptional prints the question and returns the answer, which may be empty.
func (p *Prompter) AskOptional(question string) (string, error) {
	for {
		fmt.Fprintf(p.out, "%s: \n", question)
		answer, err := p.readLine()
		if err != nil {
			return "", err
		}
		if !p.confirm {
			return answer, nil
		}
		fmt.Fprintf(p.out, "You have entered: %s, is this correct?(Y/N): \n", answer)
		confirmation, err := p.readLine()
		if err != nil {
			return "", err
		}
		if strings.EqualFold(confirmation, "y") {
			return answer, nil
		}
	}
}

// Ask is AskOptional for answers that cannot be blank.
func (p *Prompter) Ask(question string) (string, error) {
	for {
		answer, err := p.AskOptional(question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		p.palette.Error.Fprintln(p.out, "This value cannot be blank, try again...")
	}
}

// AskInt asks for a whole number. An empty or unparseable answer yields fallback and false.
func (p *Prompter) AskInt(question string, fallback int) (int, bool, error) {
	answer, err := p.AskOptional(question)
	if err != nil {
		return fallback, false, err
	}
	n, err := cast.ToIntE(answer)
	if answer == "" || err != nil {
		return fallback, false, nil
	}
	return n, true, nil
}
