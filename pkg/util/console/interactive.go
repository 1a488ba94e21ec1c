package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var ErrNotInteractive = errors.New("stdin is not a terminal")

// Interactive reads one line from stdin. Required prompts repeat until a
// value is given.
type Interactive struct {
	Prompt   string
	Required bool
}

func (i Interactive) Read() (string, error) {
	suffix := ""
	if i.Required {
		suffix = " (required)"
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Fprintf(os.Stderr, "%s%s: ", i.Prompt, suffix)
		text, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("stdin is closed while reading %q", i.Prompt)
			}
			return "", err
		}
		text = strings.TrimSpace(text)
		if i.Required && text == "" {
			Warn("Please enter a value")
			continue
		}
		return text, nil
	}
}

// InteractiveSecret reads a value without echoing it back to the terminal.
type InteractiveSecret struct {
	Prompt string
}

func (i InteractiveSecret) Read() (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec // G115: Fd() fits in int on all supported platforms
	if !term.IsTerminal(fd) {
		return "", ErrNotInteractive
	}
	for {
		fmt.Fprintf(os.Stderr, "%s: ", i.Prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(i.Prompt), err)
		}
		if len(b) == 0 {
			Warn("Please enter a value")
			continue
		}
		return string(b), nil
	}
}

// TerminalPrompter asks the user on stdin. Secrets are read with echo disabled.
type TerminalPrompter struct{}

func (TerminalPrompter) Prompt(label string) (string, error) {
	return Interactive{Prompt: label, Required: true}.Read()
}

func (TerminalPrompter) PromptSecret(label string) (string, error) {
	return InteractiveSecret{Prompt: label}.Read()
}
