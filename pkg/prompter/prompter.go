package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var (
	in     io.Reader = os.Stdin
	out    io.Writer = os.Stdout
	reader           = bufio.NewReader(in)
)

// SetIO redirects prompts, mainly for tests
func SetIO(r io.Reader, w io.Writer) {
	in, out = r, w
	reader = bufio.NewReader(r)
}

// Reader returns the buffered reader prompts read from
func Reader() *bufio.Reader {
	return reader
}

// PromptString prompts user for a string input
func PromptString(label string) (string, error) {
	fmt.Fprint(out, label)
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// PromptSecret prompts for hidden input when attached to a terminal and
// falls back to a plain read otherwise.
func PromptSecret(label string) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return PromptString(label)
	}

	fmt.Fprint(out, label)
	secret, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(secret)), nil
}

// PromptConfirm prompts user for yes/no confirmation
func PromptConfirm(label string) (bool, error) {
	fmt.Fprint(out, label+" (y/n) ")
	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false, err
	}

	response := strings.TrimSpace(strings.ToLower(input))
	return response == "y" || response == "yes", nil
}

// IsInteractive reports whether prompts read from a terminal
func IsInteractive() bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
