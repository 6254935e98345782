package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// readHidden prompts on the writer and reads one line. When the reader is a
// terminal the input is not echoed.
func readHidden(io IOTuple, prompt string) ([]byte, error) {
	_, _ = fmt.Fprint(io.Writer, prompt)

	if f, ok := io.Reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		value, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(io.Writer)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return value, nil
	}

	line, err := bufio.NewReader(io.Reader).ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
