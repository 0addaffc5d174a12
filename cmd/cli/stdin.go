package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// maxStdinBytes bounds how much piped input is forwarded to the model.
const maxStdinBytes = 64 * 1024

// isTerminal reports whether stream is an interactive terminal.
func isTerminal(stream any) bool {
	f, ok := stream.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// hasStdinInput checks if data may be available from stdin (pipe or redirect)
func hasStdinInput(in io.Reader) bool {
	return in != nil && !isTerminal(in)
}

// readStdinInput reads piped input, truncated to maxStdinBytes.
func readStdinInput(in io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(in, maxStdinBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
