package lineio

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// StdioPath is the conventional path meaning standard input or output.
const StdioPath = "-"

// IOError describes a failed read or write on a named source or sink.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsStdio reports whether path selects a standard stream.
func IsStdio(path string) bool {
	return path == "" || path == StdioPath
}

// OpenSource opens path for reading. An empty path or "-" selects stdin,
// whose Close is a no-op.
func OpenSource(path string, stdin io.Reader) (io.ReadCloser, error) {
	if IsStdio(path) {
		if stdin == nil {
			stdin = os.Stdin
		}

		return io.NopCloser(stdin), nil
	}

	f, err := os.Open(path) //nolint:gosec // user-supplied input path
	if err != nil {
		return nil, &IOError{Op: "opening input", Path: path, Err: err}
	}

	return f, nil
}

// ReadLines reads r to EOF and splits it after every "\n". Terminators are
// kept; a final line without one is returned as is. Empty input yields no
// lines.
func ReadLines(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return SplitLines(string(data)), nil
}

// SplitLines splits s the way ReadLines does.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	return lines
}

// ReadFile opens path (or stdin) and reads all of its lines.
func ReadFile(path string, stdin io.Reader) ([]string, error) {
	src, err := OpenSource(path, stdin)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	lines, err := ReadLines(src)
	if err != nil {
		return nil, &IOError{Op: "reading", Path: displayPath(path, "stdin"), Err: err}
	}

	return lines, nil
}

func displayPath(path, stdio string) string {
	if IsStdio(path) {
		return stdio
	}

	return path
}
