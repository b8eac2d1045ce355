package lineio

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Sink is the interface for filtered-dump output destinations.
type Sink interface {
	// WriteLines writes every line followed by a single "\n".
	WriteLines(lines []string) error
}

// Join renders lines the way every Sink writes them.
func Join(lines []string) []byte {
	var buf bytes.Buffer

	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}

// StdoutSink writes lines to a stream.
type StdoutSink struct {
	out io.Writer
}

// NewStdoutSink creates a sink that sends output to the given writer.
// If w is nil, os.Stdout is used.
func NewStdoutSink(w io.Writer) *StdoutSink {
	if w == nil {
		w = os.Stdout
	}

	return &StdoutSink{out: w}
}

// WriteLines sends lines to the stream.
func (s *StdoutSink) WriteLines(lines []string) error {
	if _, err := s.out.Write(Join(lines)); err != nil {
		return &IOError{Op: "writing", Path: "stdout", Err: err}
	}

	return nil
}

// FileSink writes lines to a file, creating parent directories as needed.
type FileSink struct {
	path   string
	perm   os.FileMode
	logger *slog.Logger
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithPermissions overrides the default file permissions (0644).
func WithPermissions(perm os.FileMode) FileSinkOption {
	return func(fs *FileSink) {
		fs.perm = perm
	}
}

// WithLogger sets a logger for the FileSink. A nil logger is ignored.
func WithLogger(logger *slog.Logger) FileSinkOption {
	return func(fs *FileSink) {
		if logger != nil {
			fs.logger = logger
		}
	}
}

// NewFileSink creates a sink that writes to the specified file path.
func NewFileSink(path string, opts ...FileSinkOption) *FileSink {
	fs := &FileSink{
		path:   path,
		perm:   0o644,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(fs)
	}

	return fs
}

// WriteLines creates parent directories and replaces the file's contents.
func (fs *FileSink) WriteLines(lines []string) error {
	dir := filepath.Dir(fs.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &IOError{Op: "creating directory", Path: dir, Err: err}
	}

	if _, err := os.Stat(fs.path); err == nil {
		fs.logger.Debug("overwriting existing file", slog.String("path", fs.path))
	}

	if err := os.WriteFile(fs.path, Join(lines), fs.perm); err != nil {
		return &IOError{Op: "writing", Path: fs.path, Err: err}
	}

	return nil
}

// Path returns the output file path.
func (fs *FileSink) Path() string {
	return fs.path
}

// NewSink returns a FileSink for a named path and a StdoutSink writing to
// stdout for "" or "-".
func NewSink(path string, stdout io.Writer, logger *slog.Logger) Sink {
	if IsStdio(path) {
		return NewStdoutSink(stdout)
	}

	return NewFileSink(path, WithLogger(logger))
}
