package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a filter run.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult summarises a single filter run for the status line.
type RunResult struct {
	InputLines  int
	OutputLines int
	Removals    int
}

// Options configures the watch behaviour.
type Options struct {
	// Input is the dump file to watch. Its parent directory is watched so
	// that editors replacing the file atomically are still noticed.
	Input string

	// Output is where each run writes. Events on it are ignored so that a
	// run never retriggers itself.
	Output string

	// Debounce is the quiet period before triggering a run.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 300 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Input == "" {
		return errors.New("watch requires an input file")
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	input, err := filepath.Abs(opts.Input)
	if err != nil {
		return fmt.Errorf("resolving input %q: %w", opts.Input, err)
	}

	if _, statErr := os.Stat(input); statErr != nil {
		return fmt.Errorf("watching input: %w", statErr)
	}

	var output string
	if opts.Output != "" && opts.Output != "-" {
		if output, err = filepath.Abs(opts.Output); err != nil {
			return fmt.Errorf("resolving output %q: %w", opts.Output, err)
		}
	}

	if output == input {
		return fmt.Errorf("output %q must differ from the watched input", opts.Output)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watching input directory: %w", err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", opts.Input, opts.Debounce)

	doRun(sigCtx, opts, runFn, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, func(path string) {
		doRun(sigCtx, opts, runFn, filepath.Base(path))
	})
	debouncer.logger = opts.Logger
	// Waits for an in-flight run before Run returns.
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, input) {
				continue
			}

			opts.Logger.Debug("input changed", slog.String("op", event.Op.String()))

			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				// Wait for the replacement file rather than failing the run.
				continue
			}

			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single filter run and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d lines in, %d lines out, %d removals)\n",
		now, trigger, result.InputLines, result.OutputLines, result.Removals)
}

// isRelevant reports whether event concerns the watched input file.
func isRelevant(event fsnotify.Event, input string) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	if name != input {
		return false
	}

	base := filepath.Base(name)

	return !strings.HasSuffix(base, "~") && !strings.HasSuffix(base, ".swp")
}
