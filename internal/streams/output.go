// internal/streams/output.go
package streams

import (
	"fmt"
	"io"
	"os"
)

// CloseError marks a failed close-flush of an output file. The caller maps
// it to its own exit code, distinct from an open failure.
type CloseError struct {
	Path string
	Err  error
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("close %s: %v", e.Path, e.Err)
}

func (e *CloseError) Unwrap() error { return e.Err }

// Output owns the current destination stream. It starts at stdout and can be
// redirected between input files; the previous destination is close-flushed
// before the next one opens.
type Output struct {
	w      io.Writer
	file   *os.File // nil while writing to stdout
	path   string
	stdout io.Writer
}

// NewOutput returns an Output writing to stdout.
func NewOutput(stdout io.Writer) *Output {
	return &Output{w: stdout, stdout: stdout, path: Stdio}
}

// Writer returns the current destination.
func (o *Output) Writer() io.Writer { return o.w }

// Path returns the current destination path ("-" for stdout).
func (o *Output) Path() string { return o.path }

// Redirect close-flushes the current destination and opens path for binary
// writing; "-" returns to stdout. A failed close surfaces as *CloseError, a
// failed open as the plain os error.
func (o *Output) Redirect(path string) error {
	if err := o.Close(); err != nil {
		return err
	}
	if path == Stdio {
		return nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	o.w = fh
	o.file = fh
	o.path = path
	return nil
}

// Close close-flushes the current destination and falls back to stdout.
// Closing while already on stdout is a no-op.
func (o *Output) Close() error {
	if o.file == nil {
		return nil
	}
	err := o.file.Close()
	path := o.path
	o.file = nil
	o.w = o.stdout
	o.path = Stdio
	if err != nil {
		return &CloseError{Path: path, Err: err}
	}
	return nil
}
