package converter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Converter turns the documents matching pattern into .txt files in
// outputDir. Anything the converter prints is copied to out.
type Converter interface {
	Convert(ctx context.Context, pattern, outputDir string, out io.Writer) error
}

// Config holds configuration for the command converter
type Config struct {
	Command []string // Executable followed by fixed leading arguments
}

// Error reports a failed converter run
type Error struct {
	Command  []string
	ExitCode int // -1 when the process did not start or was killed
	Output   string
	Err      error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("converter %q failed: %v", strings.Join(e.Command, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\nOutput: " + out
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// executor abstracts command execution for testing
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, out io.Writer, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, out io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

// CommandConverter runs an external conversion program as a subprocess with
// the arguments (pattern, "-o", outputDir) appended to the configured command
type CommandConverter struct {
	command []string
	exec    executor
}

// NewCommandConverter creates a converter for the configured command. It
// verifies that the executable is available before returning.
func NewCommandConverter(config *Config) (*CommandConverter, error) {
	return newCommandConverter(config, osExecutor{})
}

func newCommandConverter(config *Config, exec executor) (*CommandConverter, error) {
	if config == nil || len(config.Command) == 0 {
		return nil, fmt.Errorf("converter command is required")
	}

	if _, err := exec.LookPath(config.Command[0]); err != nil {
		return nil, fmt.Errorf("converter %s is not installed or not in PATH: %w", config.Command[0], err)
	}

	command := make([]string, len(config.Command))
	copy(command, config.Command)

	return &CommandConverter{command: command, exec: exec}, nil
}

// Args returns the full argument list for a conversion run
func (c *CommandConverter) Args(pattern, outputDir string) []string {
	args := make([]string, 0, len(c.command)+2)
	args = append(args, c.command[1:]...)
	return append(args, pattern, "-o", outputDir)
}

// Convert runs the converter synchronously and blocks until it exits. Its
// output is streamed to out as it is produced. A non-zero exit status is
// returned as *Error.
func (c *CommandConverter) Convert(ctx context.Context, pattern, outputDir string, out io.Writer) error {
	args := c.Args(pattern, outputDir)

	var output bytes.Buffer
	w := io.Writer(&output)
	if out != nil {
		w = io.MultiWriter(&output, out)
	}

	err := c.exec.Run(ctx, w, c.command[0], args...)
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		return &Error{
			Command:  append([]string{c.command[0]}, args...),
			ExitCode: exitCode,
			Output:   output.String(),
			Err:      err,
		}
	}

	return nil
}
