package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Default dump tool invocation: the slippi-js stats script run under node.
const (
	DefaultExtractorCommand = "node slippiStats.js"
	DefaultExtractorTimeout = 60 * time.Second
)

// LocalExtractorClient implements the ExtractorClient interface by executing
// a local program with the replay path as its final argument.
type LocalExtractorClient struct {
	Command string
	Args    []string
	Timeout time.Duration
}

var _ ExtractorClient = &LocalExtractorClient{} // Compile-time check

// NewLocalExtractorClient creates a client from a whitespace-separated command line
// such as "node slippiStats.js". The command line is never passed through a shell.
func NewLocalExtractorClient(cmdline string, timeout time.Duration) (*LocalExtractorClient, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, errors.New("extractor command cannot be empty")
	}
	return &LocalExtractorClient{
		Command: fields[0],
		Args:    fields[1:],
		Timeout: timeout,
	}, nil
}

// Dump runs the extractor on path and returns its stdout.
func (c *LocalExtractorClient) Dump(ctx context.Context, path string) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, c.Args...), path)
	cmd := exec.CommandContext(ctx, c.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}

	toolErr := &ExternalToolError{
		Command:  c.Command,
		Args:     args,
		ExitCode: -1,
		Output:   strings.TrimSpace(stderr.String() + "\n" + string(out)),
		Timeout:  c.Timeout,
		Err:      err,
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		toolErr.TimedOut = true
		return nil, toolErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.ExitCode = exitErr.ExitCode()
		return nil, toolErr
	}
	if errors.Is(err, exec.ErrNotFound) {
		toolErr.Err = fmt.Errorf("%w. Ensure %s is installed and available on your PATH", err, c.Command)
	}
	return nil, toolErr
}
