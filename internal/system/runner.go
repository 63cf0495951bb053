package system

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes external commands. Tests swap it for a fake.
type Runner interface {
	// Output runs the command to completion and returns its stdout.
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	// Start launches the command and does not wait for it.
	Start(ctx context.Context, name string, args ...string) error
	LookPath(name string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}

func (ExecRunner) Start(_ context.Context, name string, args ...string) error {
	// Not bound to ctx: launched apps outlive the request.
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	go cmd.Wait()
	return nil
}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
