package proc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Mode selects how a child process is attached to the terminal.
type Mode int

const (
	// Captured pipes stdout/stderr into buffers and closes stdin.
	Captured Mode = iota

	// Interactive inherits the parent's stdin, stdout and stderr.
	Interactive
)

// Options control a single Run invocation.
type Options struct {
	Mode Mode

	// EngineOutput marks the child as the configuration-management engine:
	// a non-zero exit whose captured stdout begins with "{" is still a
	// success, because the engine reports task-level failures inside a
	// well-formed JSON document rather than through its exit status.
	EngineOutput bool
}

// ExitError reports a child process that ran but exited non-zero.
type ExitError struct {
	Program string
	Status  int
	Output  string
}

func (e *ExitError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s exited with non-zero status code %d", e.Program, e.Status)
	}
	return fmt.Sprintf("failed to run %s:\n\n%s", e.Program, e.Output)
}

// Run executes program with the given arguments in dir. Entries in extraEnv
// are merged over the inherited environment, overriding by name. The
// returned string is the captured stdout; it is always empty in Interactive
// mode. A failure to spawn the process is a hard error in both modes.
func Run(program string, args []string, dir string, extraEnv map[string]string, opts Options) (string, error) {
	cmd := exec.Command(program, args...)
	cmd.Dir = dir
	cmd.Env = mergeEnv(extraEnv)

	log.Debug().
		Str("program", program).
		Strs("args", args).
		Str("dir", dir).
		Bool("interactive", opts.Mode == Interactive).
		Msg("running external program")

	if opts.Mode == Interactive {
		return "", runInteractive(cmd, program)
	}
	return runCaptured(cmd, program, opts.EngineOutput)
}

// Shell executes cmdline through the operator's shell ($SHELL, falling back
// to /bin/sh) in dir, captured.
func Shell(cmdline string, dir string, extraEnv map[string]string) (string, error) {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return Run(shell, []string{"-c", cmdline}, dir, extraEnv, Options{Mode: Captured})
}

func runCaptured(cmd *exec.Cmd, program string, engineOutput bool) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdin = nil
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return "", fmt.Errorf("failed to spawn process: %w", err)
	}

	out := stdout.String()
	if engineOutput && strings.HasPrefix(out, "{") {
		// The engine crashed-by-exit-code but still produced a report.
		return out, nil
	}

	var detail string
	if engineOutput {
		detail = out + "\n" + stderr.String()
	} else {
		detail = combinedOutput(out, stderr.String())
	}
	return "", &ExitError{Program: program, Status: exitErr.ExitCode(), Output: detail}
}

func runInteractive(cmd *exec.Cmd, program string) error {
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("failed to spawn process: %w", err)
	}
	// Nothing was captured, so the status is all we can report.
	return &ExitError{Program: program, Status: exitErr.ExitCode()}
}

func mergeEnv(extra map[string]string) []string {
	env := os.Environ()
	for name, value := range extra {
		env = append(env, name+"="+value)
	}
	// os/exec gives the last occurrence of a name precedence, so appended
	// entries override inherited ones.
	return env
}

func combinedOutput(stdout, stderr string) string {
	if stdout == "" {
		stdout = "<nothing on stdout>"
	}
	if stderr == "" {
		stderr = "<nothing on stderr>"
	}
	return stdout + "\n\n" + stderr
}
