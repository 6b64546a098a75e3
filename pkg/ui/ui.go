package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/setmeup/setmeup/pkg/ansible"
)

// Interface is the operator-facing surface of the program. Every method
// writes to the variant's output stream; Prompt and PromptFromList also read
// from its input stream.
type Interface interface {
	Intro()
	Error(message string)
	NextStep()
	PresentPubkey(username, pubkey string)
	Running()
	Prompt(message string) (string, error)
	PromptFromList(message string, choices []string) (int, error)
	RenderReport(results []ansible.TaskResult)
}

// New returns the decorated variant when decorated is true, the plain one
// otherwise.
func New(in io.Reader, out io.Writer, decorated bool) Interface {
	base := console{in: bufio.NewReader(in), out: out}
	if decorated {
		return &Fancy{console: base}
	}
	return &Plain{console: base}
}

// console carries the streams and the prompt behavior both variants share.
type console struct {
	in  *bufio.Reader
	out io.Writer
}

// Prompt shows message and returns the operator's answer with trailing
// whitespace removed. A closed input stream is an error: every question here
// needs an answer before the run can continue.
func (c *console) Prompt(message string) (string, error) {
	fmt.Fprintf(c.out, "%s ", message)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return strings.TrimRightFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n'
	}), nil
}

// promptIndex asks until the operator gives an index between 1 and length,
// and returns it zero-based. A closed input stream aborts the selection:
// nothing may run on the operator's behalf without an explicit choice.
func (c *console) promptIndex(length int) (int, error) {
	for {
		input, err := c.Prompt(fmt.Sprintf("Select by index (1-%d) :", length))
		if err != nil {
			return 0, err
		}
		index, convErr := strconv.Atoi(input)
		if convErr == nil && index >= 1 && index <= length {
			return index - 1, nil
		}
	}
}

// Running announces the engine invocation without a trailing newline so the
// report's first line completes it.
func (c *console) Running() {
	fmt.Fprint(c.out, "Running Ansible (this may take a while)... ")
}

// pubkeyBanner is the text shown above the public key during the credential
// hand-off. The variants only differ in how they style the key itself.
func pubkeyBanner(username string) string {
	return "SetMeUp will be using an ECDSA keypair to authenticate with your machine.\n" +
		fmt.Sprintf("Please make sure user %s has the following public key in their ~/.ssh/authorized_keys file:\n", username)
}
