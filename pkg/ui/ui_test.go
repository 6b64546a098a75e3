package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/setmeup/setmeup/pkg/ansible"
)

func plainOver(input string) (*Plain, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return New(strings.NewReader(input), out, false).(*Plain), out
}

func TestPromptTrimsTrailingWhitespace(t *testing.T) {
	plain, out := plainOver("  some answer \r\n")

	got, err := plain.Prompt("Question?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "  some answer" {
		t.Errorf("expected the trimmed answer, got %q", got)
	}
	if out.String() != "Question? " {
		t.Errorf("expected the prompt with a trailing space, got %q", out.String())
	}
}

func TestPromptClosedInput(t *testing.T) {
	plain, _ := plainOver("")
	if _, err := plain.Prompt("Question?"); err == nil {
		t.Error("expected an error on closed input")
	}
}

func TestPromptLastLineWithoutNewline(t *testing.T) {
	plain, _ := plainOver("answer")
	got, err := plain.Prompt("Question?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "answer" {
		t.Errorf("expected the answer, got %q", got)
	}
}

func TestPromptFromList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"first try", "1\n", 0},
		{"last entry", "3\n", 2},
		{"retries until valid", "0\nfour\n17\n2\n", 1},
	}

	choices := []string{"alpha", "beta", "gamma"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plain, out := plainOver(tt.input)
			got, err := plain.PromptFromList("Pick one:", choices)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected index %d, got %d", tt.want, got)
			}
			for _, fragment := range []string{"Pick one:", "    1. alpha", "    3. gamma", "Select by index (1-3) :"} {
				if !strings.Contains(out.String(), fragment) {
					t.Errorf("expected %q in output %q", fragment, out.String())
				}
			}
		})
	}
}

func TestPromptFromListClosedInput(t *testing.T) {
	// A vanished operator must abort the selection, never default to an
	// entry they did not pick.
	tests := []struct {
		name  string
		input string
	}{
		{"closed before any answer", ""},
		{"closed after invalid answers", "0\nfour\n"},
	}

	choices := []string{"alpha", "beta", "gamma"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plain, _ := plainOver(tt.input)
			if _, err := plain.PromptFromList("Pick one:", choices); err == nil {
				t.Error("expected an error on closed input")
			}
		})
	}
}

func TestPlainIntroAndError(t *testing.T) {
	plain, out := plainOver("")
	plain.Intro()
	plain.Error("something broke")

	for _, fragment := range []string{"=== Welcome to SetMeUp! ===", "/!\\ something broke"} {
		if !strings.Contains(out.String(), fragment) {
			t.Errorf("expected %q in output %q", fragment, out.String())
		}
	}
}

func TestPlainPresentPubkey(t *testing.T) {
	plain, out := plainOver("")
	plain.PresentPubkey("alice", "ecdsa-sha2-nistp256 AAAA...")

	for _, fragment := range []string{
		"Please make sure user alice has the following public key",
		"---\necdsa-sha2-nistp256 AAAA...\n---",
	} {
		if !strings.Contains(out.String(), fragment) {
			t.Errorf("expected %q in output %q", fragment, out.String())
		}
	}
}

func TestPlainRenderReport(t *testing.T) {
	plain, out := plainOver("")
	plain.Running()
	plain.RenderReport([]ansible.TaskResult{
		{Name: "install nginx", Success: true, Changed: true},
		{Name: "copy config", Success: true},
		{Name: "restart nginx", Success: false, Message: "unit not found"},
	})

	got := out.String()
	for _, fragment := range []string{
		"Running Ansible (this may take a while)... done!",
		"`- [OK] (change) install nginx",
		"`- [OK] copy config",
		"`- [KO] restart nginx",
		"        Task error message: unit not found",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("expected %q in output %q", fragment, got)
		}
	}
}

func TestFancyRenderReport(t *testing.T) {
	out := &bytes.Buffer{}
	fancy := New(strings.NewReader(""), out, true).(*Fancy)

	fancy.Intro()
	fancy.RenderReport([]ansible.TaskResult{
		{Name: "install nginx", Success: true, Changed: true},
		{Name: "restart nginx", Success: false, Message: "unit not found"},
	})

	got := out.String()
	for _, fragment := range []string{
		"Welcome to SetMeUp!",
		"install nginx",
		"change",
		"restart nginx",
		"Task error message:",
		"unit not found",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("expected %q in output %q", fragment, got)
		}
	}
}

func TestFancyNextStepClearsScreen(t *testing.T) {
	out := &bytes.Buffer{}
	fancy := New(strings.NewReader(""), out, true).(*Fancy)

	fancy.NextStep()
	if !strings.Contains(out.String(), "\x1b[2J") {
		t.Errorf("expected a clear-screen sequence, got %q", out.String())
	}
}
