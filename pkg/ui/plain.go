package ui

import (
	"fmt"

	"github.com/setmeup/setmeup/pkg/ansible"
)

// Plain is the undecorated variant. It never moves the cursor or emits
// escape sequences, so it stays readable over pipes and bare SSH sessions.
type Plain struct {
	console
}

func (p *Plain) Intro() {
	fmt.Fprintln(p.out, "=== Welcome to SetMeUp! ===")
	fmt.Fprintln(p.out, "Basic UI mode: connect with `ssh -t` for something slightly fancier")
	fmt.Fprintln(p.out)
}

func (p *Plain) Error(message string) {
	fmt.Fprintf(p.out, "/!\\ %s\n", message)
}

func (p *Plain) NextStep() {
	fmt.Fprintln(p.out)
}

func (p *Plain) PresentPubkey(username, pubkey string) {
	p.NextStep()
	fmt.Fprintln(p.out, pubkeyBanner(username))
	fmt.Fprintf(p.out, "---\n%s\n---\n\n", pubkey)
}

func (p *Plain) PromptFromList(message string, choices []string) (int, error) {
	fmt.Fprintf(p.out, "%s\n\n", message)
	for i, choice := range choices {
		fmt.Fprintf(p.out, "    %d. %s\n", i+1, choice)
	}
	fmt.Fprintln(p.out)

	return p.promptIndex(len(choices))
}

func (p *Plain) RenderReport(results []ansible.TaskResult) {
	fmt.Fprintln(p.out, "done!")
	for _, task := range results {
		status := "KO"
		if task.Success {
			status = "OK"
		}
		change := ""
		if task.Changed {
			change = " (change)"
		}
		fmt.Fprintf(p.out, "`- [%s]%s %s\n", status, change, task.Name)
		if !task.Success {
			fmt.Fprintf(p.out, "        Task error message: %s\n", task.Message)
		}
	}
}
