package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/setmeup/setmeup/pkg/ansible"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorCyan   = lipgloss.Color("#06b6d4")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	pubkeyStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	indexStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	koStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	changeStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
)

// Fancy is the decorated variant for interactive terminals. It clears the
// screen between steps and colors the status markers.
type Fancy struct {
	console
}

func (f *Fancy) clear() {
	fmt.Fprint(f.out, "\x1b[2J\x1b[H")
}

func (f *Fancy) Intro() {
	fmt.Fprintf(f.out, "%s\n\n", titleStyle.Render("Welcome to SetMeUp!"))
}

func (f *Fancy) Error(message string) {
	fmt.Fprintln(f.out, errorStyle.Render(message))
}

func (f *Fancy) NextStep() {
	f.clear()
}

func (f *Fancy) PresentPubkey(username, pubkey string) {
	f.NextStep()
	fmt.Fprintln(f.out, pubkeyBanner(username))
	fmt.Fprintf(f.out, "%s\n\n", pubkeyStyle.Render(pubkey))
}

func (f *Fancy) PromptFromList(message string, choices []string) (int, error) {
	fmt.Fprintf(f.out, "%s\n\n", message)
	for i, choice := range choices {
		fmt.Fprintf(f.out, "    %s %s\n", indexStyle.Render(fmt.Sprintf("%d.", i+1)), choice)
	}
	fmt.Fprintln(f.out)

	return f.promptIndex(len(choices))
}

func (f *Fancy) RenderReport(results []ansible.TaskResult) {
	fmt.Fprintln(f.out, titleStyle.Render("done!"))

	ok := okStyle.Render("✓")
	ko := koStyle.Render("x")
	change := fmt.Sprintf(" (%s)", changeStyle.Render("change"))

	for _, task := range results {
		status := ko
		if task.Success {
			status = ok
		}
		marker := ""
		if task.Changed {
			marker = change
		}
		fmt.Fprintf(f.out, "`- [%s]%s %s\n", status, marker, task.Name)
		if !task.Success {
			fmt.Fprintf(f.out, "       %s %s\n", errorStyle.Render("Task error message:"), task.Message)
		}
	}
}
