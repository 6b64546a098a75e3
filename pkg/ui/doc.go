// Package ui handles every exchange with the operator: prompts, list
// selections, errors, the public-key hand-off and the final task report.
//
// Two variants implement the same Interface. Plain emits unadorned text and
// behaves over pipes and bare SSH sessions; Fancy adds color and clears the
// screen between steps. The caller picks one at startup and passes it down
// explicitly, so nothing in the rest of the program touches the terminal
// directly.
package ui
