// Package provision composes the rest of the program into one run: bootstrap
// the credentials over the reverse tunnel, let the operator pick a source and
// a playbook, then hand everything to the ansible runner and render its
// report.
package provision
