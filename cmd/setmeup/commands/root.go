package commands

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/setmeup/setmeup/pkg/catalog"
	"github.com/setmeup/setmeup/pkg/ui"
)

var (
	// Global flags
	configPath string
)

// Execute runs the root command
func Execute(version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.Execute()
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "setmeup",
		Short: "SetMeUp - minimalistic Ansible-based remote provisioning",
		Long: `SetMeUp provisions a remote machine over a reverse SSH tunnel the
operator already owns. It walks the operator through the exchange: pick a
playbook source, verify credentials through the tunnel, run ansible-playbook
against the target and report the per-task outcome.

Run without a subcommand for the full provisioning exchange.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runProvision,
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file path")

	rootCmd.AddCommand(newProvisionCommand())
	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newSourcesCommand())

	return rootCmd
}

// loadCatalog locates and parses the source catalog honoring the --config
// flag.
func loadCatalog() (*catalog.Catalog, error) {
	path, err := catalog.Locate(configPath)
	if err != nil {
		return nil, err
	}
	return catalog.Load(path)
}

// newUI picks the decorated variant when stdout is a terminal.
func newUI() ui.Interface {
	decorated := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	return ui.New(os.Stdin, os.Stdout, decorated)
}
