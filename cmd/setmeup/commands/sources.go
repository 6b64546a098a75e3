package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSourcesCommand() *cobra.Command {
	var withPlaybooks bool

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the configured provisioning sources",
		Long: `List the configured provisioning sources.

With --playbooks each source's directory is explored the same way the
provisioning exchange does, and the matching playbooks are listed under it.
Pre-provision hooks are not run, so sources that pull playbooks on demand
may show fewer entries here than during an exchange.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return fmt.Errorf("failed to parse configuration: %w", err)
			}

			for i := range cat.Sources {
				source := &cat.Sources[i]
				fmt.Printf("%s (%s)\n", source.Name, source.Path)
				if !withPlaybooks {
					continue
				}
				playbooks := source.Explore()
				if len(playbooks) == 0 {
					fmt.Println("    no playbooks")
					continue
				}
				for _, playbook := range playbooks {
					fmt.Printf("    %s\n", playbook)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withPlaybooks, "playbooks", false, "list each source's playbooks")

	return cmd
}
