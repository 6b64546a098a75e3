package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/setmeup/setmeup/pkg/provision"
)

func newProvisionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Run a full provisioning exchange against one target",
		Long: `Run a full provisioning exchange against one target.

The exchange walks the operator through:
  - reverse tunnel port and credential verification
  - source and playbook selection
  - ansible-playbook execution and the per-task report`,
		Args: cobra.NoArgs,
		RunE: runProvision,
	}
}

func runProvision(cmd *cobra.Command, args []string) error {
	operator := newUI()

	cat, err := loadCatalog()
	if err != nil {
		err = fmt.Errorf("failed to parse configuration: %w", err)
		operator.Error(err.Error())
		return err
	}

	if err := provision.New(operator, cat).Run(); err != nil {
		operator.Error(err.Error())
		return err
	}
	return nil
}
