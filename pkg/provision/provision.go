package provision

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/setmeup/setmeup/pkg/ansible"
	"github.com/setmeup/setmeup/pkg/bootstrap"
	"github.com/setmeup/setmeup/pkg/catalog"
	"github.com/setmeup/setmeup/pkg/ui"
)

// Orchestrator drives one provisioning run against one target.
type Orchestrator struct {
	UI       ui.Interface
	Catalog  *catalog.Catalog
	validate *validator.Validate
}

// New returns an orchestrator conversing through u over the sources in c.
func New(u ui.Interface, c *catalog.Catalog) *Orchestrator {
	return &Orchestrator{
		UI:       u,
		Catalog:  c,
		validate: validator.New(),
	}
}

// Run performs a full provisioning run: credential bootstrap, source and
// playbook selection, engine execution, report rendering.
func (o *Orchestrator) Run() error {
	o.UI.Intro()

	setup, err := bootstrap.Prompt(o.UI)
	if err != nil {
		return fmt.Errorf("failed to set up the exchange: %w", err)
	}
	if err := o.validate.Struct(setup); err != nil {
		return fmt.Errorf("failed to set up the exchange: %w", err)
	}

	o.UI.NextStep()
	return o.provision(setup)
}

// provision is the post-bootstrap half of a run, with the credentials
// already verified.
func (o *Orchestrator) provision(setup *bootstrap.Setup) error {
	source, playbookPath, err := o.choose()
	if err != nil {
		return fmt.Errorf("failed to prepare for provisioning: %w", err)
	}

	runID := uuid.NewString()
	log.Info().
		Str("run", runID).
		Str("source", source.Name).
		Str("playbook", playbookPath).
		Msg("starting provisioning run")

	o.UI.NextStep()
	o.UI.Running()

	runner := &ansible.Runner{Prefix: runID}
	results, err := runner.Execute(setup, playbookPath, source)
	if err != nil {
		return fmt.Errorf("provisioning error: %w", err)
	}

	o.UI.RenderReport(results)
	log.Info().Str("run", runID).Int("tasks", len(results)).Msg("provisioning run finished")
	return nil
}

// choose walks the operator through source and playbook selection, running
// the source's pre-provision hook in between so freshly pulled playbooks
// show up in the list.
func (o *Orchestrator) choose() (*catalog.Source, string, error) {
	sourceIndex, err := o.UI.PromptFromList(
		"Here are the available provisioning sources:", o.Catalog.Names())
	if err != nil {
		return nil, "", err
	}
	source := &o.Catalog.Sources[sourceIndex]

	if err := source.RunPreProvision(); err != nil {
		return nil, "", err
	}

	playbooks := source.Explore()
	if len(playbooks) == 0 {
		return nil, "", fmt.Errorf("no playbooks found in source %q", source.Name)
	}

	playbookIndex, err := o.UI.PromptFromList("Here are the available playbooks:", playbooks)
	if err != nil {
		return nil, "", err
	}
	return source, playbooks[playbookIndex], nil
}
