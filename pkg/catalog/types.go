package catalog

import "regexp"

// DefaultPlaybookMatch is the pattern applied when a source does not set
// playbook_match: any .yml or .yaml file counts as a playbook.
const DefaultPlaybookMatch = `\.ya?ml$`

// EngineContext carries a source's overrides for the ansible-playbook
// invocation. The zero value means "use the engine found on PATH, with no
// extra environment".
type EngineContext struct {
	// Path is an explicit ansible-playbook binary, validated to be an
	// existing executable file at catalog-load time. Empty means PATH
	// lookup at run time.
	Path string

	// Env is merged into the engine's environment, overriding inherited
	// variables by name.
	Env map[string]string
}

// Source is one named, validated directory of playbooks. Immutable once
// parsed; the catalog owns it for the process lifetime.
type Source struct {
	Name          string
	Path          string
	Recurse       bool
	PlaybookMatch *regexp.Regexp
	PreProvision  string
	Engine        EngineContext
}

// Catalog is the full set of parsed sources, in document order.
type Catalog struct {
	Sources []Source
}

// Names returns the source names in document order, for selection prompts.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		names[i] = s.Name
	}
	return names
}

// Engines returns the distinct engine paths across sources, in
// first-appearance order. Sources relying on PATH lookup contribute the
// empty string once.
func (c *Catalog) Engines() []string {
	var engines []string
	seen := make(map[string]bool)
	for _, s := range c.Sources {
		if !seen[s.Engine.Path] {
			seen[s.Engine.Path] = true
			engines = append(engines, s.Engine.Path)
		}
	}
	return engines
}
