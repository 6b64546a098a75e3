package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ParseError is a catalog validation failure, scoped to the source entry
// that caused it. The Reason strings are stable operator-facing contract.
type ParseError struct {
	Source string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return e.Reason
	}
	return fmt.Sprintf("source %q: %s", e.Source, e.Reason)
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("failed to read configuration from %s", path)}
	}
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Int("sources", len(c.Sources)).Msg("catalog loaded")
	return c, nil
}

// Parse validates a catalog document. Any failing entry fails the whole
// parse; there are no partial catalogs.
func Parse(data []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Reason: "configuration should be a single-document YAML file"}
		}
		return nil, &ParseError{Reason: err.Error()}
	}
	if err := dec.Decode(&yaml.Node{}); !errors.Is(err, io.EOF) {
		return nil, &ParseError{Reason: "configuration should be a single-document YAML file"}
	}

	if len(doc.Content) == 0 {
		return nil, &ParseError{Reason: "missing or empty sources"}
	}

	sources := mappingValue(doc.Content[0], "sources")
	if sources == nil || sources.Kind != yaml.MappingNode || len(sources.Content) == 0 {
		return nil, &ParseError{Reason: "missing or empty sources"}
	}

	catalog := &Catalog{}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(sources.Content); i += 2 {
		key, value := sources.Content[i], sources.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Tag != "!!str" {
			return nil, &ParseError{Reason: "expected string as source name"}
		}
		if seen[key.Value] {
			return nil, &ParseError{Reason: fmt.Sprintf("duplicate source name: %s", key.Value)}
		}
		seen[key.Value] = true

		source, err := parseSource(key.Value, value)
		if err != nil {
			return nil, err
		}
		catalog.Sources = append(catalog.Sources, *source)
	}
	return catalog, nil
}

func parseSource(name string, node *yaml.Node) (*Source, error) {
	fail := func(reason string) (*Source, error) {
		return nil, &ParseError{Source: name, Reason: reason}
	}

	source := &Source{Name: name}

	switch path := mappingValue(node, "path"); {
	case path == nil:
		return fail("missing path parameter")
	case !isString(path):
		return fail("expected string for the path parameter")
	default:
		if !readableDir(path.Value) {
			return fail(fmt.Sprintf("failed to read at %s", path.Value))
		}
		source.Path = path.Value
	}

	switch recurse := mappingValue(node, "recurse"); {
	case recurse == nil:
	case recurse.Kind == yaml.ScalarNode && recurse.Tag == "!!bool":
		if err := recurse.Decode(&source.Recurse); err != nil {
			return fail("expected boolean for the recurse source parameter")
		}
	default:
		return fail("expected boolean for the recurse source parameter")
	}

	switch match := mappingValue(node, "playbook_match"); {
	case match == nil:
		source.PlaybookMatch = regexp.MustCompile(DefaultPlaybookMatch)
	case !isString(match):
		return fail("expected string for the playbook_match source parameter")
	default:
		compiled, err := regexp.Compile(match.Value)
		if err != nil {
			return fail(err.Error())
		}
		source.PlaybookMatch = compiled
	}

	switch pre := mappingValue(node, "pre_provision"); {
	case pre == nil:
	case !isString(pre):
		return fail("expected string for the pre_provision source parameter")
	default:
		source.PreProvision = pre.Value
	}

	// A non-mapping ansible_playbook value is treated like an absent one,
	// matching the lookup semantics of the rest of the entry.
	if engine := mappingValue(node, "ansible_playbook"); engine != nil && engine.Kind == yaml.MappingNode {
		ctx, err := parseEngineContext(name, engine)
		if err != nil {
			return nil, err
		}
		source.Engine = *ctx
	}

	return source, nil
}

func parseEngineContext(name string, node *yaml.Node) (*EngineContext, error) {
	fail := func(reason string) (*EngineContext, error) {
		return nil, &ParseError{Source: name, Reason: reason}
	}

	ctx := &EngineContext{}

	switch path := mappingValue(node, "path"); {
	case path == nil:
	case !isString(path):
		return fail("expected string for the ansible-playbook path")
	default:
		if !executableFile(path.Value) {
			return fail(fmt.Sprintf("no executable ansible-playbook at %s", path.Value))
		}
		ctx.Path = path.Value
	}

	switch env := mappingValue(node, "env"); {
	case env == nil:
	case env.Kind != yaml.SequenceNode:
		return fail("expected list for the ansible-playbook environment")
	default:
		ctx.Env = make(map[string]string, len(env.Content))
		for _, item := range env.Content {
			varName := mappingValue(item, "name")
			switch {
			case varName == nil:
				return fail("missing name property for environment variable")
			case !isString(varName):
				return fail("non-string name property for environment variable")
			}

			varValue := mappingValue(item, "value")
			switch {
			case varValue == nil:
				return fail("missing value property for environment variable")
			case !isString(varValue):
				return fail("non-string value property for environment variable")
			}

			ctx.Env[varName.Value] = varValue.Value
		}
	}

	return ctx, nil
}

// mappingValue returns the value node for key, or nil when node is not a
// mapping or the key is absent.
func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func isString(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!str"
}

func readableDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	dir, err := os.Open(path)
	if err != nil {
		return false
	}
	dir.Close()
	return true
}

func executableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
