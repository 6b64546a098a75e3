package catalog

import (
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/setmeup/setmeup/pkg/proc"
)

// Explore walks the source directory and returns every entry whose full
// path matches the playbook pattern, relative to the source root. Discovery
// stops at the immediate children unless the source recurses. Listing
// errors, a missing directory included, yield whatever was found so far
// rather than an error.
func (s *Source) Explore() []string {
	var playbooks []string

	root := filepath.Clean(s.Path)
	filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if s.PlaybookMatch.MatchString(path) {
			playbooks = append(playbooks, rel)
		}
		if !s.Recurse && entry.IsDir() {
			return fs.SkipDir
		}
		return nil
	})

	log.Debug().Str("source", s.Name).Int("playbooks", len(playbooks)).Msg("explored source")
	return playbooks
}

// RunPreProvision executes the source's pre-provision hook through the
// operator's shell, in the source directory. A failing or unspawnable hook
// aborts the source's use for this run.
func (s *Source) RunPreProvision() error {
	if s.PreProvision == "" {
		return nil
	}
	log.Info().Str("source", s.Name).Str("command", s.PreProvision).Msg("running pre-provision hook")
	_, err := proc.Shell(s.PreProvision, s.Path, nil)
	return err
}
