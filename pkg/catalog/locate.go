package catalog

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"
)

// ErrNoConfiguration is returned when no catalog file exists at any of the
// well-known locations and none was given on the command line.
var ErrNoConfiguration = errors.New("no configuration file found")

// Locate resolves the catalog file path. An explicit flag value wins
// unconditionally; otherwise the first existing candidate is used, in order:
// $SETMEUP_CONF, the XDG config dir (setmeup/setmeup.yml, then setmeup.yml),
// ~/.setmeup.yml, /etc/setmeup/setmeup.yml and /etc/setmeup.yml.
func Locate(flagPath string) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	for _, candidate := range defaultLocations() {
		if _, err := os.Stat(candidate); err == nil {
			log.Debug().Str("path", candidate).Msg("using configuration file")
			return candidate, nil
		}
	}
	return "", ErrNoConfiguration
}

func defaultLocations() []string {
	var locations []string

	if fromEnv := os.Getenv("SETMEUP_CONF"); fromEnv != "" {
		locations = append(locations, fromEnv)
	}

	locations = append(locations,
		filepath.Join(xdg.ConfigHome, "setmeup", "setmeup.yml"),
		filepath.Join(xdg.ConfigHome, "setmeup.yml"),
	)

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".setmeup.yml"))
	}

	return append(locations,
		"/etc/setmeup/setmeup.yml",
		"/etc/setmeup.yml",
	)
}
