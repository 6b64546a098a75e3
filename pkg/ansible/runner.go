package ansible

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/setmeup/setmeup/pkg/bootstrap"
	"github.com/setmeup/setmeup/pkg/catalog"
	"github.com/setmeup/setmeup/pkg/proc"
)

// DefaultEngine is the engine binary looked up on PATH when the source does
// not override it.
const DefaultEngine = "ansible-playbook"

// inventoryHostname is the single logical target as the engine sees it.
const inventoryHostname = "provisionee"

// Runner executes playbooks against the provisionee. Prefix scopes the
// transient artifact names to one run.
type Runner struct {
	Prefix string
}

// Execute runs playbookPath from source against the reverse tunnel
// described by setup and decodes the engine's report. All transient
// artifacts (key file, inventory, control-socket directory) are released
// on every exit path.
func (r *Runner) Execute(setup *bootstrap.Setup, playbookPath string, source *catalog.Source) ([]TaskResult, error) {
	keyPath, err := r.writeKeyFile(setup.Credentials.Keypair)
	if err != nil {
		return nil, err
	}
	defer os.Remove(keyPath)

	inventoryPath, err := r.writeInventory(setup)
	if err != nil {
		return nil, err
	}
	defer os.Remove(inventoryPath)

	controlDir, err := os.MkdirTemp("", r.prefix()+"-ssh-")
	if err != nil {
		return nil, fmt.Errorf("failed to create a temporary directory for SSH control master sockets: %w", err)
	}
	defer func() {
		sweepControlDir(controlDir)
		os.RemoveAll(controlDir)
	}()

	engine := source.Engine.Path
	if engine == "" {
		engine = DefaultEngine
	}

	env := make(map[string]string, len(source.Engine.Env)+4)
	for name, value := range source.Engine.Env {
		env[name] = value
	}
	env["ANSIBLE_CALLBACKS_ENABLED"] = "ansible.posix.json"
	env["ANSIBLE_STDOUT_CALLBACK"] = "ansible.posix.json"
	env["ANSIBLE_HOST_KEY_CHECKING"] = "False"
	env["ANSIBLE_SSH_CONTROL_PATH_DIR"] = controlDir

	log.Info().
		Str("engine", engine).
		Str("playbook", playbookPath).
		Str("source", source.Name).
		Uint16("port", setup.ReversePort).
		Msg("invoking ansible-playbook")

	output, err := proc.Run(engine, []string{
		"--private-key", keyPath,
		"-i", inventoryPath,
		"-l", inventoryHostname,
		playbookPath,
	}, source.Path, env, proc.Options{Mode: proc.Captured, EngineOutput: true})
	if err != nil {
		return nil, err
	}

	return DecodeReport([]byte(output))
}

// writeKeyFile puts the private key on disk for the engine, restricted to
// owner read/write. The caller removes it as soon as the invocation ends.
func (r *Runner) writeKeyFile(keypair *bootstrap.Keypair) (string, error) {
	pemBytes, err := keypair.PrivatePEM()
	if err != nil {
		return "", err
	}

	// The key must never be group or world readable.
	file, err := os.CreateTemp("", r.prefix()+"-key-")
	if err != nil {
		return "", fmt.Errorf("failed to ready the private key: %w", err)
	}
	defer file.Close()

	if err := file.Chmod(0o600); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to secure the private key file: %w", err)
	}
	if _, err := file.Write(pemBytes); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write the private key to disk: %w", err)
	}
	return file.Name(), nil
}

// writeInventory renders the single-host inventory bound to the reverse
// tunnel.
func (r *Runner) writeInventory(setup *bootstrap.Setup) (string, error) {
	file, err := os.CreateTemp("", r.prefix()+"-inventory-")
	if err != nil {
		return "", fmt.Errorf("failed to ready the inventory file: %w", err)
	}
	defer file.Close()

	line := fmt.Sprintf("%s ansible_host=127.0.0.1 ansible_port=%d ansible_user=%s",
		inventoryHostname, setup.ReversePort, setup.Credentials.Username)
	if _, err := file.WriteString(line); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("failed to write the inventory: %w", err)
	}
	return file.Name(), nil
}

func (r *Runner) prefix() string {
	if r.Prefix == "" {
		return "setmeup"
	}
	return "setmeup-" + r.Prefix
}

// sweepControlDir asks ssh to close every control-master connection whose
// socket is still in dir. Failures are ignored: the engine normally tears
// these down itself, and a stale socket only wastes a multiplexed
// connection until the tunnel drops.
func sweepControlDir(dir string) {
	filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || path == dir {
			return nil
		}
		_, exitErr := proc.Run("ssh",
			[]string{"-o", "ControlPath=" + path, "-O", "exit", "bogus"},
			dir, nil, proc.Options{Mode: proc.Captured})
		if exitErr != nil {
			log.Debug().Str("socket", path).Err(exitErr).Msg("control socket sweep failed")
		}
		return nil
	})
}
