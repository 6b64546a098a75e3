package ansible

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/setmeup/setmeup/pkg/bootstrap"
	"github.com/setmeup/setmeup/pkg/catalog"
	"github.com/setmeup/setmeup/pkg/proc"
)

func testSetup(t *testing.T) *bootstrap.Setup {
	t.Helper()
	keypair, err := bootstrap.Generate()
	if err != nil {
		t.Fatalf("failed to generate a keypair: %v", err)
	}
	return &bootstrap.Setup{
		ReversePort: 2222,
		Credentials: bootstrap.Credentials{Username: "alice", Keypair: keypair},
	}
}

// writeEngine installs a fake ansible-playbook script in its own directory.
func writeEngine(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ansible-playbook")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("failed to write the fake engine: %v", err)
	}
	return path
}

func testSource(t *testing.T, engine string, env map[string]string) *catalog.Source {
	t.Helper()
	return &catalog.Source{
		Name:          "test",
		Path:          t.TempDir(),
		PlaybookMatch: regexp.MustCompile(catalog.DefaultPlaybookMatch),
		Engine:        catalog.EngineContext{Path: engine, Env: env},
	}
}

// isolateTempDir points the runner's temp artifacts at a fresh directory so
// leftovers are detectable.
func isolateTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)
	return dir
}

func expectNoLeftovers(t *testing.T, tmpDir string) {
	t.Helper()
	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		t.Fatalf("failed to list the temp dir: %v", err)
	}
	for _, entry := range entries {
		t.Errorf("transient artifact outlived the run: %s", entry.Name())
	}
}

const recordingEngine = `
cp "$4" "$RECORD/inventory"
cp "$2" "$RECORD/key"
pwd > "$RECORD/cwd"
printf '%s ' "$@" > "$RECORD/args"
printf '%s\n%s\n%s\n%s\n' \
	"$ANSIBLE_STDOUT_CALLBACK" "$ANSIBLE_CALLBACKS_ENABLED" \
	"$ANSIBLE_HOST_KEY_CHECKING" "$FOO" > "$RECORD/env"
touch "$ANSIBLE_SSH_CONTROL_PATH_DIR/leftover.sock"
cat <<'EOF'
{"plays": [{"tasks": [{"task": {"name": "demo"}, "hosts": {"provisionee": {"changed": true, "msg": "done"}}}]}]}
EOF
`

func TestExecute(t *testing.T) {
	tmpDir := isolateTempDir(t)
	record := t.TempDir()

	engine := writeEngine(t, recordingEngine)
	source := testSource(t, engine, map[string]string{
		"RECORD": record,
		"FOO":    "bar",
	})
	setup := testSetup(t)

	runner := &Runner{Prefix: "test"}
	results, err := runner.Execute(setup, "site.yml", source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected one task result, got %d", len(results))
	}
	want := TaskResult{Name: "demo", Success: true, Changed: true, Message: "done"}
	if results[0] != want {
		t.Errorf("expected %+v, got %+v", want, results[0])
	}

	inventory, err := os.ReadFile(filepath.Join(record, "inventory"))
	if err != nil {
		t.Fatalf("the engine saw no inventory: %v", err)
	}
	wantInventory := "provisionee ansible_host=127.0.0.1 ansible_port=2222 ansible_user=alice"
	if string(inventory) != wantInventory {
		t.Errorf("expected inventory %q, got %q", wantInventory, inventory)
	}

	key, err := os.ReadFile(filepath.Join(record, "key"))
	if err != nil {
		t.Fatalf("the engine saw no private key: %v", err)
	}
	block, _ := pem.Decode(key)
	if block == nil || block.Type != "EC PRIVATE KEY" {
		t.Fatalf("the key file is not a PEM EC private key")
	}
	if _, err := x509.ParseECPrivateKey(block.Bytes); err != nil {
		t.Errorf("the key file does not parse: %v", err)
	}

	args, _ := os.ReadFile(filepath.Join(record, "args"))
	for _, fragment := range []string{"--private-key", "-i", "-l provisionee", "site.yml"} {
		if !strings.Contains(string(args), fragment) {
			t.Errorf("expected %q in engine args %q", fragment, args)
		}
	}

	cwd, _ := os.ReadFile(filepath.Join(record, "cwd"))
	gotCwd, err := filepath.EvalSymlinks(strings.TrimSpace(string(cwd)))
	if err != nil {
		t.Fatalf("failed to resolve the engine cwd: %v", err)
	}
	wantCwd, err := filepath.EvalSymlinks(source.Path)
	if err != nil {
		t.Fatalf("failed to resolve the source dir: %v", err)
	}
	if gotCwd != wantCwd {
		t.Errorf("expected the engine to run in %q, ran in %q", wantCwd, gotCwd)
	}

	env, _ := os.ReadFile(filepath.Join(record, "env"))
	wantEnv := "ansible.posix.json\nansible.posix.json\nFalse\nbar\n"
	if string(env) != wantEnv {
		t.Errorf("expected engine environment %q, got %q", wantEnv, env)
	}

	expectNoLeftovers(t, tmpDir)
}

func TestExecuteEngineReportsTaskFailure(t *testing.T) {
	tmpDir := isolateTempDir(t)

	// Non-zero exit with a JSON report: task failures are data, not errors.
	engine := writeEngine(t, `
cat <<'EOF'
{"plays": [{"tasks": [{"task": {"name": "broken"}, "hosts": {"provisionee": {"failed": true, "msg": "boom"}}}]}]}
EOF
exit 2
`)
	source := testSource(t, engine, nil)

	runner := &Runner{}
	results, err := runner.Execute(testSetup(t), "site.yml", source)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Success {
		t.Errorf("expected one failed task, got %+v", results)
	}
	if results[0].Message != "boom" {
		t.Errorf("expected the task message, got %q", results[0].Message)
	}

	expectNoLeftovers(t, tmpDir)
}

func TestExecuteEngineCrash(t *testing.T) {
	tmpDir := isolateTempDir(t)

	engine := writeEngine(t, "echo 'ERROR! the playbook could not be found' >&2\nexit 1\n")
	source := testSource(t, engine, nil)

	runner := &Runner{}
	_, err := runner.Execute(testSetup(t), "site.yml", source)
	var exitErr *proc.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *proc.ExitError, got %v", err)
	}
	if !strings.Contains(exitErr.Output, "could not be found") {
		t.Errorf("expected the engine stderr in the error, got %q", exitErr.Output)
	}

	expectNoLeftovers(t, tmpDir)
}

func TestExecuteGarbageReport(t *testing.T) {
	tmpDir := isolateTempDir(t)

	engine := writeEngine(t, "echo PLAY RECAP\n")
	source := testSource(t, engine, nil)

	runner := &Runner{}
	_, err := runner.Execute(testSetup(t), "site.yml", source)
	var reportErr *ReportError
	if !errors.As(err, &reportErr) {
		t.Fatalf("expected *ReportError, got %v", err)
	}

	expectNoLeftovers(t, tmpDir)
}
