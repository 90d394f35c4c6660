// The cmd/ package holds CLI integration tests that exercise the full stack:
// command parsing -> extension -> archive service -> store -> SQLite FTS5.
// Each test builds the examdex binary once and runs it in a temporary
// project directory with its own HOME, so global config and the audit log
// never touch the developer's machine.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	binaryPath string
	buildOnce  sync.Once
	buildErr   error
)

// buildBinary compiles the examdex binary once for all tests.
func buildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "examdex-test-bin-*")
		if err != nil {
			buildErr = err
			return
		}

		binaryName := "examdex"
		if os.PathSeparator == '\\' {
			binaryName = "examdex.exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		// Project root is the parent of cmd/
		projectRoot := filepath.Dir(mustGetwd())

		cmd := exec.Command("go", "build", "-o", binaryPath, ".")
		cmd.Dir = projectRoot
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = &buildError{err: err, output: string(out)}
			return
		}
	})

	if buildErr != nil {
		t.Fatalf("failed to build binary: %v", buildErr)
	}
	return binaryPath
}

type buildError struct {
	err    error
	output string
}

func (e *buildError) Error() string {
	return e.err.Error() + "\n" + e.output
}

func mustGetwd() string {
	dir, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return dir
}

// testEnv holds test environment state.
type testEnv struct {
	t      *testing.T
	dir    string
	home   string
	binary string
}

// newBareEnv creates a project directory without an archive.
func newBareEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{t: t, dir: t.TempDir(), home: t.TempDir(), binary: buildBinary(t)}
}

// newTestEnv creates a project directory with an initialised archive.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newBareEnv(t)
	env.run("init")
	return env
}

// newArchiveEnv creates an initialised archive loaded with testArchive.
func newArchiveEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.run("import", env.writeFile("archive.yaml", testArchive(time.Now())))
	return env
}

func (e *testEnv) command(args ...string) *exec.Cmd {
	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "HOME="+e.home, "USERPROFILE="+e.home, "EXAMDEX_DB=", "EXAMDEX_DIR=")
	return cmd
}

// run executes examdex with the given args and returns combined output.
func (e *testEnv) run(args ...string) string {
	e.t.Helper()
	out, err := e.runErr(args...)
	if err != nil {
		e.t.Fatalf("examdex %v failed: %v\noutput: %s", args, err, out)
	}
	return out
}

// runErr executes examdex and returns combined output and any error.
func (e *testEnv) runErr(args ...string) (string, error) {
	e.t.Helper()
	out, err := e.command(args...).CombinedOutput()
	return string(out), err
}

// runJSON executes examdex with -o json and decodes stdout into v.
func (e *testEnv) runJSON(v any, args ...string) {
	e.t.Helper()
	out, err := e.command(append(args, "-o", "json")...).Output()
	require.NoError(e.t, err, "examdex %v", args)
	require.NoError(e.t, json.Unmarshal(out, v), "decode %s", out)
}

// writeFile writes content into the project directory and returns its path.
func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	p := filepath.Join(e.dir, name)
	require.NoError(e.t, os.WriteFile(p, []byte(content), 0644))
	return p
}

// contains checks if output contains expected string.
func (e *testEnv) contains(output, expected string) {
	e.t.Helper()
	assert.Contains(e.t, output, expected)
}

// equals checks if output equals expected string (trimmed).
func (e *testEnv) equals(output, expected string) {
	e.t.Helper()
	assert.Equal(e.t, strings.TrimSpace(expected), strings.TrimSpace(output))
}

// testArchive is a small archive with one document per visibility rule:
//
//	linalg-2025.pdf   public, free      visible to everyone
//	linalg-paid.pdf   public, paid      needs a valid payment
//	analysis-draft    unpublished       category admins and global admins
//
// alice has a payment made an hour before now, bob administers analysis and
// root is a global admin. Every document mentions "eigenvalue".
func testArchive(now time.Time) string {
	paid := now.UTC().Add(-time.Hour).Format(time.RFC3339)
	return fmt.Sprintf(`categories:
  - slug: linalg
    name: Linear Algebra
  - slug: analysis
    name: Analysis
users:
  - username: alice
    first_name: Alice
    last_name: Smith
    payments:
      - time: %s
  - username: bob
    last_name: Jones
    admin_categories: [analysis]
  - username: root
    admin: true
documents:
  - filename: linalg-2025.pdf
    name: Linear Algebra 2025
    category: linalg
    public: true
    pages:
      - "Compute the eigenvalue of the matrix A."
      - "Show that A is diagonalisable."
    answers:
      - id: a1
        author: alice
        text: "The eigenvalue is three"
        comments:
          - id: c1
            author: bob
            text: "Check the eigenvalue against the trace"
  - filename: linalg-paid.pdf
    name: Linear Algebra Solutions
    category: linalg
    public: true
    needs_payment: true
    pages:
      - "Eigenvalue solutions worked in full"
  - filename: analysis-draft.pdf
    name: Analysis Draft
    category: analysis
    public: false
    pages:
      - "Eigenvalue estimates for the Laplacian"
`, paid)
}
