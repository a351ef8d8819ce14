// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// TestVersion is stamped into the binary built by BuildBinary.
const TestVersion = "0.0.0-test"

// cliTimeout bounds a single CLI invocation.
const cliTimeout = 2 * time.Minute

var (
	buildOnce sync.Once
	builtPath string
	buildErr  error
)

// BuildBinary compiles cmd/relay once per test binary and returns its path.
func BuildBinary(t *testing.T) string {
	t.Helper()

	buildOnce.Do(func() {
		root, err := moduleRoot()
		if err != nil {
			buildErr = err
			return
		}
		dir, err := os.MkdirTemp("", "rni-relay-bin")
		if err != nil {
			buildErr = err
			return
		}
		builtPath = filepath.Join(dir, "rni-relay")

		ldflags := "-X github.com/sirseerhq/rni-relay/pkg/version.Version=" + TestVersion
		cmd := exec.Command("go", "build", "-ldflags", ldflags, "-o", builtPath, "./cmd/relay")
		cmd.Dir = root
		if out, err := cmd.CombinedOutput(); err != nil {
			buildErr = fmt.Errorf("go build: %w\n%s", err, out)
		}
	})

	if buildErr != nil {
		t.Fatalf("building rni-relay: %v", buildErr)
	}
	return builtPath
}

// CLIResult is the outcome of one rni-relay invocation.
type CLIResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// RunCLI runs rni-relay with args in dir, adding env on top of the current
// environment. An empty dir runs in the current directory.
func RunCLI(t *testing.T, dir string, args []string, env map[string]string) CLIResult {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), cliTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, BuildBinary(t), args...)
	cmd.Dir = dir
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := CLIResult{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}
	return result
}

// AssertCLISuccess fails the test unless the run exited 0.
func AssertCLISuccess(t *testing.T, result CLIResult) {
	t.Helper()
	if result.Err != nil {
		t.Fatalf("rni-relay failed: %v\nstderr:\n%s", result.Err, result.Stderr)
	}
}

// AssertCLIError fails the test unless the run failed with want on stderr.
func AssertCLIError(t *testing.T, result CLIResult, want string) {
	t.Helper()
	if result.Err == nil {
		t.Fatalf("rni-relay succeeded, want failure\nstdout:\n%s", result.Stdout)
	}
	if want != "" && !strings.Contains(result.Stderr, want) {
		t.Errorf("stderr does not contain %q:\n%s", want, result.Stderr)
	}
}

// AssertExitCode fails the test unless the run exited with want.
func AssertExitCode(t *testing.T, result CLIResult, want int) {
	t.Helper()
	if result.ExitCode != want {
		t.Errorf("exit code = %d, want %d\nstderr:\n%s", result.ExitCode, want, result.Stderr)
	}
}

// RunWithMockServer runs "fetch" against server with no delay between pages,
// writing exports into outDir.
func RunWithMockServer(t *testing.T, server *HistoriasServer, outDir string, args ...string) CLIResult {
	t.Helper()

	fullArgs := append([]string{
		"fetch",
		"--endpoint", server.GraphQLURL(),
		"--delay", "0s",
		"--output-dir", outDir,
	}, args...)

	// Keep configuration discovery away from the developer's own files.
	env := map[string]string{
		"XDG_CONFIG_HOME": filepath.Join(outDir, ".config"),
	}
	return RunCLI(t, outDir, fullArgs, env)
}

// moduleRoot walks up from the working directory to the directory holding
// go.mod.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above the working directory")
		}
		dir = parent
	}
}
