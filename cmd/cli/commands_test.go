package main

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"dataset-registry-service/internal/adapter/gin/handler"
	"dataset-registry-service/internal/adapter/gin/router"
	"dataset-registry-service/internal/adapter/repository/memory"
	"dataset-registry-service/internal/usecase/registry"
)

func newTestServer(t *testing.T) string {
	t.Helper()
	log := zaptest.NewLogger(t)
	uc := registry.New(memory.NewStore(log), log)
	srv := httptest.NewServer(router.SetupRouter(handler.NewRegistryHandler(uc, 1<<20, log), nil, "dataset-registry-service", log))
	t.Cleanup(srv.Close)
	return srv.URL
}

func runCLI(t *testing.T, server string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--server", server}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCLI_Flow(t *testing.T) {
	server := newTestServer(t)

	out, _, err := runCLI(t, server, "register", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "User registered successfully: alice")

	out, _, err = runCLI(t, server, "users")
	require.NoError(t, err)
	assert.Contains(t, out, "alice")

	out, _, err = runCLI(t, server, "datasets", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "No datasets uploaded yet.")

	path := writeCSV(t, "people.csv", "name,age\nBob,30\n")
	out, _, err = runCLI(t, server, "upload", "alice", "people", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 rows stored as alice/people")

	out, _, err = runCLI(t, server, "get", "alice", "people")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Bob"`)
	assert.Contains(t, out, `"age": "30"`)
}

func TestCLI_GetPromptsForDataset(t *testing.T) {
	server := newTestServer(t)
	_, _, err := runCLI(t, server, "register", "bob")
	require.NoError(t, err)
	_, _, err = runCLI(t, server, "upload", "bob", "scores", writeCSV(t, "s.csv", "k,v\na,1\n"))
	require.NoError(t, err)

	orig := pickDataset
	t.Cleanup(func() { pickDataset = orig })
	var offered []string
	pickDataset = func(_ string, datasets []string) (string, error) {
		offered = datasets
		return datasets[0], nil
	}

	out, _, err := runCLI(t, server, "get", "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"scores"}, offered)
	assert.Contains(t, out, `"k": "a"`)
}

func TestCLI_GetTimeoutExcludesPrompt(t *testing.T) {
	server := newTestServer(t)
	_, _, err := runCLI(t, server, "register", "carol")
	require.NoError(t, err)
	_, _, err = runCLI(t, server, "upload", "carol", "slow", writeCSV(t, "s.csv", "k,v\nb,2\n"))
	require.NoError(t, err)

	orig := pickDataset
	t.Cleanup(func() { pickDataset = orig })
	pickDataset = func(_ string, datasets []string) (string, error) {
		time.Sleep(300 * time.Millisecond)
		return datasets[0], nil
	}

	out, _, err := runCLI(t, server, "--timeout", "200ms", "get", "carol")
	require.NoError(t, err)
	assert.Contains(t, out, `"k": "b"`)
}

func TestCLI_Errors(t *testing.T) {
	server := newTestServer(t)

	_, stderr, err := runCLI(t, server, "datasets", "ghost")
	require.Error(t, err)
	assert.Contains(t, stderr, "User not found")

	_, stderr, err = runCLI(t, server, "upload", "ghost", "d", "notes.txt")
	require.Error(t, err)
	assert.Contains(t, stderr, ".csv extension")

	_, _, err = runCLI(t, server, "register")
	assert.Error(t, err)

	_, _, err = runCLI(t, "not a url", "users")
	assert.Error(t, err)
}

func TestCLI_MenuRequiresReachableServer(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	_, stderr, err := runCLI(t, url, "menu")
	require.Error(t, err)
	assert.Contains(t, stderr, "cannot reach registry")
}

func TestValidators(t *testing.T) {
	assert.Error(t, validateNotEmpty("  "))
	assert.NoError(t, validateNotEmpty("x"))
	assert.NoError(t, validateCSVPath("/tmp/data.csv"))
	assert.Error(t, validateCSVPath("/tmp/data.CSV"))
	assert.Error(t, validateCSVPath(""))
}
