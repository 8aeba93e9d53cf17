package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"logreader-backend/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = "[2024-01-01 10:00:00] local.ERROR: |Billing| Payment failed\n" +
	"[2024-01-01 10:01:00] local.WARNING: Disk almost full\n" +
	"[2024-01-01 10:02:00] production.INFO: Job finished\n"

func setupEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	logDir := filepath.Join(root, "logs")
	require.NoError(t, os.Mkdir(logDir, 0755))
	path := filepath.Join(logDir, "laravel.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0644))

	t.Setenv("LOG_READER_PATH", logDir)
	t.Setenv("LOG_READER_FILENAME", "*.log")
	t.Setenv("READ_STATE_PATH", filepath.Join(root, "state.json"))
	t.Setenv("LOG_LEVEL", "error")
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func listIDs(t *testing.T, args ...string) []string {
	t.Helper()
	out, err := run(t, append([]string{"get", "--json"}, args...)...)
	require.NoError(t, err)
	var resp dto.LogListResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	ids := make([]string, 0, len(resp.Logs))
	for _, e := range resp.Logs {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestGetCommand(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "get")
	require.NoError(t, err)
	assert.Contains(t, out, "Payment failed")
	assert.Contains(t, out, "Disk almost full")
	assert.Contains(t, out, "Page 1 of 1, 3 entries")

	out, err = run(t, "get", "--level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 1 of 1, 1 entry")

	out, err = run(t, "get", "-e", "production")
	require.NoError(t, err)
	assert.Contains(t, out, "Job finished")
	assert.NotContains(t, out, "Payment failed")

	assert.Len(t, listIDs(t, "--per-page", "2", "--page", "2"), 1)
}

func TestGetCommandMissingDirectory(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "get", "--log-path", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDetailCommand(t *testing.T) {
	setupEnv(t)
	ids := listIDs(t, "--level", "ERROR")
	require.Len(t, ids, 1)

	out, err := run(t, "detail", ids[0])
	require.NoError(t, err)
	assert.Contains(t, out, ids[0])
	assert.Contains(t, out, "Billing")
	assert.Contains(t, out, "Payment failed")

	_, err = run(t, "detail", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no log entry with ID missing")
}

func TestMarkReadCommand(t *testing.T) {
	setupEnv(t)
	ids := listIDs(t, "--level", "ERROR")
	require.Len(t, ids, 1)

	out, err := run(t, "mark-read", ids[0])
	require.NoError(t, err)
	assert.Contains(t, out, "You marked one entry as read")

	out, err = run(t, "mark-read", ids[0])
	require.NoError(t, err)
	assert.Contains(t, out, "Entry was already marked as read")

	out, err = run(t, "mark-read")
	require.NoError(t, err)
	assert.Contains(t, out, "You marked 2 entries as read")

	assert.Empty(t, listIDs(t))
	assert.Len(t, listIDs(t, "--with-read"), 3)
}

func TestDeleteCommand(t *testing.T) {
	path := setupEnv(t)
	ids := listIDs(t, "--level", "WARNING")
	require.Len(t, ids, 1)

	out, err := run(t, "delete", ids[0])
	require.NoError(t, err)
	assert.Contains(t, out, "You deleted one entry successfully")

	out, err = run(t, "delete", "--env", "local")
	require.NoError(t, err)
	assert.Contains(t, out, "You deleted 1 entry successfully")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2024-01-01 10:02:00] production.INFO: Job finished\n", string(data))
}

func TestFileCommands(t *testing.T) {
	path := setupEnv(t)

	out, err := run(t, "file-list")
	require.NoError(t, err)
	assert.Contains(t, out, "laravel.log")
	assert.Contains(t, out, path)

	out, err = run(t, "classes")
	require.NoError(t, err)
	assert.Equal(t, "Billing\n", out)

	out, err = run(t, "collapse")
	require.NoError(t, err)
	assert.Contains(t, out, "Collapsed 0 files")

	out, err = run(t, "remove-file")
	require.NoError(t, err)
	assert.Contains(t, out, "You removed 1 file successfully")

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
