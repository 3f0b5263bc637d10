package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, dbPath string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"-db", dbPath}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_EndToEnd(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	dbPath := filepath.Join(t.TempDir(), "users.db")

	code, out, _ := runCLI(t, dbPath, "init")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "users table ready")

	code, out, _ = runCLI(t, dbPath, "add", "auth_user", "auth@example.com", "secure_password")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "registered auth_user")

	code, _, errOut := runCLI(t, dbPath, "add", "auth_user", "again@example.com", "x")
	assert.Equal(t, exitRejected, code)
	assert.Contains(t, errOut, "already registered")

	code, out, _ = runCLI(t, dbPath, "auth", "auth_user", "secure_password")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "authenticated")

	code, _, _ = runCLI(t, dbPath, "auth", "auth_user", "wrong_password")
	assert.Equal(t, exitRejected, code)

	code, _, _ = runCLI(t, dbPath, "auth", "ghost_user", "any_password")
	assert.Equal(t, exitRejected, code)

	code, out, _ = runCLI(t, dbPath, "list")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "auth@example.com")
	assert.False(t, strings.Contains(out, "$2a$"), "listing must not expose hashes")
}

func TestRun_UsageErrors(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	dbPath := filepath.Join(t.TempDir(), "users.db")

	code, _, errOut := runCLI(t, dbPath)
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "usage:")

	code, _, _ = runCLI(t, dbPath, "add", "only-one-arg")
	assert.Equal(t, exitError, code)

	code, _, _ = runCLI(t, dbPath, "frobnicate")
	assert.Equal(t, exitError, code)
}

func TestRun_UnreachableDB(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	dbPath := filepath.Join(t.TempDir(), "missing", "users.db")
	code, _, _ := runCLI(t, dbPath, "list")
	assert.Equal(t, exitError, code)
}

func TestRun_DropThenInit(t *testing.T) {
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_LEVEL", "error")
	dbPath := filepath.Join(t.TempDir(), "users.db")

	code, _, _ := runCLI(t, dbPath, "add", "temp", "temp@example.com", "pw")
	require.Equal(t, exitOK, code)

	code, out, _ := runCLI(t, dbPath, "drop")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "latest migration reverted")

	// Open re-applies the schema, so the dropped rows are gone for good.
	code, out, _ = runCLI(t, dbPath, "list")
	require.Equal(t, exitOK, code)
	assert.NotContains(t, out, "temp@example.com")

	code, _, _ = runCLI(t, dbPath, "drop", "extra")
	assert.Equal(t, exitError, code)
}
