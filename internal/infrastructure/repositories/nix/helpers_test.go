//go:build unit

package nix_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeTool writes an executable shell script that records its arguments in
// <dir>/args and runs body.
func fakeTool(t *testing.T, body string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	script := "#!/bin/sh\necho \"$@\" > '" + argsFile + "'\n" + body + "\n"
	path := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path, argsFile
}

func readArgs(t *testing.T, argsFile string) string {
	t.Helper()

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	return string(data)
}
