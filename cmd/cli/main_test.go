package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// A catalog with a syntax error makes app.NewApp panic.
	tempDir := t.TempDir()
	catalogPath := filepath.Join(tempDir, "catalog.hcl")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`table "promed" {`), 0o600))
	planPath := filepath.Join(tempDir, "plan.json")
	require.NoError(t, os.WriteFile(planPath, []byte(`{"operators": []}`), 0o600))

	out := &bytes.Buffer{}
	runErr := run(context.Background(), out, []string{"-catalog", catalogPath, planPath})

	require.Error(t, runErr)
	require.Contains(t, runErr.Error(), "application startup panicked")
	require.Contains(t, runErr.Error(), "failed to parse catalog")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-h"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_CompilesPlan(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	catalogPath := filepath.Join(tempDir, "catalog.hcl")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`
table "docs" {
  attribute "body" {
    type = string
  }
}
`), 0o600))
	planPath := filepath.Join(tempDir, "plan.json")
	require.NoError(t, os.WriteFile(planPath, []byte(`{
  "operators": [
    {"operatorID": "scan", "operatorType": "ScanSource", "tableName": "docs"},
    {"operatorID": "re", "operatorType": "RegexMatcher", "regex": "v[a-z]+s", "attributes": "body"},
    {"operatorID": "sink", "operatorType": "TupleSink"}
  ],
  "links": [
    {"origin": "scan", "destination": "re"},
    {"origin": "re", "destination": "sink"}
  ]
}`), 0o600))

	out := &bytes.Buffer{}
	err := run(context.Background(), out, []string{"-catalog", catalogPath, "-log-level", "error", planPath})

	require.NoError(t, err)
	require.Contains(t, out.String(), `"ok": true`)
}
