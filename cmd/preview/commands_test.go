package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileCommand(t *testing.T) {
	path := writeFile(t, "ab.csv", "a,b\n1,x\n2,y\n3,x\n")

	out, _, err := run(t, "file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ab.csv · 3 rows × 2 columns")
	assert.Contains(t, out, "Data Preview")
	assert.Contains(t, out, "Summary Statistics")
	assert.Contains(t, out, "mean")
}

func TestFileCommand_JSON(t *testing.T) {
	path := writeFile(t, "ab.csv", "a,b\n1,x\n2,y\n3,x\n")

	out, _, err := run(t, "--json", "--rows", "2", "file", path)
	require.NoError(t, err)

	var p struct {
		Loaded bool `json:"loaded"`
		Rows   int  `json:"rows"`
		Head   struct {
			Rows [][]string `json:"rows"`
		} `json:"head"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.True(t, p.Loaded)
	assert.Equal(t, 3, p.Rows)
	assert.Len(t, p.Head.Rows, 2)
}

func TestFileCommand_Errors(t *testing.T) {
	_, stderr, err := run(t, "file", writeFile(t, "notes.txt", "hi"))
	require.Error(t, err)
	assert.Contains(t, stderr, "Error loading uploaded file: ")
	assert.Contains(t, stderr, "FMT001")

	_, stderr, err = run(t, "file", writeFile(t, "bad.csv", "a,b\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, stderr, "FILE002")

	_, _, err = run(t, "file", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestExampleCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tips.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("total_bill,tip,sex\n16.99,1.01,Female\n10.34,1.66,Male\n"))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("EXAMPLES_BASE_URL", srv.URL)

	out, _, err := run(t, "example", "Tips")
	require.NoError(t, err)
	assert.Contains(t, out, "Tips · 2 rows × 3 columns")

	_, stderr, err := run(t, "example", "titanic")
	require.Error(t, err)
	assert.Contains(t, stderr, "Error loading example dataset: ")
	assert.Contains(t, stderr, "EX002")

	_, stderr, err = run(t, "example", "penguins")
	require.Error(t, err)
	assert.Contains(t, stderr, "EX001")
}

func TestExamplesCommand(t *testing.T) {
	out, _, err := run(t, "examples")
	require.NoError(t, err)
	for _, name := range []string{"iris", "tips", "titanic"} {
		assert.Contains(t, out, name)
	}
}
