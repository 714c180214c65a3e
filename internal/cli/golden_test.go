package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// execCLI runs the root command with args against a fresh database
// file under t.TempDir() and returns its stdout.
func execCLI(t *testing.T, dbPath string, args ...string) []byte {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--db", dbPath}, args...))
	require.NoError(t, cmd.Execute())
	return out.Bytes()
}

func TestGolden_LsAndGetJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "golden.db")

	execCLI(t, dbPath, "set", "name", `"atlas"`)
	execCLI(t, dbPath, "set", "tags", `["a","b","c"]`)
	execCLI(t, dbPath, "set", "meta", `{"owner":"ops","retries":3}`)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	lsOut := execCLI(t, dbPath, "ls", "--format", "json")
	g.Assert(t, "ls_root", lsOut)

	getOut := execCLI(t, dbPath, "get", "meta", "--format", "json")
	g.Assert(t, "get_meta", getOut)

	tagsOut := execCLI(t, dbPath, "get", "tags", "--format", "json")
	g.Assert(t, "get_tags", tagsOut)
}
