package uci

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engines.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadRegistry verifies decoding of a Nibbler engines.json file.
func TestLoadRegistry(t *testing.T) {
	path := writeRegistry(t, `{
		"/opt/lc0/lc0": {
			"args": ["--backend=cuda"],
			"options": {"WeightsFile": "/opt/nets/t80.pb", "Threads": 2, "Ponder": false}
		}
	}`)

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	conf, ok := reg["/opt/lc0/lc0"]
	require.True(t, ok)
	assert.Equal(t, []string{"--backend=cuda"}, conf.Args)
	assert.Equal(t, "/opt/nets/t80.pb", conf.Options["WeightsFile"])
}

// TestLoadRegistry_Missing verifies a missing file is an error.
func TestLoadRegistry_Missing(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

// TestResolve_FullPath verifies exact path lookup.
func TestResolve_FullPath(t *testing.T) {
	reg := Registry{"/opt/lc0/lc0": {Args: []string{"-x"}}}

	path, conf, err := reg.Resolve("/opt/lc0/lc0")
	require.NoError(t, err)
	assert.Equal(t, "/opt/lc0/lc0", path)
	assert.Equal(t, []string{"-x"}, conf.Args)
}

// TestResolve_Basename verifies unambiguous short-name lookup.
func TestResolve_Basename(t *testing.T) {
	reg := Registry{
		"/opt/lc0/lc0":        {},
		"/opt/stockfish/sf16": {},
	}

	path, _, err := reg.Resolve("lc0")
	require.NoError(t, err)
	assert.Equal(t, "/opt/lc0/lc0", path)
}

// TestResolve_Ambiguous verifies two entries sharing a basename fail.
func TestResolve_Ambiguous(t *testing.T) {
	reg := Registry{
		"/opt/a/lc0": {},
		"/opt/b/lc0": {},
	}

	_, _, err := reg.Resolve("lc0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

// TestResolve_NotFound verifies an unknown engine fails.
func TestResolve_NotFound(t *testing.T) {
	reg := Registry{"/opt/a/lc0": {}}

	_, _, err := reg.Resolve("komodo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
