package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	st := Load(filepath.Join(t.TempDir(), "state.json"))
	require.NotNil(t, st.Components)
	assert.Empty(t, st.Components)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	st := Load(path)
	st.Record("node", "/bundles/node-windows-x64.zip", "/runtime/node")
	require.NoError(t, Save(path, st))

	loaded := Load(path)
	require.Contains(t, loaded.Components, "node")
	assert.Equal(t, "/runtime/node", loaded.Components["node"].InstallPath)
	assert.Equal(t, "/bundles/node-windows-x64.zip", loaded.Components["node"].Archive)
	assert.False(t, loaded.Components["node"].PreparedAt.IsZero())
}

func TestLoadNullComponents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"components": null}`), 0644))

	st := Load(path)
	assert.NotNil(t, st.Components)
}
