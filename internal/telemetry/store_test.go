package telemetry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndPending(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "telemetry")
	store := NewStore(dir)

	entries, err := store.Pending()
	require.NoError(t, err)
	assert.Empty(t, entries)

	p := Generate(Input{Command: "deploy"})
	require.NoError(t, store.Save(p))

	path := filepath.Join(dir, p.ID+".json")
	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	entries, err = store.Pending()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].Path)

	var decoded Payload
	require.NoError(t, json.Unmarshal(entries[0].Data, &decoded))
	assert.Equal(t, p.ID, decoded.ID)
	assert.Equal(t, "deploy", decoded.Command)
}

func TestStore_PendingSkipsForeignAndCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0700))
	require.NoError(t, store.Save(Generate(Input{})))

	entries, err := store.Pending()
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	_, err = os.Stat(filepath.Join(dir, "broken.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "notes.txt"))
	assert.NoError(t, err)
}

func TestStore_Remove(t *testing.T) {
	store := NewStore(t.TempDir())
	require.NoError(t, store.Save(Generate(Input{})))
	require.NoError(t, store.Save(Generate(Input{})))

	entries, err := store.Pending()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	store.Remove(entries)
	store.Remove(entries)

	entries, err = store.Pending()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_SaveFailure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))

	store := NewStore(filepath.Join(blocker, "telemetry"))
	assert.Error(t, store.Save(Generate(Input{})))
}
