package fileutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/pokerarena/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onlyFile(t *testing.T, dir, name string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, name, entries[0].Name())
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	require.NoError(t, WriteFileAtomic(path, []byte("hello world"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	onlyFile(t, dir, "log.txt")
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	require.NoError(t, WriteFileAtomic(path, []byte("initial"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("updated content"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated content", string(data))
	onlyFile(t, dir, "log.txt")
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	t.Parallel()

	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "log.txt"), []byte("data"), 0o644)
	assert.Error(t, err)
}

func TestWriteFileAtomicRenameFailure(t *testing.T) {
	t.Parallel()

	// Renaming a file over a directory fails after the temp file is written
	dir := t.TempDir()
	target := filepath.Join(dir, "export")
	require.NoError(t, os.Mkdir(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "keep"), nil, 0o644))

	assert.Error(t, WriteFileAtomic(target, []byte("data"), 0o644))
	onlyFile(t, dir, "export")
}

func TestWriteJSONActivityLog(t *testing.T) {
	t.Parallel()

	amount := 20
	log := game.NewActivityLog(
		game.LogEntry{PlayerName: "Ada", Action: game.Blind, Description: "Posts big blind of $20", Amount: &amount},
		game.LogEntry{PlayerName: "Bo", Action: game.Fold, Description: "Folds"},
	)

	path := filepath.Join(t.TempDir(), "hand.json")
	require.NoError(t, WriteJSON(path, map[string]any{"log": log}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Log []game.LogEntry `json:"log"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Log, 2)
	assert.Equal(t, game.Blind, doc.Log[0].Action)
	require.NotNil(t, doc.Log[0].Amount)
	assert.Equal(t, 20, *doc.Log[0].Amount)
	assert.Equal(t, "Bo", doc.Log[1].PlayerName)
}

func TestWriteJSONEncodeError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.Error(t, WriteJSON(path, map[string]any{"ch": make(chan int)}))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
