package prefabs

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsEncounterAndScriptEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(10*time.Millisecond, dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "arena.yaml"), []byte("name: arena"), 0o644))

	c := waitChange(t, w)
	assert.Equal(t, "arena.yaml", filepath.Base(c.Path))
	assert.Equal(t, ChangeEncounter, c.Kind)

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ramp.tengo"), []byte("curve := 1"), 0o644))
	for {
		c = waitChange(t, w)
		if c.Kind == ChangeScript {
			break
		}
	}
	assert.Equal(t, "ramp.tengo", filepath.Base(c.Path))
	assert.Equal(t, "script", c.Kind.String())
}

func TestWatcherReportsBurstOnceAfterLastWrite(t *testing.T) {
	const debounce = 50 * time.Millisecond
	dir := t.TempDir()
	w, err := NewWatcher(debounce, dir)
	require.NoError(t, err)
	defer w.Close()

	file := filepath.Join(dir, "arena.yaml")
	var last time.Time
	for i := range 5 {
		last = time.Now()
		require.NoError(t, os.WriteFile(file, []byte(fmt.Sprintf("name: arena%d", i)), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	c := waitChange(t, w)
	assert.GreaterOrEqual(t, time.Since(last), debounce)
	assert.Equal(t, "arena.yaml", filepath.Base(c.Path))
	data, err := os.ReadFile(c.Path)
	require.NoError(t, err)
	assert.Equal(t, "name: arena4", string(data))

	select {
	case extra := <-w.Changes:
		t.Fatalf("burst reported twice: %+v", extra)
	case <-time.After(3 * debounce):
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(0, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := <-w.Changes
	assert.False(t, ok)
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(0, filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c := <-w.Changes:
		return c
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
	return Change{}
}
