package metaview

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleEventSelectsWrittenImage(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "a.jpg")
	writeTo(t, p, "x")
	cat := NewCatalog(dir)

	notified := 0
	cat.OnChange(func() { notified++ })

	handleEvent(nil, cat, fsnotify.Event{Name: p, Op: fsnotify.Write})
	h, ok := cat.Active()
	require.True(t, ok)
	m, _ := cat.Lookup(h)
	assert.Equal(t, "a.jpg", m.Path)
	assert.Equal(t, 1, notified)

	handleEvent(nil, cat, fsnotify.Event{Name: filepath.Join(dir, "a.txt"), Op: fsnotify.Write})
	assert.Equal(t, 1, notified)
}

func TestHandleEventRemoveActive(t *testing.T) {
	dir := t.TempDir()
	cat := NewCatalog(dir)
	a, err := cat.Add("a.jpg")
	require.NoError(t, err)
	_, err = cat.Add("b.jpg")
	require.NoError(t, err)
	require.NoError(t, cat.Select(a.Handle))

	notified := 0
	cat.OnChange(func() { notified++ })

	handleEvent(nil, cat, fsnotify.Event{Name: filepath.Join(dir, "b.jpg"), Op: fsnotify.Remove})
	assert.Equal(t, 0, notified)

	handleEvent(nil, cat, fsnotify.Event{Name: filepath.Join(dir, "a.jpg"), Op: fsnotify.Remove})
	assert.Equal(t, 1, notified)

	handleEvent(nil, cat, fsnotify.Event{Name: filepath.Join(dir, "unknown.jpg"), Op: fsnotify.Remove})
	assert.Equal(t, 1, notified)
}

func TestWatchDirs(t *testing.T) {
	dir := t.TempDir()
	writeTo(t, filepath.Join(dir, "a", "b", "x.jpg"), "x")
	writeTo(t, filepath.Join(dir, ".git", "x"), "x")

	dirs, err := watchDirs(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{dir, filepath.Join(dir, "a"), filepath.Join(dir, "a", "b")}, dirs)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	cat := NewCatalog(dir)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, cat) }()

	p := filepath.Join(dir, "new.jpg")
	require.Eventually(t, func() bool {
		writeTo(t, p, "x")
		_, ok := cat.Active()
		return ok
	}, 5*time.Second, 50*time.Millisecond)

	m, ok := cat.Find(p)
	require.True(t, ok)
	h, _ := cat.Active()
	assert.Equal(t, m.Handle, h)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
