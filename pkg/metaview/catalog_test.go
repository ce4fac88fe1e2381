package metaview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTo(t *testing.T, path string, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
}

func TestCatalogScan(t *testing.T) {
	dir := t.TempDir()
	writeTo(t, filepath.Join(dir, "2020", "a.jpg"), "x")
	writeTo(t, filepath.Join(dir, "2020", "b.PNG"), "x")
	writeTo(t, filepath.Join(dir, "notes.txt"), "x")
	writeTo(t, filepath.Join(dir, ".thumbs", "c.jpg"), "x")
	writeTo(t, filepath.Join(dir, ".hidden.jpg"), "x")

	cat := NewCatalog(dir)
	require.NoError(t, cat.Scan())

	paths := []string{}
	for _, m := range cat.Media() {
		paths = append(paths, m.Path)
	}
	assert.ElementsMatch(t, []string{filepath.Join("2020", "a.jpg"), filepath.Join("2020", "b.PNG")}, paths)
	assert.Equal(t, 2, cat.Len())
}

func TestCatalogPath(t *testing.T) {
	dir := t.TempDir()
	cat := NewCatalog(dir)

	rel, err := cat.Add("sub/a.jpg")
	require.NoError(t, err)
	abs, err := cat.Add(filepath.Join(dir, "b.jpg"))
	require.NoError(t, err)
	outside, err := cat.Add("/elsewhere/c.jpg")
	require.NoError(t, err)

	assert.Equal(t, "M0001", rel.Handle)
	assert.Equal(t, "b.jpg", abs.Path)

	p, err := cat.Path(rel.Handle)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sub", "a.jpg"), p)

	p, err = cat.Path(abs.Handle)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b.jpg"), p)

	p, err = cat.Path(outside.Handle)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/c.jpg", p)

	_, err = cat.Path("M9999")
	assert.ErrorIs(t, err, ErrUnknownMedia)
}

func TestCatalogAddIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	cat := NewCatalog(dir)

	a, err := cat.Add(filepath.Join(dir, "a.jpg"))
	require.NoError(t, err)
	b, err := cat.Add("a.jpg")
	require.NoError(t, err)
	assert.Same(t, a, b)

	m, ok := cat.Find(filepath.Join(dir, "a.jpg"))
	assert.True(t, ok)
	assert.Same(t, a, m)

	_, err = cat.Add("")
	assert.Error(t, err)
}

func TestCatalogSelect(t *testing.T) {
	cat := NewCatalog(t.TempDir())
	m, err := cat.Add("a.jpg")
	require.NoError(t, err)

	notified := 0
	cat.OnChange(func() { notified++ })

	_, ok := cat.Active()
	assert.False(t, ok)

	require.NoError(t, cat.Select(m.Handle))
	h, ok := cat.Active()
	assert.True(t, ok)
	assert.Equal(t, m.Handle, h)

	assert.ErrorIs(t, cat.Select("nope"), ErrUnknownMedia)
	assert.Equal(t, 1, notified)

	cat.Notify()
	assert.Equal(t, 2, notified)
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage("a.JPG"))
	assert.True(t, IsImage("/x/y.tiff"))
	assert.False(t, IsImage("a.gif.txt"))
	assert.False(t, IsImage("jpg"))
}
