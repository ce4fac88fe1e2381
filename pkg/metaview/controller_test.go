package metaview

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	active  string
	paths   map[string]string
	hasData []bool
}

func (h *fakeHost) Active() (string, bool) { return h.active, h.active != "" }

func (h *fakeHost) Path(handle string) (string, error) {
	p, ok := h.paths[handle]
	if !ok {
		return "", ErrUnknownMedia
	}
	return p, nil
}

func (h *fakeHost) SetHasData(b bool) { h.hasData = append(h.hasData, b) }

func newTestController(t *testing.T, host Host, ex Extractor) (*Controller, *fakeClock, *[]Result) {
	t.Helper()
	var results []Result
	c := NewController(host, NewView(ex, NewTree()), WithRendered(func(r Result) {
		results = append(results, r)
	}))
	clk := &fakeClock{}
	c.sched.afterFunc = clk.afterFunc
	t.Cleanup(c.Close)
	return c, clk, &results
}

func TestControllerDebouncesNotifications(t *testing.T) {
	p := writeFile(t, "a.jpg", "x")
	md := &fakeMetadata{keys: map[Family][]string{Exif: {"Exif.Image.Make"}}}
	ex := &fakeExtractor{md: md}
	host := &fakeHost{active: "M0001", paths: map[string]string{"M0001": p}}
	c, clk, results := newTestController(t, host, ex)

	c.OnSelectionChanged()
	require.Len(t, clk.timers, 1)
	clk.timers[0].fn()

	c.OnSelectionChanged()
	c.OnSelectionChanged()
	require.Len(t, clk.timers, 2)
	clk.timers[1].fn()
	clk.timers[1].fn()

	assert.Len(t, ex.opened, 2)
	require.Len(t, *results, 2)
	assert.Equal(t, []bool{true, true}, host.hasData)
}

func TestControllerNoActive(t *testing.T) {
	ex := &fakeExtractor{}
	host := &fakeHost{}
	c, _, results := newTestController(t, host, ex)

	res := c.Render()
	assert.False(t, res.HasData())
	assert.Equal(t, []bool{false}, host.hasData)
	assert.Empty(t, ex.opened)
	assert.Empty(t, *results)
}

func TestControllerUnknownHandle(t *testing.T) {
	host := &fakeHost{active: "M0009"}
	c, _, _ := newTestController(t, host, &fakeExtractor{})

	res := c.Render()
	assert.True(t, errors.Is(res.Err, ErrUnknownMedia))
	assert.Equal(t, []bool{false}, host.hasData)
}

func TestControllerMissingFile(t *testing.T) {
	host := &fakeHost{active: "M0001", paths: map[string]string{"M0001": filepath.Join(t.TempDir(), "x.jpg")}}
	c, _, results := newTestController(t, host, &fakeExtractor{})

	res := c.Render()
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Equal(t, []bool{false}, host.hasData)
	require.Len(t, *results, 1)
}

func TestControllerWithCatalog(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "b.jpg")
	writeTo(t, p, "x")

	cat := NewCatalog(dir)
	require.NoError(t, cat.Scan())
	md := &fakeMetadata{keys: map[Family][]string{Exif: {"Exif.Image.Make"}}}
	c, clk, results := newTestController(t, cat, &fakeExtractor{md: md})
	cat.OnChange(c.OnSelectionChanged)

	require.NoError(t, cat.Select("M0001"))
	require.NoError(t, cat.Select("M0001"))
	require.Len(t, clk.timers, 1)
	clk.timers[0].fn()
	clk.timers[0].fn()

	require.Len(t, *results, 1)
	assert.Equal(t, p, (*results)[0].Path)
	assert.True(t, cat.HasData())
}
