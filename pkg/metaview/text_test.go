package metaview

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	tree := NewTree()
	a := tree.AddSection("A")
	b := tree.AddSection("B")
	tree.AddRow(a, "one", "1")
	tree.AddRow(b, "two", "2")
	tree.AddRow(a, "three", "3")

	assert.Equal(t, 3, tree.Rows())
	assert.Equal(t, []Row{{"one", "1"}, {"three", "3"}}, tree.Section("A").Rows)
	assert.False(t, tree.Section("A").Expanded)
	assert.Nil(t, tree.Section("C"))

	tree.ExpandAll()
	assert.True(t, tree.Section("B").Expanded)

	tree.Clear()
	assert.Equal(t, 0, tree.Rows())
	assert.Empty(t, tree.Sections)
}

func TestWriteText(t *testing.T) {
	tree := NewTree()
	n := tree.AddSection("Exif")
	tree.AddRow(n, "Make", "Canon")
	tree.AddRow(n, "Exposure Time", "1/200")
	tree.AddSection("Collapsed")
	tree.Sections[0].Expanded = true

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, tree))
	out := buf.String()

	assert.Contains(t, out, "Exif")
	assert.Contains(t, out, "Collapsed")
	lines := strings.Split(out, "\n")
	var rows []string
	for _, l := range lines {
		if strings.HasPrefix(l, "  ") {
			rows = append(rows, l)
		}
	}
	require.Len(t, rows, 2)
	assert.Contains(t, rows[0], "Make")
	assert.Contains(t, rows[0], ": Canon")
	assert.Contains(t, rows[1], ": 1/200")
	// Labels are padded to the same width.
	assert.Equal(t, strings.Index(rows[0], ":"), strings.Index(rows[1], ":"))
}
