package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectSnapshots(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"stripes.png", "checkerboard.png", "checkerboard_actual.png", "notes.txt", "light gun.png"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	items, err := collectSnapshots(dir)
	require.NoError(t, err)
	assert.Equal(t, []snapshot{
		{Name: "checkerboard", Encoded: "checkerboard.png"},
		{Name: "light gun", Encoded: "light%20gun.png"},
		{Name: "stripes", Encoded: "stripes.png"},
	}, items)
}

func TestRenderTable(t *testing.T) {
	items := []snapshot{{Name: "a", Encoded: "a.png"}, {Name: "b", Encoded: "b.png"}, {Name: "c", Encoded: "c.png"}}
	table := renderTable(items, "snaps", 2, 64)

	assert.Contains(t, table, `<img src="snaps/a.png" width="64"`)
	assert.Contains(t, table, "<sub>c</sub>")
	assert.Equal(t, 2, strings.Count(table, "<tr>"))
	assert.Equal(t, 1, strings.Count(table, "<td></td>"), "last row is padded")
}

func TestReplaceTable(t *testing.T) {
	readme := "# neshost\n" + startMarker + "\nold\n" + endMarker + "\ntail\n"
	got, err := replaceTable(readme, "<table>\n</table>\n")
	require.NoError(t, err)
	assert.Equal(t, "# neshost\n"+startMarker+"\n<table>\n</table>\n"+endMarker+"\ntail\n", got)

	_, err = replaceTable("no markers", "")
	assert.ErrorIs(t, err, errNoMarkers)
}
