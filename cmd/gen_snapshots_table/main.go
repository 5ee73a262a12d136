// Command gen_snapshots_table rewrites the snapshot gallery in the README from the
// PNG frames the integration suite generates.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	startMarker = "<!-- SNAPSHOTS:START -->"
	endMarker   = "<!-- SNAPSHOTS:END -->"
)

var errNoMarkers = errors.New("snapshot markers not found")

type snapshot struct {
	Name    string
	Encoded string
}

func main() {
	var (
		readme    string
		snapshots string
		cols      int
		width     int
	)
	flag.StringVar(&readme, "readme", "README.md", "Path to README file to update in place")
	flag.StringVar(&snapshots, "snapshots", filepath.Join("test", "integration", "testdata", "snapshots"), "Snapshots directory")
	flag.IntVar(&cols, "cols", 3, "Number of columns per row")
	flag.IntVar(&width, "width", 256, "Image width in pixels")
	flag.Parse()

	if err := run(readme, snapshots, cols, width); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(readme, dir string, cols, width int) error {
	items, err := collectSnapshots(dir)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(readme)
	if err != nil {
		return fmt.Errorf("reading %s: %w", readme, err)
	}
	updated, err := replaceTable(string(content), renderTable(items, filepath.ToSlash(dir), cols, width))
	if err != nil {
		return fmt.Errorf("%s: %w", readme, err)
	}
	if err := os.WriteFile(readme, []byte(updated), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", readme, err)
	}
	return nil
}

// collectSnapshots lists the golden PNGs in dir, skipping "_actual" frames left by failures.
func collectSnapshots(dir string) ([]snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var items []snapshot
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".png") || strings.Contains(name, "_actual.") {
			continue
		}
		items = append(items, snapshot{
			Name:    strings.TrimSuffix(name, filepath.Ext(name)),
			Encoded: url.PathEscape(name),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items, nil
}

func renderTable(items []snapshot, dir string, cols, width int) string {
	if cols <= 0 {
		cols = 3
	}

	var sb strings.Builder
	sb.WriteString("<table>\n")
	for i := 0; i < len(items); i += cols {
		sb.WriteString("  <tr>\n")
		for c := 0; c < cols; c++ {
			if i+c >= len(items) {
				sb.WriteString("    <td></td>\n")
				continue
			}
			it := items[i+c]
			fmt.Fprintf(&sb, "    <td align=\"center\"><img src=\"%s\" width=\"%d\" style=\"image-rendering:pixelated;\" /><br><sub>%s</sub></td>\n",
				path.Join(dir, it.Encoded), width, it.Name)
		}
		sb.WriteString("  </tr>\n")
	}
	sb.WriteString("</table>\n")
	return sb.String()
}

// replaceTable swaps whatever sits between the markers for table.
func replaceTable(content, table string) (string, error) {
	start := strings.Index(content, startMarker)
	end := strings.Index(content, endMarker)
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: ensure %s and %s exist", errNoMarkers, startMarker, endMarker)
	}

	after := content[end:]
	var sb strings.Builder
	sb.WriteString(content[:start+len(startMarker)])
	sb.WriteString("\n")
	sb.WriteString(table)
	if !strings.HasPrefix(after, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString(after)
	return sb.String(), nil
}
