package metaview

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"
)

const (
	// utf8Escape is the ISO 2022 escape sequence that switches to UTF-8.
	utf8Escape = "\x1b%G"

	headerSection   = "Metadata"
	notFoundSection = "File not found"
	noMetaSection   = "No Metadata found in: "

	// noMetaThreshold is the row count at or below which a file is reported as empty.
	noMetaThreshold = 3
)

// Status is the outcome of a render.
type Status int

const (
	StatusFound Status = iota
	StatusNotFound
	StatusExtractFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not found"
	case StatusExtractFailed:
		return "extract failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result describes a single render.
type Result struct {
	Status Status
	Path   string
	// Tags is the number of tag rows added, excluding headers and notices.
	Tags int
	// Rows is the number of rows in the display after rendering.
	Rows int
	Err  error
}

// HasData reports whether the render found any tags.
func (r Result) HasData() bool {
	return r.Status == StatusFound && r.Tags > 0
}

// View renders the metadata of a file into a Display.
type View struct {
	ex  Extractor
	out Display

	sections map[string]Node
	rows     int
}

// NewView returns a view that reads with ex and draws into out.
func NewView(ex Extractor, out Display) *View {
	return &View{ex: ex, out: out}
}

// Display replaces the contents of the display with the metadata of path.
// Extraction failures are reported in the Result rather than returned.
func (v *View) Display(path string) Result {
	v.sections = map[string]Node{}
	v.rows = 0
	v.out.Clear()

	res := Result{Path: path}
	defer v.out.ExpandAll()
	dir, file := splitPath(path)

	if _, err := os.Stat(path); err != nil {
		klog.V(1).Infof("%s: %v", path, err)
		v.add(notFoundSection, file, dir)
		res.Status = StatusNotFound
		res.Rows = v.rows
		return res
	}

	tags, err := v.extract(path)
	res.Tags = tags
	if err != nil {
		klog.V(1).Infof("unable to read metadata from %s: %v", path, err)
		res.Status = StatusExtractFailed
		res.Err = err
		res.Rows = v.rows
		return res
	}

	if v.rows <= noMetaThreshold {
		v.add(noMetaSection+file, file, "")
	}

	res.Status = StatusFound
	res.Rows = v.rows
	return res
}

// extract adds a row for every tag in path, returning the number of tag rows added.
func (v *View) extract(path string) (int, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}

	md, err := v.ex.Open(filepath.Base(path), buf)
	if err != nil {
		return 0, fmt.Errorf("open: %w", err)
	}

	v.add(headerSection, v.ex.Name()+" Version", v.ex.Version())

	tags := 0
	for _, f := range Families {
		keys, err := md.Keys(f)
		if err != nil {
			return tags, fmt.Errorf("%s keys: %w", f, err)
		}
		for _, k := range keys {
			value := md.Value(k)
			if f == Iptc && isCharacterSet(k) {
				value = charsetValue(md.Raw(k))
			}
			v.add(namespace(k), md.Label(k), value)
			tags++
		}
	}
	return tags, nil
}

// add appends a row to the named section, creating the section on first use.
func (v *View) add(section, label, value string) {
	node, ok := v.sections[section]
	if !ok {
		node = v.out.AddSection(section)
		v.sections[section] = node
	}
	v.out.AddRow(node, label, value)
	v.rows++
}

// splitPath splits path into its parent directory, without a trailing separator, and file name.
func splitPath(path string) (string, string) {
	dir, file := filepath.Split(path)
	if len(dir) > 1 {
		dir = strings.TrimRight(dir, string(filepath.Separator))
	}
	return dir, file
}

func isCharacterSet(key string) bool {
	parts := splitKey(key, 3)
	return len(parts) == 3 && parts[2] == "CharacterSet"
}

func charsetValue(raw string) string {
	if raw == utf8Escape {
		return "UTF8 - ESC%G"
	}
	return "Unknown char set: " + raw
}
