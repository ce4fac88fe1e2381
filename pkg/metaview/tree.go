package metaview

// Node is an opaque handle to a section in a Display.
type Node int

// Display is a two-column tree of sections and (label, value) rows.
type Display interface {
	Clear()
	AddSection(title string) Node
	AddRow(parent Node, label, value string)
	ExpandAll()
}

// Row is a single (label, value) line.
type Row struct {
	Label string
	Value string
}

// Section is a titled group of rows.
type Section struct {
	Title    string
	Rows     []Row
	Expanded bool
}

// Tree is an in-memory Display.
type Tree struct {
	Sections []*Section
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

func (t *Tree) Clear() {
	t.Sections = nil
}

func (t *Tree) AddSection(title string) Node {
	t.Sections = append(t.Sections, &Section{Title: title})
	return Node(len(t.Sections) - 1)
}

func (t *Tree) AddRow(parent Node, label, value string) {
	s := t.Sections[parent]
	s.Rows = append(s.Rows, Row{Label: label, Value: value})
}

func (t *Tree) ExpandAll() {
	for _, s := range t.Sections {
		s.Expanded = true
	}
}

// Rows returns the number of data rows, not counting section headings.
func (t *Tree) Rows() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Rows)
	}
	return n
}

// Section returns the section with the given title, or nil.
func (t *Tree) Section(title string) *Section {
	for _, s := range t.Sections {
		if s.Title == title {
			return s
		}
	}
	return nil
}
