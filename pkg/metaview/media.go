package metaview

import (
	"time"
)

// ThumbMeta describes a thumbnail.
type ThumbMeta struct {
	X       int
	Y       int
	RelPath string
	Path    string
}

// Media is a media record: a handle and the file it refers to.
type Media struct {
	Handle string
	// Path is relative to the catalog base directory unless absolute.
	Path    string
	ModTime time.Time
}
