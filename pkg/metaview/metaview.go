// Package metaview displays the embedded Exif, IPTC and XMP metadata of media files.
package metaview

import "time"

// DefaultDelay is how long notifications are coalesced before a redraw.
var DefaultDelay = 250 * time.Millisecond

// Config holds configuration for metaview.
type Config struct {
	MediaDir  string
	OutDir    string
	Backend   string
	Title     string
	Delay     time.Duration
	Thumbnail ThumbOpts
}

// Registration describes how the metadata panel presents itself to a host.
type Registration struct {
	ID             string
	Name           string
	Description    string
	Title          string
	Version        string
	Authors        []string
	NavTypes       []string
	Height         int
	DetachedWidth  int
	DetachedHeight int
	Expand         bool
}

// Plugin is the registration metadata for the metadata panel.
var Plugin = Registration{
	ID:             "Display Exiv2 Data",
	Name:           "Display Exiv2 Data",
	Description:    "Gramplet to display Exiv2 image metadata",
	Title:          "Display Exiv2 metadata",
	Version:        "0.0.2",
	Authors:        []string{"Arnold Wiegert"},
	NavTypes:       []string{"Media"},
	Height:         20,
	DetachedWidth:  400,
	DetachedHeight: 500,
	Expand:         true,
}
