package metaview

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Family is one of the metadata standards embedded in an image.
type Family int

const (
	Exif Family = iota
	Iptc
	Xmp
)

// Families lists every family in display order.
var Families = []Family{Exif, Iptc, Xmp}

func (f Family) String() string {
	switch f {
	case Exif:
		return "Exif"
	case Iptc:
		return "Iptc"
	case Xmp:
		return "Xmp"
	}
	return fmt.Sprintf("Family(%d)", int(f))
}

// ErrUnknownBackend is returned by NewExtractor for unsupported backend names.
var ErrUnknownBackend = errors.New("unknown metadata backend")

// Metadata is the parsed metadata of a single file. Keys are dotted, e.g. "Exif.Image.Make".
type Metadata interface {
	Keys(f Family) ([]string, error)
	Label(key string) string
	Value(key string) string
	Raw(key string) string
}

// Extractor parses metadata from the raw bytes of a file.
type Extractor interface {
	Open(name string, buf []byte) (Metadata, error)
	Name() string
	Version() string
	Close() error
}

// NewExtractor returns the extractor for a backend name: "exiftool" or "goexif".
func NewExtractor(backend string) (Extractor, error) {
	switch backend {
	case "", "exiftool":
		e, err := NewExiftool()
		if err != nil {
			return nil, err
		}
		return e, nil
	case "goexif":
		return NewGoexif(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}

// splitKey splits a dotted tag key into at most n segments.
func splitKey(key string, n int) []string {
	return strings.SplitN(key, ".", n)
}

// namespace returns the portion of key before the first dot.
func namespace(key string) string {
	return splitKey(key, 2)[0]
}

// humanize turns a tag name such as "exposureTime" into "Exposure Time".
func humanize(name string) string {
	rs := []rune(name)
	var b strings.Builder
	for i, r := range rs {
		if i > 0 && unicode.IsUpper(r) {
			prev := rs[i-1]
			nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteRune(' ')
			}
		}
		if i == 0 {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tagName returns the last segment of a dotted key.
func tagName(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[i+1:]
	}
	return key
}
