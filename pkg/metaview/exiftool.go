package metaview

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/barasher/go-exiftool"
	"k8s.io/klog/v2"
)

// exifGroups maps exiftool's family 1 groups onto the names used in dotted keys.
var exifGroups = map[string]string{
	"IFD0":       "Image",
	"IFD1":       "Thumbnail",
	"ExifIFD":    "Photo",
	"GPS":        "GPSInfo",
	"InteropIFD": "Iop",
	"SubIFD":     "SubImage1",
}

// iptcEnvelope lists IPTC record 1 tags, renamed where the dataset name differs.
var iptcEnvelope = map[string]string{
	"EnvelopeRecordVersion": "ModelVersion",
	"Destination":           "Destination",
	"FileFormat":            "FileFormat",
	"FileVersion":           "FileVersion",
	"ServiceIdentifier":     "ServiceId",
	"EnvelopeNumber":        "EnvelopeNumber",
	"ProductID":             "ProductId",
	"EnvelopePriority":      "EnvelopePriority",
	"DateSent":              "DateSent",
	"TimeSent":              "TimeSent",
	"CodedCharacterSet":     "CharacterSet",
	"UniqueObjectName":      "UNO",
}

// charsetRaw reverses exiftool's print conversion of IPTC CodedCharacterSet.
var charsetRaw = map[string]string{
	"UTF8": "\x1b%G",
}

// ExiftoolExtractor reads metadata through a long-running exiftool process.
type ExiftoolExtractor struct {
	mu      sync.Mutex
	et      *exiftool.Exiftool
	version string
}

// NewExiftool starts exiftool.
func NewExiftool() (*ExiftoolExtractor, error) {
	et, err := exiftool.NewExiftool(exiftool.PrintGroupNames("0:1"))
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &ExiftoolExtractor{et: et}, nil
}

func (e *ExiftoolExtractor) Name() string {
	return "exiftool"
}

// Version returns the exiftool version seen in the most recent extraction.
func (e *ExiftoolExtractor) Version() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.version == "" {
		return "unknown"
	}
	return e.version
}

func (e *ExiftoolExtractor) Close() error {
	return e.et.Close()
}

// Open spools buf to a temporary file, since exiftool reads from paths.
func (e *ExiftoolExtractor) Open(name string, buf []byte) (Metadata, error) {
	f, err := os.CreateTemp("", "metaview-*"+filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write temp: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close temp: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	fis := e.et.ExtractMetadata(f.Name())
	if len(fis) == 0 {
		return nil, fmt.Errorf("extract %q: no result", name)
	}
	fi := fis[0]
	if fi.Err != nil {
		return nil, fmt.Errorf("extract %q: %w", name, fi.Err)
	}

	ts, version, err := parseExiftoolFields(fi.Fields)
	if version != "" {
		e.version = version
	}
	if err != nil {
		return nil, fmt.Errorf("extract %q: %w", name, err)
	}
	klog.V(1).Infof("exiftool: %s has %d exif, %d iptc, %d xmp tags", name, len(ts.keys[Exif]), len(ts.keys[Iptc]), len(ts.keys[Xmp]))
	return ts, nil
}

// parseExiftoolFields converts "-G0:1" style fields ("EXIF:IFD0:Make") into dotted keys.
// An Error field, which exiftool sets for unreadable files, is returned as an error.
func parseExiftoolFields(fields map[string]interface{}) (*tagSet, string, error) {
	ts := newTagSet()
	version := ""
	var ferr error

	for k, v := range fields {
		klog.V(2).Infof("%q=%v", k, v)
		parts := strings.SplitN(k, ":", 3)
		if len(parts) != 3 {
			continue
		}
		group0, group1, name := parts[0], parts[1], parts[2]
		value := formatField(v)

		switch group0 {
		case "ExifTool":
			switch name {
			case "ExifToolVersion":
				version = value
			case "Error":
				ferr = errors.New(value)
			}
		case "EXIF":
			if g, ok := exifGroups[group1]; ok {
				group1 = g
			}
			ts.add(Exif, "Exif."+group1+"."+name, humanize(name), value, value)
		case "MakerNotes":
			ts.add(Exif, "Exif."+group1+"."+name, humanize(name), value, value)
		case "IPTC":
			record := "Application2"
			if n, ok := iptcEnvelope[name]; ok {
				record, name = "Envelope", n
			}
			raw := value
			if name == "CharacterSet" {
				if r, ok := charsetRaw[value]; ok {
					raw = r
				}
			}
			ts.add(Iptc, "Iptc."+record+"."+name, humanize(name), value, raw)
		case "XMP":
			ns := strings.TrimPrefix(group1, "XMP-")
			ts.add(Xmp, "Xmp."+ns+"."+name, humanize(name), value, value)
		}
	}

	if ferr != nil {
		return nil, version, ferr
	}
	ts.sort()
	return ts, version, nil
}

// formatField renders a decoded exiftool JSON value.
func formatField(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case []interface{}:
		ss := make([]string, 0, len(t))
		for _, x := range t {
			ss = append(ss, formatField(x))
		}
		return strings.Join(ss, ", ")
	}
	return fmt.Sprint(v)
}
