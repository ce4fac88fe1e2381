package metaview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"k8s.io/klog/v2"
)

const goexifModule = "github.com/rwcarlsen/goexif"

// jpegSOI starts every JPEG stream.
var jpegSOI = []byte{0xFF, 0xD8}

// photoFields are the Exif sub-IFD fields goexif reports without their IFD.
var photoFields = map[string]bool{
	"ExposureTime": true, "FNumber": true, "ExposureProgram": true, "SpectralSensitivity": true,
	"ISOSpeedRatings": true, "OECF": true, "ExifVersion": true, "DateTimeOriginal": true,
	"DateTimeDigitized": true, "ComponentsConfiguration": true, "CompressedBitsPerPixel": true,
	"ShutterSpeedValue": true, "ApertureValue": true, "BrightnessValue": true,
	"ExposureBiasValue": true, "MaxApertureValue": true, "SubjectDistance": true,
	"MeteringMode": true, "LightSource": true, "Flash": true, "FocalLength": true,
	"SubjectArea": true, "MakerNote": true, "UserComment": true, "SubSecTime": true,
	"SubSecTimeOriginal": true, "SubSecTimeDigitized": true, "FlashpixVersion": true,
	"ColorSpace": true, "PixelXDimension": true, "PixelYDimension": true,
	"RelatedSoundFile": true, "FlashEnergy": true, "SpatialFrequencyResponse": true,
	"FocalPlaneXResolution": true, "FocalPlaneYResolution": true,
	"FocalPlaneResolutionUnit": true, "SubjectLocation": true, "ExposureIndex": true,
	"SensingMethod": true, "FileSource": true, "SceneType": true, "CFAPattern": true,
	"CustomRendered": true, "ExposureMode": true, "WhiteBalance": true,
	"DigitalZoomRatio": true, "FocalLengthIn35mmFilm": true, "SceneCaptureType": true,
	"GainControl": true, "Contrast": true, "Saturation": true, "Sharpness": true,
	"DeviceSettingDescription": true, "SubjectDistanceRange": true, "ImageUniqueID": true,
	"LensMake": true, "LensModel": true,
}

var goexifVersion = sync.OnceValue(func() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, d := range bi.Deps {
		if d.Path != goexifModule {
			continue
		}
		if d.Replace != nil && d.Replace.Version != "" {
			return d.Replace.Version
		}
		if d.Version != "" {
			return d.Version
		}
	}
	return "unknown"
})

// GoexifExtractor reads Exif tags in-process. It has no IPTC or XMP support.
type GoexifExtractor struct{}

// NewGoexif returns a pure Go extractor.
func NewGoexif() *GoexifExtractor {
	return &GoexifExtractor{}
}

func (g *GoexifExtractor) Name() string { return "goexif" }

// Version returns the goexif module version linked into the binary.
func (g *GoexifExtractor) Version() string { return goexifVersion() }

func (g *GoexifExtractor) Close() error { return nil }

// Open decodes the Exif block of buf. Images without one yield no tags.
func (g *GoexifExtractor) Open(name string, buf []byte) (Metadata, error) {
	x, err := exif.Decode(bytes.NewReader(buf))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		if withoutExif(buf, err) {
			klog.V(1).Infof("no exif in %s: %v", name, err)
			return newTagSet(), nil
		}
		return nil, fmt.Errorf("decode %q: %w", name, err)
	}
	if err != nil {
		klog.V(1).Infof("partial exif in %s: %v", name, err)
	}

	w := &exifWalker{ts: newTagSet()}
	if err := x.Walk(w); err != nil {
		return nil, fmt.Errorf("walk %q: %w", name, err)
	}
	w.ts.sort()
	return w.ts, nil
}

// withoutExif reports whether a decode failure means buf is an image that has no Exif block.
func withoutExif(buf []byte, err error) bool {
	if _, _, cerr := image.DecodeConfig(bytes.NewReader(buf)); cerr == nil {
		return true
	}
	if !bytes.HasPrefix(buf, jpegSOI) {
		return false
	}
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || strings.Contains(err.Error(), "failed to find exif intro marker")
}

// goexifGroup returns the key group for a goexif field name.
func goexifGroup(name string) string {
	switch {
	case strings.HasPrefix(name, "GPS"):
		return "GPSInfo"
	case name == "InteroperabilityIndex":
		return "Iop"
	case photoFields[name]:
		return "Photo"
	}
	return "Image"
}

type exifWalker struct {
	ts *tagSet
}

func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	n := string(name)

	raw := tag.String()
	value := raw
	if tag.Format() == tiff.StringVal {
		if s, err := tag.StringVal(); err == nil {
			value = strings.TrimRight(s, "\x00 ")
		}
	}
	w.ts.add(Exif, "Exif."+goexifGroup(n)+"."+n, humanize(n), value, raw)
	return nil
}
