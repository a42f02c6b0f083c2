// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded images: it verifies the format,
// applies the EXIF orientation and re-encodes the pixels so that no
// metadata from the original file is kept.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Image MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// MaxPixels bounds the decoded size of an image.
const MaxPixels = 40_000_000

// JPEGQuality is the quality used when re-encoding JPEG output.
const JPEGQuality = 90

// ErrUnsupportedFormat is returned for data that is not a JPEG, PNG, GIF
// or WebP image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is a normalized image.
type Result struct {
	Data     []byte
	Width    int
	Height   int
	MimeType string
	Ext      string // with leading dot
}

// format describes an accepted input format and how it is written back.
type format struct {
	mimeType string
	ext      string
	encode   func(w io.Writer, img image.Image) error
}

var (
	jpegFormat = format{MimeTypeJPEG, ".jpg", func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	}}
	pngFormat = format{MimeTypePNG, ".png", func(w io.Writer, img image.Image) error {
		return png.Encode(w, img)
	}}
	gifFormat = format{MimeTypeGIF, ".gif", func(w io.Writer, img image.Image) error {
		return gif.Encode(w, img, nil)
	}}
)

// formats maps sniffed content types to their output format. WebP is
// written as JPEG since there is no pure Go WebP encoder. TIFF is never
// accepted (CVE-2023-36308 in disintegration/imaging).
var formats = map[string]format{
	MimeTypeJPEG: jpegFormat,
	MimeTypePNG:  pngFormat,
	MimeTypeGIF:  gifFormat,
	MimeTypeWebP: jpegFormat,
}

// Normalize decodes data, applies its EXIF orientation and re-encodes it.
func Normalize(data []byte) (*Result, error) {
	out, ok := formats[mimetype.Detect(data).String()]
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if cfg.Width*cfg.Height > MaxPixels {
		return nil, fmt.Errorf("image is too large: %dx%d", cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = orient(img, exifOrientation(data))

	var buf bytes.Buffer
	if err := out.encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}

	bounds := img.Bounds()
	return &Result{
		Data:     buf.Bytes(),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: out.mimeType,
		Ext:      out.ext,
	}, nil
}

// IsImageExt reports whether ext (with leading dot) names an image format
// Normalize accepts.
func IsImageExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	default:
		return false
	}
}

// exifOrientation returns the EXIF orientation tag of data, or 1 when the
// image carries none.
func exifOrientation(data []byte) int {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	if v, err := tag.Int(0); err == nil {
		return v
	}
	return 1
}

// orientations undo EXIF orientations 2 to 8 (1 is upright).
var orientations = map[int]func(image.Image) *image.NRGBA{
	2: imaging.FlipH,
	3: imaging.Rotate180,
	4: imaging.FlipV,
	5: imaging.Transpose,
	6: imaging.Rotate270,
	7: imaging.Transverse,
	8: imaging.Rotate90,
}

func orient(img image.Image, orientation int) image.Image {
	if fix, ok := orientations[orientation]; ok {
		return fix(img)
	}
	return img
}
