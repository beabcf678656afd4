// Package generator encodes composed images in lossless formats.
//
// PNG is the default; TIFF (Deflate-compressed) is available for callers
// that post-process the output.
package generator

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

const (
	FormatPNG  = "png"
	FormatTIFF = "tiff"
)

// NormalizeFormat maps a format name or file extension to FormatPNG or
// FormatTIFF. Anything unrecognised becomes FormatPNG.
func NormalizeFormat(format string) string {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "tiff", "tif":
		return FormatTIFF
	default:
		return FormatPNG
	}
}

// ValidFormat reports whether format names a supported encoding.
func ValidFormat(format string) bool {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "png", "tiff", "tif":
		return true
	}
	return false
}

// ContentType returns the MIME type of format.
func ContentType(format string) string {
	if NormalizeFormat(format) == FormatTIFF {
		return "image/tiff"
	}
	return "image/png"
}

// Extension returns the file extension of format, including the dot.
func Extension(format string) string {
	return "." + NormalizeFormat(format)
}

// Encode writes img to w in format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch NormalizeFormat(format) {
	case FormatTIFF:
		if err := tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
			return fmt.Errorf("encode TIFF: %w", err)
		}
	default:
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("encode PNG: %w", err)
		}
	}
	return nil
}

// Generate writes img to output. The format is inferred from the file
// extension; unknown extensions are rejected.
func Generate(output string, img image.Image) error {
	ext := filepath.Ext(output)
	if !ValidFormat(ext) {
		return fmt.Errorf("unsupported format %q: use .png or .tiff", ext)
	}
	return writeFile(output, img, NormalizeFormat(ext))
}
