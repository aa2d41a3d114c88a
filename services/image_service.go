package services

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/plutarco/tienda-api/utils"
)

// MaxImageDimension bounds the longer side of a stored product image.
const MaxImageDimension = 1200

// jpegQuality is the quality used when re-encoding to JPEG.
const jpegQuality = 85

// NormalizedImage is the result of re-encoding an uploaded product image.
type NormalizedImage struct {
	Content     []byte
	Ext         string // includes the dot, e.g. ".jpg"
	ContentType string
}

// NormalizeProductImage decodes the upload, resizes it so neither side
// exceeds MaxImageDimension, and re-encodes it: images with an alpha channel
// stay PNG to preserve transparency, the rest become JPEG. Formats the
// decoder does not know (e.g. webp) are stored unmodified.
func NormalizeProductImage(content []byte, originalExt string) (*NormalizedImage, error) {
	ext := strings.ToLower(originalExt)

	img, err := imaging.Decode(bytes.NewReader(content), imaging.AutoOrientation(true))
	if err != nil {
		log.Printf("Image decode failed (%v), storing %s upload as-is", err, ext)
		return &NormalizedImage{
			Content:     content,
			Ext:         ext,
			ContentType: utils.ContentTypeForExt(ext),
		}, nil
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxImageDimension || bounds.Dy() > MaxImageDimension {
		img = imaging.Fit(img, MaxImageDimension, MaxImageDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if hasAlpha(img) {
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode png: %w", err)
		}
		return &NormalizedImage{Content: buf.Bytes(), Ext: ".png", ContentType: "image/png"}, nil
	}

	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return &NormalizedImage{Content: buf.Bytes(), Ext: ".jpg", ContentType: "image/jpeg"}, nil
}

// ProductImageFilename derives the deterministic storage name for a product
// image, so a later upload for the same product overwrites the previous one.
func ProductImageFilename(code, ext string) string {
	return code + strings.ToLower(ext)
}

// hasAlpha reports whether any pixel of the image is not fully opaque.
// Sampling every pixel is fine at catalog-image sizes.
func hasAlpha(img image.Image) bool {
	if opaquer, ok := img.(interface{ Opaque() bool }); ok {
		return !opaquer.Opaque()
	}

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return true
			}
		}
	}
	return false
}
