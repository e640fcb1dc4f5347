package cv

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
)

// ToGray converts any image to a single-channel grayscale image
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)
	return gray
}

// LoadGray reads a PNG or JPEG file as grayscale
func LoadGray(path string) (*image.Gray, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	return ToGray(img), nil
}

// DecodeGray decodes an encoded image stream as grayscale
func DecodeGray(r io.Reader) (*image.Gray, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return ToGray(img), nil
}

// SaveImage writes an image, choosing the format from the file extension
func SaveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}
