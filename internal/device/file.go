package device

import (
	"context"
	"errors"
	"image"
	"time"

	"jordanella.com/jianghu-auto/internal/cv"
)

// ErrReadOnly is returned for input sent to a FileDevice
var ErrReadOnly = errors.New("saved screenshot accepts no input")

// FileDevice replays a saved screenshot
type FileDevice struct {
	path string
}

func NewFileDevice(path string) *FileDevice {
	return &FileDevice{path: path}
}

// Screencap reads the file again on every call
func (d *FileDevice) Screencap(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := cv.LoadGray(d.path)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (d *FileDevice) Tap(ctx context.Context, x, y int) error {
	return ErrReadOnly
}

func (d *FileDevice) Swipe(ctx context.Context, from, to image.Point, duration time.Duration) error {
	return ErrReadOnly
}
