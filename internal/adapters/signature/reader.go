// Package signature turns the PNG exported by a signature pad into a
// domain.Signature. A canvas that was never drawn on still produces an
// image, so presence is decided by looking for ink, not by the upload.
package signature

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/csg33k/wc-intake/internal/domain"
)

var (
	ErrNotPNG = errors.New("signature is not a PNG image")
	ErrBlank  = errors.New("signature canvas is blank")
)

// Reader decodes signature images. Background is the canvas fill colour;
// a pixel that is neither transparent nor Background counts as ink.
type Reader struct {
	Background color.Color
}

func NewReader() *Reader {
	return &Reader{Background: color.White}
}

// Read decodes data and returns the signature. Empty input returns
// (nil, nil): no signature was supplied.
func (r *Reader) Read(data []byte) (*domain.Signature, error) {
	if len(data) == 0 {
		return nil, nil
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPNG, err)
	}
	if !r.hasInk(img) {
		return nil, ErrBlank
	}
	b := img.Bounds()
	return &domain.Signature{PNG: data, Width: b.Dx(), Height: b.Dy()}, nil
}

func (r *Reader) hasInk(img image.Image) bool {
	br, bg, bb, _ := r.Background.RGBA()
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			cr, cg, cb, ca := img.At(x, y).RGBA()
			if ca == 0 {
				continue
			}
			if cr != br || cg != bg || cb != bb {
				return true
			}
		}
	}
	return false
}
