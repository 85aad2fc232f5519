// Package transform implements the forward transform and quantization
// stage: one component plane of 8-bit samples in, one plane of quantized
// 16-bit coefficients out, both resident in device memory.
//
// The stage is polymorphic so the pipeline never depends on a specific
// execution backend. Software is the reference implementation; an
// accelerator binding would satisfy the same interface on top of its
// vendor kernel.
package transform

import (
	"fmt"

	"github.com/acceljpeg/go-jpegenc/internal/device"
)

// Transform performs the forward block transform and quantization for one
// component plane.
//
// src holds width*height samples with srcStride samples per row. dst
// receives the coefficients block-tiled: the 8x8 block at block
// coordinates (bx, by) occupies dst[by*dstStride+bx*64 : +64] in zig-zag
// order, so dstStride is 8*width for a fully packed plane. quant is the
// 64-entry device-resident quantization table in zig-zag order. Any error
// is total stage failure; partial output must not be trusted.
type Transform interface {
	ForwardQuantize(src *device.Buffer[uint8], srcStride int,
		dst *device.Buffer[int16], dstStride int,
		quant *device.Buffer[uint16], width, height int) error
}

// Software is the reference transform implementation. It runs the
// two-dimensional DCT-II per 8x8 block with the standard JPEG level shift
// and divides each coefficient by its quantization table entry, rounding
// to nearest.
type Software struct{}

// ForwardQuantize implements Transform.
func (Software) ForwardQuantize(src *device.Buffer[uint8], srcStride int,
	dst *device.Buffer[int16], dstStride int,
	quant *device.Buffer[uint16], width, height int) error {

	if width <= 0 || height <= 0 || width%8 != 0 || height%8 != 0 {
		return fmt.Errorf("transform: plane %dx%d is not 8x8 tiled", width, height)
	}
	if src.Len() < (height-1)*srcStride+width {
		return fmt.Errorf("transform: source plane too small: %d samples for %dx%d stride %d",
			src.Len(), width, height, srcStride)
	}
	if dst.Len() < width*height {
		return fmt.Errorf("transform: output plane too small: %d coefficients for %dx%d",
			dst.Len(), width, height)
	}
	if quant.Len() != blockSize {
		return fmt.Errorf("transform: quantization table holds %d entries, want %d", quant.Len(), blockSize)
	}

	s := src.Data()
	d := dst.Data()
	q := quant.Data()

	var block [blockSize]float64
	for by := 0; by < height/8; by++ {
		for bx := 0; bx < width/8; bx++ {
			for y := 0; y < 8; y++ {
				row := (by*8+y)*srcStride + bx*8
				for x := 0; x < 8; x++ {
					// Level shift to a signed range before the transform.
					block[y*8+x] = float64(s[row+x]) - 128
				}
			}
			fdct(&block)
			out := d[by*dstStride+bx*blockSize:]
			quantizeZigZag(&block, q, out[:blockSize])
		}
	}
	return nil
}
