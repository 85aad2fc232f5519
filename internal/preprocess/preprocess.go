// Package preprocess implements the colour preprocessing stage. It
// consumes the interleaved source buffer and produces one transform-ready
// plane per component, entirely within device memory.
package preprocess

import (
	"fmt"

	"github.com/acceljpeg/go-jpegenc/internal/device"
)

// Preprocessor converts the device-resident interleaved source buffer
// into per-component planar output in dst. Both buffers hold
// width*height*components bytes; component i's plane occupies
// dst[i*width*height : (i+1)*width*height].
type Preprocessor interface {
	Run(src, dst *device.Buffer[uint8], width, height, components int) error
}

// RGBToYCbCr is the software preprocessor for three-component input. It
// reads interleaved 8-bit RGB and writes planar YCbCr using the JFIF
// BT.601 conversion in fixed-point arithmetic.
type RGBToYCbCr struct{}

// Run implements Preprocessor.
func (RGBToYCbCr) Run(src, dst *device.Buffer[uint8], width, height, components int) error {
	if components != 3 {
		return fmt.Errorf("preprocess: %d components, want 3", components)
	}
	n := width * height
	if src.Len() != n*components || dst.Len() != n*components {
		return fmt.Errorf("preprocess: buffer sizes %d/%d, want %d", src.Len(), dst.Len(), n*components)
	}

	in := src.Data()
	out := dst.Data()
	yPlane := out[:n]
	cbPlane := out[n : 2*n]
	crPlane := out[2*n : 3*n]

	for i := 0; i < n; i++ {
		r := int32(in[3*i])
		g := int32(in[3*i+1])
		b := int32(in[3*i+2])

		// JFIF fixed-point conversion, 16 fractional bits. The chroma
		// rounding term folds in the +128 offset.
		yy := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
		cb := (-11056*r - 21712*g + 32768*b + 257<<15) >> 16
		cr := (32768*r - 27440*g - 5328*b + 257<<15) >> 16

		yPlane[i] = clamp(yy)
		cbPlane[i] = clamp(cb)
		crPlane[i] = clamp(cr)
	}
	return nil
}

func clamp(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
