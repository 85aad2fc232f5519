package transform

import (
	"math"

	"github.com/acceljpeg/go-jpegenc/internal/tables"
)

const blockSize = tables.BlockSize

// cosine[x][u] = cos((2x+1) * u * pi / 16), the DCT-II basis evaluated
// once at package init.
var cosine [8][8]float64

// cscale[u] is the DCT normalization factor: 1/sqrt(2) for u = 0, else 1.
var cscale [8]float64

func init() {
	for x := 0; x < 8; x++ {
		for u := 0; u < 8; u++ {
			cosine[x][u] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}
	cscale[0] = 1 / math.Sqrt2
	for u := 1; u < 8; u++ {
		cscale[u] = 1
	}
}

// fdct replaces block, in row-major natural order, with its
// two-dimensional DCT-II. With this normalization a constant block of
// value k transforms to a single DC coefficient of 8k.
func fdct(block *[blockSize]float64) {
	// Rows, then columns; the 2D transform is separable.
	var tmp [blockSize]float64
	for y := 0; y < 8; y++ {
		for u := 0; u < 8; u++ {
			var sum float64
			for x := 0; x < 8; x++ {
				sum += block[y*8+x] * cosine[x][u]
			}
			tmp[y*8+u] = sum
		}
	}
	for u := 0; u < 8; u++ {
		for v := 0; v < 8; v++ {
			var sum float64
			for y := 0; y < 8; y++ {
				sum += tmp[y*8+u] * cosine[y][v]
			}
			block[v*8+u] = 0.25 * cscale[u] * cscale[v] * sum
		}
	}
}

// quantizeZigZag divides the transformed block by the quantization table
// and writes the result in zig-zag order, rounding to nearest.
func quantizeZigZag(block *[blockSize]float64, quant []uint16, out []int16) {
	for zig := 0; zig < blockSize; zig++ {
		out[zig] = int16(math.Round(block[tables.Unzig[zig]] / float64(quant[zig])))
	}
}
