// Package entropy implements the baseline Huffman coding stage. It
// consumes one component's quantized coefficient plane from host memory
// and appends the compressed scan data to the bitstream writer.
package entropy

import (
	"fmt"

	"github.com/acceljpeg/go-jpegenc/internal/codestream"
	"github.com/acceljpeg/go-jpegenc/internal/tables"
)

// bitCount counts the number of bits needed to hold an integer.
var bitCount = [256]byte{
	0, 1, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 4, 4, 4, 4,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
	6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
	6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
	8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8, 8,
}

// scanEncoder accumulates bits for one scan. Writes after the first
// failure become no-ops and the error is reported once at the end.
type scanEncoder struct {
	w      *codestream.Writer
	dc, ac tables.HuffmanLUT
	err    error

	// bits and nBits are accumulated bits not yet written out.
	bits, nBits uint32
}

// EncodeScan Huffman-codes one coefficient plane and appends the scan
// data to w. The plane is block-tiled: consecutive runs of 64
// coefficients, each one 8x8 block in zig-zag order. The DC predictor
// starts at zero, as it must at the head of every scan, and the final
// partial byte is padded with 1-bits.
func EncodeScan(w *codestream.Writer, dc, ac tables.HuffmanLUT, coeffs []int16) error {
	if len(coeffs) == 0 || len(coeffs)%tables.BlockSize != 0 {
		return fmt.Errorf("entropy: plane of %d coefficients is not block-tiled", len(coeffs))
	}
	e := &scanEncoder{w: w, dc: dc, ac: ac}
	prevDC := int32(0)
	for off := 0; off < len(coeffs); off += tables.BlockSize {
		prevDC = e.encodeBlock(coeffs[off:off+tables.BlockSize], prevDC)
	}
	e.flush()
	return e.err
}

// encodeBlock codes one zig-zag block, returning its DC value for the
// next block's delta.
func (e *scanEncoder) encodeBlock(block []int16, prevDC int32) int32 {
	dc := int32(block[0])
	e.emitCoded(e.dc, 0, dc-prevDC)

	runLength := int32(0)
	for zig := 1; zig < tables.BlockSize; zig++ {
		v := int32(block[zig])
		if v == 0 {
			runLength++
			continue
		}
		for runLength > 15 {
			e.emitCode(e.ac, 0xF0) // ZRL
			runLength -= 16
		}
		e.emitCoded(e.ac, runLength, v)
		runLength = 0
	}
	if runLength > 0 {
		e.emitCode(e.ac, 0x00) // EOB
	}
	return dc
}

// emitCoded emits the run/size codeword for value followed by its
// amplitude bits.
func (e *scanEncoder) emitCoded(lut tables.HuffmanLUT, runLength, value int32) {
	a, b := value, value
	if a < 0 {
		a, b = -value, value-1
	}
	var nBits uint32
	if a < 0x100 {
		nBits = uint32(bitCount[a])
	} else {
		nBits = 8 + uint32(bitCount[a>>8])
	}
	e.emitCode(lut, runLength<<4|int32(nBits))
	if nBits > 0 {
		e.emit(uint32(b)&(1<<nBits-1), nBits)
	}
}

// emitCode emits the Huffman codeword for value.
func (e *scanEncoder) emitCode(lut tables.HuffmanLUT, value int32) {
	bits, nBits := lut.Code(value)
	e.emit(bits, nBits)
}

// emit appends the least significant nBits bits of bits to the
// bit-stream, stuffing a zero byte after every emitted 0xFF.
// The precondition is bits < 1<<nBits && nBits <= 16.
func (e *scanEncoder) emit(bits, nBits uint32) {
	if e.err != nil {
		return
	}
	nBits += e.nBits
	bits <<= 32 - nBits
	bits |= e.bits
	for nBits >= 8 {
		b := uint8(bits >> 24)
		e.writeByte(b)
		if b == 0xFF {
			e.writeByte(0x00)
		}
		bits <<= 8
		nBits -= 8
	}
	e.bits, e.nBits = bits, nBits
}

// flush pads the trailing partial byte with 1-bits so the scan ends on a
// byte boundary.
func (e *scanEncoder) flush() {
	if e.nBits > 0 {
		e.emit(0x7F, 7)
	}
	e.bits, e.nBits = 0, 0
}

func (e *scanEncoder) writeByte(b byte) {
	if e.err != nil {
		return
	}
	e.err = e.w.WriteByte(b)
}
