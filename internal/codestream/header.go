package codestream

import (
	"fmt"

	"github.com/acceljpeg/go-jpegenc/internal/tables"
)

// FrameParams carries everything the frame header depends on: the image
// geometry and the tables announced to the decoder. Quant holds the
// scaled quantization table per component class, in zig-zag order, and
// must match the tables the transform stage quantized with.
type FrameParams struct {
	Width      int
	Height     int
	Components int
	Quant      [tables.NClass][tables.BlockSize]byte
}

// WriteHeader emits the file and frame header: SOI, the JFIF APP0
// segment, the quantization tables, the baseline frame header, and the
// four Huffman table definitions. Scans follow via WriteScanHeader.
func WriteHeader(w *Writer, p FrameParams) error {
	if p.Width <= 0 || p.Width >= 1<<16 || p.Height <= 0 || p.Height >= 1<<16 {
		return fmt.Errorf("codestream: frame size %dx%d out of range", p.Width, p.Height)
	}
	if err := w.EmitMarker(SOI); err != nil {
		return err
	}
	if err := writeAPP0(w); err != nil {
		return err
	}
	if err := writeDQT(w, p); err != nil {
		return err
	}
	if err := writeSOF0(w, p); err != nil {
		return err
	}
	return writeDHT(w)
}

// writeAPP0 emits the JFIF identification segment: version 1.1, no
// density units, no thumbnail.
func writeAPP0(w *Writer) error {
	return w.writeSegment(APP0, []byte{
		'J', 'F', 'I', 'F', 0x00,
		0x01, 0x01, // version
		0x00,       // aspect ratio units
		0x00, 0x01, // horizontal density
		0x00, 0x01, // vertical density
		0x00, 0x00, // no thumbnail
	})
}

// writeDQT emits both quantization tables in one segment, zig-zag order,
// 8-bit precision.
func writeDQT(w *Writer, p FrameParams) error {
	payload := make([]byte, 0, int(tables.NClass)*(1+tables.BlockSize))
	for class := tables.Class(0); class < tables.NClass; class++ {
		payload = append(payload, byte(class))
		payload = append(payload, p.Quant[class][:]...)
	}
	return w.writeSegment(DQT, payload)
}

// writeSOF0 emits the baseline sequential frame header. Components are
// not subsampled; each scan carries one full-resolution plane.
func writeSOF0(w *Writer, p FrameParams) error {
	payload := make([]byte, 6+3*p.Components)
	payload[0] = 8 // sample precision
	payload[1] = byte(p.Height >> 8)
	payload[2] = byte(p.Height)
	payload[3] = byte(p.Width >> 8)
	payload[4] = byte(p.Width)
	payload[5] = byte(p.Components)
	for c := 0; c < p.Components; c++ {
		payload[6+3*c] = byte(c + 1)              // component id
		payload[7+3*c] = 0x11                     // 1x1 sampling
		payload[8+3*c] = byte(tables.ClassFor(c)) // quantization table
	}
	return w.writeSegment(SOF0, payload)
}

// writeDHT emits the four Huffman table definitions in one segment. The
// destination byte packs coefficient type (high nibble) and class (low
// nibble), matching the table selectors in the scan headers.
func writeDHT(w *Writer) error {
	var payload []byte
	for class := tables.Class(0); class < tables.NClass; class++ {
		for t := tables.CoeffType(0); t < tables.NCoeffType; t++ {
			s := tables.HuffmanSpecFor(class, t)
			payload = append(payload, byte(t)<<4|byte(class))
			payload = append(payload, s.Count[:]...)
			payload = append(payload, s.Value...)
		}
	}
	return w.writeSegment(DHT, payload)
}

// WriteScanHeader emits the SOS header for a single-component scan. The
// component's DC and AC table selectors both follow its class, and the
// spectral selection covers the full coefficient range as baseline
// encoding requires.
func WriteScanHeader(w *Writer, component int, class tables.Class) error {
	return w.writeSegment(SOS, []byte{
		1,                            // components in scan
		byte(component + 1),          // component id
		byte(class)<<4 | byte(class), // DC and AC table selectors
		0x00, 0x3F, 0x00,             // Ss, Se, AhAl
	})
}
