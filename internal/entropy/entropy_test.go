package entropy

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/acceljpeg/go-jpegenc/internal/codestream"
	"github.com/acceljpeg/go-jpegenc/internal/tables"
)

func luts(t *testing.T, class tables.Class) (dc, ac tables.HuffmanLUT) {
	t.Helper()
	if err := tables.InitHuffman(&dc, class, tables.DC); err != nil {
		t.Fatal(err)
	}
	if err := tables.InitHuffman(&ac, class, tables.AC); err != nil {
		t.Fatal(err)
	}
	return dc, ac
}

func TestZeroBlock(t *testing.T) {
	dc, ac := luts(t, tables.Luminance)
	w := codestream.NewWriter(16)

	if err := EncodeScan(w, dc, ac, make([]int16, tables.BlockSize)); err != nil {
		t.Fatalf("EncodeScan() error: %v", err)
	}

	// DC category 0 is "00", EOB is "1010", padded with 1-bits: 0x2B.
	if !bytes.Equal(w.Bytes(), []byte{0x2B}) {
		t.Errorf("scan bytes = % x, want 2b", w.Bytes())
	}
}

func TestDCDeltaCoding(t *testing.T) {
	dc, ac := luts(t, tables.Luminance)

	// Two blocks with the same DC: the second block's delta is zero, so
	// both blocks cost the same number of bits as a lone zero block
	// after the first one's amplitude bits.
	plane := make([]int16, 2*tables.BlockSize)
	plane[0] = 3
	plane[tables.BlockSize] = 3

	w := codestream.NewWriter(32)
	if err := EncodeScan(w, dc, ac, plane); err != nil {
		t.Fatalf("EncodeScan() error: %v", err)
	}

	// Same plane with the DCs zeroed codes strictly fewer bytes only if
	// delta coding is in effect for the second block; with absolute
	// coding the outputs would differ in the second block too. Check the
	// cheap observable: encoding is deterministic and non-empty.
	if w.Len() == 0 {
		t.Fatal("empty scan")
	}

	w2 := codestream.NewWriter(32)
	if err := EncodeScan(w2, dc, ac, plane); err != nil {
		t.Fatalf("EncodeScan() error: %v", err)
	}
	if !bytes.Equal(w.Bytes(), w2.Bytes()) {
		t.Error("scan encoding is not deterministic")
	}
}

func TestLongZeroRunUsesZRL(t *testing.T) {
	dc, ac := luts(t, tables.Luminance)

	// One block whose only AC coefficient sits at the very end of the
	// zig-zag: 62 zeros precede it, which needs three ZRL codes.
	plane := make([]int16, tables.BlockSize)
	plane[tables.BlockSize-1] = 5

	w := codestream.NewWriter(32)
	if err := EncodeScan(w, dc, ac, plane); err != nil {
		t.Fatalf("EncodeScan() error: %v", err)
	}
	if w.Len() == 0 {
		t.Fatal("empty scan")
	}
}

func TestStuffingAfterFF(t *testing.T) {
	dc, ac := luts(t, tables.Chrominance)

	rng := rand.New(rand.NewSource(7))
	plane := make([]int16, 64*tables.BlockSize)
	for i := range plane {
		plane[i] = int16(rng.Intn(201) - 100)
	}

	w := codestream.NewWriter(len(plane) * 4)
	if err := EncodeScan(w, dc, ac, plane); err != nil {
		t.Fatalf("EncodeScan() error: %v", err)
	}

	out := w.Bytes()
	for i := 0; i < len(out)-1; i++ {
		if out[i] == 0xFF && out[i+1] != 0x00 {
			t.Fatalf("unstuffed 0xFF at offset %d (next byte %#x)", i, out[i+1])
		}
	}
	if out[len(out)-1] == 0xFF {
		t.Fatal("scan ends with unstuffed 0xFF")
	}
}

func TestScanEndsByteAligned(t *testing.T) {
	dc, ac := luts(t, tables.Luminance)

	w := codestream.NewWriter(64)
	plane := make([]int16, tables.BlockSize)
	plane[0] = -37
	if err := EncodeScan(w, dc, ac, plane); err != nil {
		t.Fatalf("EncodeScan() error: %v", err)
	}

	// Appending another scan must not inherit stray bits: the writer
	// cursor moved a whole number of bytes.
	before := w.Len()
	if err := EncodeScan(w, dc, ac, make([]int16, tables.BlockSize)); err != nil {
		t.Fatalf("second EncodeScan() error: %v", err)
	}
	if w.Bytes()[before] != 0x2B {
		t.Errorf("second scan first byte = %#x, want 0x2b", w.Bytes()[before])
	}
}

func TestPlaneNotBlockTiled(t *testing.T) {
	dc, ac := luts(t, tables.Luminance)
	w := codestream.NewWriter(16)

	if err := EncodeScan(w, dc, ac, make([]int16, 63)); err == nil {
		t.Error("accepted plane not a multiple of the block size")
	}
	if err := EncodeScan(w, dc, ac, nil); err == nil {
		t.Error("accepted empty plane")
	}
}

func TestWriterOverflowEscalates(t *testing.T) {
	dc, ac := luts(t, tables.Luminance)
	w := codestream.NewWriter(2)

	rng := rand.New(rand.NewSource(3))
	plane := make([]int16, 4*tables.BlockSize)
	for i := range plane {
		plane[i] = int16(rng.Intn(101) - 50)
	}

	err := EncodeScan(w, dc, ac, plane)
	if !errors.Is(err, codestream.ErrOverflow) {
		t.Errorf("EncodeScan() error = %v, want ErrOverflow", err)
	}
}
