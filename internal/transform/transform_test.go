package transform

import (
	"math"
	"math/rand"
	"testing"

	"github.com/acceljpeg/go-jpegenc/internal/device"
	"github.com/acceljpeg/go-jpegenc/internal/tables"
)

// buildPlane allocates a width x height sample plane, a matching
// coefficient plane and a flat quantization table on a fresh device.
func buildPlane(t *testing.T, width, height int, fill func(x, y int) uint8, quant uint16) (*device.Buffer[uint8], *device.Buffer[int16], *device.Buffer[uint16]) {
	t.Helper()
	d := device.New()

	src, err := device.Alloc[uint8](d, width*height)
	if err != nil {
		t.Fatal(err)
	}
	host := make([]uint8, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			host[y*width+x] = fill(x, y)
		}
	}
	if err := src.CopyFromHost(host); err != nil {
		t.Fatal(err)
	}

	dst, err := device.Alloc[int16](d, width*height)
	if err != nil {
		t.Fatal(err)
	}

	q, err := device.Alloc[uint16](d, tables.BlockSize)
	if err != nil {
		t.Fatal(err)
	}
	qHost := make([]uint16, tables.BlockSize)
	for i := range qHost {
		qHost[i] = quant
	}
	if err := q.CopyFromHost(qHost); err != nil {
		t.Fatal(err)
	}
	return src, dst, q
}

func TestConstantBlockIsDCOnly(t *testing.T) {
	src, dst, q := buildPlane(t, 8, 8, func(x, y int) uint8 { return 200 }, 1)

	var tr Software
	if err := tr.ForwardQuantize(src, 8, dst, 64, q, 8, 8); err != nil {
		t.Fatalf("ForwardQuantize() error: %v", err)
	}

	out := dst.Data()
	// A constant block of value k transforms to a lone DC of 8(k-128).
	if want := int16(8 * (200 - 128)); out[0] != want {
		t.Errorf("DC = %d, want %d", out[0], want)
	}
	for zig := 1; zig < tables.BlockSize; zig++ {
		if out[zig] != 0 {
			t.Errorf("AC at zig-zag %d = %d, want 0", zig, out[zig])
		}
	}
}

func TestMidGrayQuantizesToZero(t *testing.T) {
	src, dst, q := buildPlane(t, 8, 8, func(x, y int) uint8 { return 128 }, 1)

	var tr Software
	if err := tr.ForwardQuantize(src, 8, dst, 64, q, 8, 8); err != nil {
		t.Fatalf("ForwardQuantize() error: %v", err)
	}
	for zig, v := range dst.Data() {
		if v != 0 {
			t.Errorf("coefficient at zig-zag %d = %d, want 0", zig, v)
		}
	}
}

func TestQuantizationDividesDC(t *testing.T) {
	src, dst, q := buildPlane(t, 8, 8, func(x, y int) uint8 { return 200 }, 16)

	var tr Software
	if err := tr.ForwardQuantize(src, 8, dst, 64, q, 8, 8); err != nil {
		t.Fatalf("ForwardQuantize() error: %v", err)
	}
	if want := int16(36); dst.Data()[0] != want { // 576/16
		t.Errorf("DC = %d, want %d", dst.Data()[0], want)
	}
}

func TestBlockTiledLayout(t *testing.T) {
	// Four distinguishable constant blocks in a 16x16 plane.
	values := [2][2]uint8{{130, 140}, {150, 160}}
	src, dst, q := buildPlane(t, 16, 16, func(x, y int) uint8 {
		return values[y/8][x/8]
	}, 1)

	var tr Software
	if err := tr.ForwardQuantize(src, 16, dst, 128, q, 16, 16); err != nil {
		t.Fatalf("ForwardQuantize() error: %v", err)
	}

	out := dst.Data()
	for by := 0; by < 2; by++ {
		for bx := 0; bx < 2; bx++ {
			block := out[by*128+bx*64:]
			want := int16(8 * (int(values[by][bx]) - 128))
			if block[0] != want {
				t.Errorf("block (%d,%d) DC = %d, want %d", bx, by, block[0], want)
			}
			for zig := 1; zig < tables.BlockSize; zig++ {
				if block[zig] != 0 {
					t.Errorf("block (%d,%d) AC at %d = %d, want 0", bx, by, zig, block[zig])
					break
				}
			}
		}
	}
}

// referenceDCT computes one block directly from the DCT-II definition.
func referenceDCT(samples []uint8, stride int) [tables.BlockSize]float64 {
	var out [tables.BlockSize]float64
	c := func(u int) float64 {
		if u == 0 {
			return 1 / math.Sqrt2
		}
		return 1
	}
	for v := 0; v < 8; v++ {
		for u := 0; u < 8; u++ {
			var sum float64
			for y := 0; y < 8; y++ {
				for x := 0; x < 8; x++ {
					s := float64(samples[y*stride+x]) - 128
					sum += s *
						math.Cos(float64(2*x+1)*float64(u)*math.Pi/16) *
						math.Cos(float64(2*y+1)*float64(v)*math.Pi/16)
				}
			}
			out[v*8+u] = 0.25 * c(u) * c(v) * sum
		}
	}
	return out
}

func TestAgainstReferenceDCT(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	host := make([]uint8, 64)
	for i := range host {
		host[i] = uint8(rng.Intn(256))
	}

	src, dst, q := buildPlane(t, 8, 8, func(x, y int) uint8 { return host[y*8+x] }, 1)

	var tr Software
	if err := tr.ForwardQuantize(src, 8, dst, 64, q, 8, 8); err != nil {
		t.Fatalf("ForwardQuantize() error: %v", err)
	}

	want := referenceDCT(host, 8)
	for zig := 0; zig < tables.BlockSize; zig++ {
		ref := int16(math.Round(want[tables.Unzig[zig]]))
		got := dst.Data()[zig]
		if diff := int(got) - int(ref); diff < -1 || diff > 1 {
			t.Errorf("zig-zag %d = %d, reference %d", zig, got, ref)
		}
	}
}

func TestForwardQuantizeValidation(t *testing.T) {
	src, dst, q := buildPlane(t, 8, 8, func(x, y int) uint8 { return 0 }, 1)
	var tr Software

	if err := tr.ForwardQuantize(src, 8, dst, 64, q, 12, 8); err == nil {
		t.Error("accepted width not a multiple of 8")
	}
	if err := tr.ForwardQuantize(src, 8, dst, 64, q, 16, 16); err == nil {
		t.Error("accepted source plane smaller than region")
	}
	if err := tr.ForwardQuantize(src, 8, dst.Region(0, 32), 64, q, 8, 8); err == nil {
		t.Error("accepted output plane smaller than region")
	}
	if err := tr.ForwardQuantize(src, 8, dst, 64, q.Region(0, 32), 8, 8); err == nil {
		t.Error("accepted short quantization table")
	}
}
