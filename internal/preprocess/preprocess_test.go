package preprocess

import (
	"image/color"
	"testing"

	"github.com/acceljpeg/go-jpegenc/internal/device"
)

func alloc(t *testing.T, d *device.Device, n int) *device.Buffer[uint8] {
	t.Helper()
	b, err := device.Alloc[uint8](d, n)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestMatchesStandardConversion(t *testing.T) {
	colors := []struct{ r, g, b uint8 }{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{128, 128, 128},
		{90, 160, 210},
		{17, 253, 2},
	}

	d := device.New()
	n := len(colors)
	// One row per colour keeps the plane a single pixel wide per entry.
	src := alloc(t, d, n*3)
	dst := alloc(t, d, n*3)

	host := make([]uint8, n*3)
	for i, c := range colors {
		host[3*i] = c.r
		host[3*i+1] = c.g
		host[3*i+2] = c.b
	}
	if err := src.CopyFromHost(host); err != nil {
		t.Fatal(err)
	}

	var p RGBToYCbCr
	if err := p.Run(src, dst, n, 1, 3); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	out := dst.Data()
	for i, c := range colors {
		wantY, wantCb, wantCr := color.RGBToYCbCr(c.r, c.g, c.b)
		if out[i] != wantY || out[n+i] != wantCb || out[2*n+i] != wantCr {
			t.Errorf("rgb(%d,%d,%d) -> (%d,%d,%d), want (%d,%d,%d)",
				c.r, c.g, c.b, out[i], out[n+i], out[2*n+i], wantY, wantCb, wantCr)
		}
	}
}

func TestPlanarLayout(t *testing.T) {
	d := device.New()
	const w, h = 8, 8
	src := alloc(t, d, w*h*3)
	dst := alloc(t, d, w*h*3)

	// Constant colour: every plane must be constant too.
	host := make([]uint8, w*h*3)
	for i := 0; i < w*h; i++ {
		host[3*i] = 200
		host[3*i+1] = 30
		host[3*i+2] = 90
	}
	if err := src.CopyFromHost(host); err != nil {
		t.Fatal(err)
	}

	var p RGBToYCbCr
	if err := p.Run(src, dst, w, h, 3); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	wantY, wantCb, wantCr := color.RGBToYCbCr(200, 30, 90)
	want := [3]uint8{wantY, wantCb, wantCr}
	out := dst.Data()
	for comp := 0; comp < 3; comp++ {
		plane := out[comp*w*h : (comp+1)*w*h]
		for i, v := range plane {
			if v != want[comp] {
				t.Fatalf("component %d sample %d = %d, want %d", comp, i, v, want[comp])
			}
		}
	}
}

func TestValidation(t *testing.T) {
	d := device.New()
	src := alloc(t, d, 8*8*3)
	dst := alloc(t, d, 8*8*3)

	var p RGBToYCbCr
	if err := p.Run(src, dst, 8, 8, 4); err == nil {
		t.Error("accepted 4 components")
	}
	if err := p.Run(src, dst, 16, 16, 3); err == nil {
		t.Error("accepted undersized buffers")
	}
}
