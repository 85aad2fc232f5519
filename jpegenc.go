// Package jpegenc implements a baseline JPEG encoder structured around an
// accelerator offload pipeline.
//
// An Encoder owns every buffer and table for one image configuration and
// is reused across images: creation allocates all resources once, each
// Encode call runs the full pipeline (host to device transfer, colour
// preprocessing, per-component forward DCT and quantization, device to
// host coefficient transfer, Huffman coding and bitstream assembly), and
// Close releases everything. The device memory domain is simulated in
// process memory; the transform and preprocessing stages sit behind
// interfaces so an accelerator binding can replace them without touching
// the pipeline.
//
// Basic usage for encoding:
//
//	enc, err := jpegenc.New(1920, 1080, 3, 90)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer enc.Close()
//	out, err := enc.Encode(rgbPixels) // interleaved RGB, 1920*1080*3 bytes
//
// Or, for an image.Image:
//
//	err := jpegenc.Encode(file, img, nil)
package jpegenc

import (
	"image"
	"io"
	"log/slog"
)

// NumComponents is the component count the pipeline supports: one
// luminance and two chrominance planes.
const NumComponents = 3

// DefaultQuality is the default quality encoding parameter.
const DefaultQuality = 75

// Options holds the encoding options.
type Options struct {
	// Quality ranges from 1 to 100 inclusive, higher is better.
	Quality int

	// Logger receives per-stage diagnostics for failed encodes.
	// If nil, diagnostics are discarded.
	Logger *slog.Logger
}

// DefaultOptions returns the default encoding options.
func DefaultOptions() *Options {
	return &Options{Quality: DefaultQuality}
}

// Encode writes the image m to w as a baseline JPEG with the given
// options. Default parameters are used if a nil *Options is passed. The
// image's width and height must be multiples of 8.
func Encode(w io.Writer, m image.Image, o *Options) error {
	if o == nil {
		o = DefaultOptions()
	}
	pix, width, height := interleaveRGB(m)
	enc, err := New(width, height, NumComponents, o.Quality)
	if err != nil {
		return err
	}
	defer enc.Close()
	if o.Logger != nil {
		enc.SetLogger(o.Logger)
	}
	out, err := enc.Encode(pix)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
