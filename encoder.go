package jpegenc

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/acceljpeg/go-jpegenc/internal/codestream"
	"github.com/acceljpeg/go-jpegenc/internal/device"
	"github.com/acceljpeg/go-jpegenc/internal/entropy"
	"github.com/acceljpeg/go-jpegenc/internal/preprocess"
	"github.com/acceljpeg/go-jpegenc/internal/tables"
	"github.com/acceljpeg/go-jpegenc/internal/transform"
)

// headroom is the writer capacity reserved beyond the coefficient data
// for headers, markers and worst-case Huffman expansion.
const headroom = 1024

// Encoder is the encoding context for one image configuration. It owns
// the device-resident source and working buffers, the staged coefficient
// buffer, the per-class quantization and Huffman tables, and the output
// writer. Width, height and quality are fixed at creation; encoding a
// different configuration requires a new Encoder.
//
// An Encoder is not safe for concurrent use: callers must serialize
// Encode calls on one instance. Independent Encoders share no state and
// may run concurrently.
type Encoder struct {
	width      int
	height     int
	components int
	quality    int

	dev    *device.Device
	src    *device.Buffer[uint8]  // interleaved source pixels
	work   *device.Buffer[uint8]  // planar transform-ready planes
	coeffs *device.Staged[int16]  // quantized coefficients, host+device
	quant  [tables.NClass]*device.Buffer[uint16]

	hostQuant [tables.NClass][tables.BlockSize]byte
	huff      [tables.NClass][tables.NCoeffType]tables.HuffmanLUT

	writer    *codestream.Writer
	transform transform.Transform
	pre       preprocess.Preprocessor
	log       *slog.Logger

	closed bool
}

// New creates an encoder for the given configuration. components must be
// 3 and width and height positive multiples of 8; quality is clamped to
// [1, 100]. All resources are allocated here. If any allocation or table
// initialization fails, everything already acquired is released and the
// error is returned; a failed New never leaks and never returns a usable
// encoder.
func New(width, height, components, quality int) (*Encoder, error) {
	return newEncoder(device.New(), transform.Software{}, preprocess.RGBToYCbCr{},
		width, height, components, quality)
}

func newEncoder(dev *device.Device, tr transform.Transform, pre preprocess.Preprocessor,
	width, height, components, quality int) (*Encoder, error) {

	if components != NumComponents {
		return nil, fmt.Errorf("%w: component count %d, want %d", ErrInvalidConfig, components, NumComponents)
	}
	if width <= 0 || height <= 0 || width%8 != 0 || height%8 != 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d must be positive multiples of 8", ErrInvalidConfig, width, height)
	}
	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}

	e := &Encoder{
		width:      width,
		height:     height,
		components: components,
		quality:    quality,
		dev:        dev,
		transform:  tr,
		pre:        pre,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	ok := false
	defer func() {
		if !ok {
			e.release()
		}
	}()

	n := width * height * components
	var err error
	if e.src, err = device.Alloc[uint8](dev, n); err != nil {
		return nil, fmt.Errorf("jpegenc: allocating source buffer: %w", err)
	}
	if e.work, err = device.Alloc[uint8](dev, n); err != nil {
		return nil, fmt.Errorf("jpegenc: allocating working buffer: %w", err)
	}
	if e.coeffs, err = device.AllocStaged[int16](dev, n); err != nil {
		return nil, fmt.Errorf("jpegenc: allocating coefficient buffer: %w", err)
	}
	for class := tables.Class(0); class < tables.NClass; class++ {
		if e.quant[class], err = device.Alloc[uint16](dev, tables.BlockSize); err != nil {
			return nil, fmt.Errorf("jpegenc: allocating %s quantization table: %w", class, err)
		}
	}
	for class := tables.Class(0); class < tables.NClass; class++ {
		if err := tables.InitQuant(e.quant[class], class, quality); err != nil {
			return nil, fmt.Errorf("jpegenc: initializing %s quantization table: %w", class, err)
		}
		e.hostQuant[class] = tables.QuantTable(class, quality)
	}
	for class := tables.Class(0); class < tables.NClass; class++ {
		for t := tables.CoeffType(0); t < tables.NCoeffType; t++ {
			if err := tables.InitHuffman(&e.huff[class][t], class, t); err != nil {
				return nil, fmt.Errorf("jpegenc: initializing %s %s table: %w", class, t, err)
			}
		}
	}
	e.writer = codestream.NewWriter(4*n + headroom)

	ok = true
	return e, nil
}

// SetLogger directs per-stage diagnostics to l. A nil l discards them.
func (e *Encoder) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.log = l
}

// Encode compresses one image. src must hold exactly
// width*height*components bytes of interleaved RGB. On success the
// returned slice is the compressed codestream; it aliases the encoder's
// output buffer and is valid until the next Encode or Close. On failure
// no output is valid and the returned error identifies the failing stage
// and, where applicable, the failing component.
//
// Encode may be called repeatedly with different images; no state leaks
// between calls. Buffer contents left by a failed call are overwritten,
// never trusted, by the next call.
func (e *Encoder) Encode(src []byte) ([]byte, error) {
	if e.closed {
		return nil, ErrClosed
	}
	n := e.width * e.height * e.components
	if len(src) != n {
		return nil, e.stageErr(StageTransfer, -1,
			fmt.Errorf("source buffer holds %d bytes, want %d", len(src), n))
	}

	// Copy image to device memory.
	if err := e.src.CopyFromHost(src); err != nil {
		return nil, e.stageErr(StageTransfer, -1, err)
	}

	// Colour preprocessing: interleaved source to planar working buffer.
	if err := e.pre.Run(e.src, e.work, e.width, e.height, e.components); err != nil {
		return nil, e.stageErr(StagePreprocess, -1, err)
	}

	// Forward DCT and quantization per component plane.
	planeSize := e.width * e.height
	for c := 0; c < e.components; c++ {
		class := tables.ClassFor(c)
		srcPlane := e.work.Region(c*planeSize, planeSize)
		dstPlane := e.coeffs.Device().Region(c*planeSize, planeSize)
		err := e.transform.ForwardQuantize(srcPlane, e.width, dstPlane, 8*e.width,
			e.quant[class], e.width, e.height)
		if err != nil {
			return nil, e.stageErr(StageTransform, c, err)
		}
	}

	// Rewind the output cursor and emit the frame header.
	e.writer.Reset()
	err := codestream.WriteHeader(e.writer, codestream.FrameParams{
		Width:      e.width,
		Height:     e.height,
		Components: e.components,
		Quant:      e.hostQuant,
	})
	if err != nil {
		return nil, e.stageErr(StageWrite, -1, err)
	}

	// One bulk transfer of all transform results to host memory. Every
	// component's transform must have completed by this point; a partial
	// copy would hand stale coefficients to the entropy stage.
	if err := e.coeffs.SyncToHost(); err != nil {
		return nil, e.stageErr(StageTransfer, -1, err)
	}

	// Huffman-code each component as its own scan.
	for c := 0; c < e.components; c++ {
		class := tables.ClassFor(c)
		if err := codestream.WriteScanHeader(e.writer, c, class); err != nil {
			return nil, e.stageErr(StageWrite, c, err)
		}
		plane := e.coeffs.Host[c*planeSize : (c+1)*planeSize]
		if err := entropy.EncodeScan(e.writer, e.huff[class][tables.DC], e.huff[class][tables.AC], plane); err != nil {
			return nil, e.stageErr(StageEntropy, c, err)
		}
	}

	if err := e.writer.EmitMarker(codestream.EOI); err != nil {
		return nil, e.stageErr(StageWrite, -1, err)
	}
	return e.writer.Bytes(), nil
}

// Close releases every owned resource. It must be called exactly once on
// a successfully created encoder; a second call returns ErrClosed.
func (e *Encoder) Close() error {
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	return e.release()
}

// release frees whatever has been allocated so far. It serves both Close
// and the rollback path of a failed New, so every field is checked.
func (e *Encoder) release() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	for class := range e.quant {
		if e.quant[class] != nil {
			keep(e.quant[class].Free())
		}
	}
	if e.coeffs != nil {
		keep(e.coeffs.Free())
	}
	if e.work != nil {
		keep(e.work.Free())
	}
	if e.src != nil {
		keep(e.src.Free())
	}
	keep(e.dev.Close())
	return first
}

func (e *Encoder) stageErr(stage Stage, component int, err error) error {
	if component >= 0 {
		e.log.Error("encode stage failed", "stage", stage.String(), "component", component, "err", err)
	} else {
		e.log.Error("encode stage failed", "stage", stage.String(), "err", err)
	}
	return &StageError{Stage: stage, Component: component, Err: err}
}
