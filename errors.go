package jpegenc

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned by New for an unsupported
	// configuration, before any resource is allocated.
	ErrInvalidConfig = errors.New("jpegenc: invalid configuration")

	// ErrClosed is returned for operations on a closed encoder.
	ErrClosed = errors.New("jpegenc: encoder closed")
)

// Stage identifies the pipeline stage a failure occurred in.
type Stage int

const (
	// StageTransfer covers host/device memory copies.
	StageTransfer Stage = iota
	// StagePreprocess is the colour preprocessing stage.
	StagePreprocess
	// StageTransform is the forward transform and quantization stage.
	StageTransform
	// StageWrite covers header and marker emission.
	StageWrite
	// StageEntropy is the Huffman coding stage.
	StageEntropy
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case StageTransfer:
		return "transfer"
	case StagePreprocess:
		return "preprocess"
	case StageTransform:
		return "transform"
	case StageWrite:
		return "write"
	case StageEntropy:
		return "entropy"
	default:
		return "unknown"
	}
}

// StageError reports which pipeline stage an encode failed in.
// Component is the failing component index, or -1 when the stage does not
// operate per component. No compressed output is valid after a
// StageError; the pipeline aborts at the failing step.
type StageError struct {
	Stage     Stage
	Component int
	Err       error
}

// Error implements error.
func (e *StageError) Error() string {
	if e.Component >= 0 {
		return fmt.Sprintf("jpegenc: %s stage failed for component at index %d: %v", e.Stage, e.Component, e.Err)
	}
	return fmt.Sprintf("jpegenc: %s stage failed: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StageError) Unwrap() error { return e.Err }
