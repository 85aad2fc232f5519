// Package codestream handles JPEG codestream generation: the output
// buffer with its write cursor, marker emission, and the frame and scan
// headers.
package codestream

// Marker codes for JPEG codestreams. These are defined in ITU-T T.81
// Annex B; the value is the byte following the 0xFF prefix.
const (
	// Delimiting markers
	SOI Marker = 0xD8 // Start of image
	EOI Marker = 0xD9 // End of image
	SOS Marker = 0xDA // Start of scan

	// Frame markers
	SOF0 Marker = 0xC0 // Baseline sequential DCT
	SOF1 Marker = 0xC1 // Extended sequential DCT
	SOF2 Marker = 0xC2 // Progressive DCT

	// Table and parameter markers
	DHT Marker = 0xC4 // Define Huffman tables
	DQT Marker = 0xDB // Define quantization tables
	DRI Marker = 0xDD // Define restart interval

	// Application and comment markers
	APP0  Marker = 0xE0 // JFIF application segment
	APP14 Marker = 0xEE // Adobe application segment
	COM   Marker = 0xFE // Comment
)

// Marker represents a JPEG marker code.
type Marker uint8

// String returns the string representation of a marker.
func (m Marker) String() string {
	switch m {
	case SOI:
		return "SOI"
	case EOI:
		return "EOI"
	case SOS:
		return "SOS"
	case SOF0:
		return "SOF0"
	case SOF1:
		return "SOF1"
	case SOF2:
		return "SOF2"
	case DHT:
		return "DHT"
	case DQT:
		return "DQT"
	case DRI:
		return "DRI"
	case APP0:
		return "APP0"
	case APP14:
		return "APP14"
	case COM:
		return "COM"
	default:
		return "UNKNOWN"
	}
}

// HasSegment returns true if the marker is followed by a length-prefixed
// segment.
func (m Marker) HasSegment() bool {
	switch m {
	case SOI, EOI:
		return false
	default:
		return true
	}
}
