// Package tables provides the quantization and Huffman coding tables used
// by the encoder, initialized per component class and quality setting.
//
// The table values come from Annex K of ITU-T T.81: the example
// quantization matrices of K.1 (scaled by the libjpeg quality rule) and
// the typical Huffman tables of K.3.
package tables

// Class is the table-selection category a component maps to. Luminance
// and chrominance components quantize and entropy-code with different
// tables.
type Class int

const (
	// Luminance is the class of the Y component.
	Luminance Class = iota
	// Chrominance is the class of the Cb and Cr components.
	Chrominance

	// NClass is the number of component classes.
	NClass
)

// String returns the string representation of the class.
func (c Class) String() string {
	switch c {
	case Luminance:
		return "luminance"
	case Chrominance:
		return "chrominance"
	default:
		return "unknown"
	}
}

// ClassFor maps a component index to its class: component 0 carries
// luminance, every other component chrominance. A four-component CMYK
// variant would replace this mapping without touching the pipeline.
func ClassFor(component int) Class {
	if component == 0 {
		return Luminance
	}
	return Chrominance
}

// CoeffType is the category of transform output: the block-average DC
// coefficient or the spatial-frequency AC coefficients. The entropy stage
// codes the two with separate tables.
type CoeffType int

const (
	// DC is the block-average coefficient type.
	DC CoeffType = iota
	// AC is the spatial-frequency coefficient type.
	AC

	// NCoeffType is the number of coefficient types.
	NCoeffType
)

// String returns the string representation of the coefficient type.
func (t CoeffType) String() string {
	switch t {
	case DC:
		return "DC"
	case AC:
		return "AC"
	default:
		return "unknown"
	}
}
