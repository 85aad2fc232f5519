package tables

import (
	"fmt"

	"github.com/acceljpeg/go-jpegenc/internal/device"
)

// unscaledQuant are the unscaled quantization tables in zig-zag order,
// derived from section K.1 of ITU-T T.81 after converting from natural
// order. Quality 50 uses them as-is; other qualities scale them.
var unscaledQuant = [NClass][BlockSize]byte{
	// Luminance.
	{
		16, 11, 12, 14, 12, 10, 16, 14,
		13, 14, 18, 17, 16, 19, 24, 40,
		26, 24, 22, 22, 24, 49, 35, 37,
		29, 40, 58, 51, 61, 60, 57, 51,
		56, 55, 64, 72, 92, 78, 64, 68,
		87, 69, 55, 56, 80, 109, 81, 87,
		95, 98, 103, 104, 103, 62, 77, 113,
		121, 112, 100, 120, 92, 101, 103, 99,
	},
	// Chrominance.
	{
		17, 18, 18, 24, 21, 24, 47, 26,
		26, 47, 99, 66, 56, 66, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
		99, 99, 99, 99, 99, 99, 99, 99,
	},
}

// QuantTable returns the quantization table for the given class scaled to
// the given quality, in zig-zag order. Quality is clamped to [1, 100];
// entries stay within [1, 255].
func QuantTable(class Class, quality int) [BlockSize]byte {
	if quality < 1 {
		quality = 1
	} else if quality > 100 {
		quality = 100
	}
	// Convert from a quality rating to a scaling factor.
	var scale int
	if quality < 50 {
		scale = 5000 / quality
	} else {
		scale = 200 - quality*2
	}
	var table [BlockSize]byte
	for i, v := range unscaledQuant[class] {
		x := (int(v)*scale + 50) / 100
		if x < 1 {
			x = 1
		} else if x > 255 {
			x = 255
		}
		table[i] = byte(x)
	}
	return table
}

// InitQuant populates a device-resident quantization table slot for the
// given class and quality. The slot must hold exactly BlockSize entries.
func InitQuant(slot *device.Buffer[uint16], class Class, quality int) error {
	if class < 0 || class >= NClass {
		return fmt.Errorf("tables: invalid component class %d", class)
	}
	if slot.Len() != BlockSize {
		return fmt.Errorf("tables: quantization slot holds %d entries, want %d", slot.Len(), BlockSize)
	}
	table := QuantTable(class, quality)
	host := make([]uint16, BlockSize)
	for i, v := range table {
		host[i] = uint16(v)
	}
	return slot.CopyFromHost(host)
}
