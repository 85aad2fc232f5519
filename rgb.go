package jpegenc

import (
	"image"
	"image/color"
)

// interleaveRGB extracts pixel data from the source image into the
// interleaved RGB layout the pipeline's source buffer expects.
func interleaveRGB(m image.Image) (pix []byte, width, height int) {
	bounds := m.Bounds()
	width = bounds.Dx()
	height = bounds.Dy()
	pix = make([]byte, width*height*NumComponents)

	switch img := m.(type) {
	case *image.RGBA:
		for y := 0; y < height; y++ {
			row := img.Pix[(y+bounds.Min.Y-img.Rect.Min.Y)*img.Stride+(bounds.Min.X-img.Rect.Min.X)*4:]
			for x := 0; x < width; x++ {
				i := (y*width + x) * 3
				pix[i] = row[x*4]
				pix[i+1] = row[x*4+1]
				pix[i+2] = row[x*4+2]
			}
		}

	case *image.NRGBA:
		for y := 0; y < height; y++ {
			row := img.Pix[(y+bounds.Min.Y-img.Rect.Min.Y)*img.Stride+(bounds.Min.X-img.Rect.Min.X)*4:]
			for x := 0; x < width; x++ {
				i := (y*width + x) * 3
				pix[i] = row[x*4]
				pix[i+1] = row[x*4+1]
				pix[i+2] = row[x*4+2]
			}
		}

	case *image.Gray:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				v := img.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
				i := (y*width + x) * 3
				pix[i] = v
				pix[i+1] = v
				pix[i+2] = v
			}
		}

	case *image.YCbCr:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := img.YCbCrAt(bounds.Min.X+x, bounds.Min.Y+y)
				r, g, b := color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
				i := (y*width + x) * 3
				pix[i] = r
				pix[i+1] = g
				pix[i+2] = b
			}
		}

	default:
		// Generic fallback.
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, _ := m.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				i := (y*width + x) * 3
				pix[i] = byte(r >> 8)
				pix[i+1] = byte(g >> 8)
				pix[i+2] = byte(b >> 8)
			}
		}
	}
	return pix, width, height
}
