package capture

import "image"

// applyTransform applies a filter transform descriptor to the image in place.
// Unknown descriptors and "none" leave the pixels untouched, so a dangling
// filter id degrades to the identity filter instead of failing a capture.
func applyTransform(img *image.RGBA, transform string) {
	switch transform {
	case "grayscale":
		eachPixel(img, func(r, g, b uint8) (uint8, uint8, uint8) {
			l := luma(r, g, b)
			return l, l, l
		})
	case "sepia":
		eachPixel(img, func(r, g, b uint8) (uint8, uint8, uint8) {
			rf, gf, bf := float64(r), float64(g), float64(b)
			return clamp(0.393*rf + 0.769*gf + 0.189*bf),
				clamp(0.349*rf + 0.686*gf + 0.168*bf),
				clamp(0.272*rf + 0.534*gf + 0.131*bf)
		})
	case "saturate":
		// Push channels away from the gray axis by 50%.
		eachPixel(img, func(r, g, b uint8) (uint8, uint8, uint8) {
			l := float64(luma(r, g, b))
			return clamp(l + 1.5*(float64(r)-l)),
				clamp(l + 1.5*(float64(g)-l)),
				clamp(l + 1.5*(float64(b)-l))
		})
	case "invert":
		eachPixel(img, func(r, g, b uint8) (uint8, uint8, uint8) {
			return 255 - r, 255 - g, 255 - b
		})
	case "faded":
		// Lifted blacks, lowered contrast, slight warm cast.
		eachPixel(img, func(r, g, b uint8) (uint8, uint8, uint8) {
			return clamp(0.8*float64(r) + 38),
				clamp(0.8*float64(g) + 30),
				clamp(0.8*float64(b) + 22)
		})
	}
}

// eachPixel applies fn to every pixel's RGB channels, leaving alpha as is.
func eachPixel(img *image.RGBA, fn func(r, g, b uint8) (uint8, uint8, uint8)) {
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2] = fn(pix[i], pix[i+1], pix[i+2])
	}
}

// luma returns the Rec. 601 luminance of an RGB pixel.
func luma(r, g, b uint8) uint8 {
	return uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
}

func clamp(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
