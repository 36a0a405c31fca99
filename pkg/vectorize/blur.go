package vectorize

import (
	"image"
	"math"
)

// gaussianKernel returns a normalised 1D kernel covering three sigmas.
func gaussianKernel(sigma float64) []float32 {
	half := int(math.Ceil(sigma * 3))
	kernel := make([]float32, 2*half+1)
	twoSigmaSq := 2 * sigma * sigma
	sum := 0.0
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-x * x / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}
	for i := range kernel {
		kernel[i] /= float32(sum)
	}
	return kernel
}

// Blur applies a separable Gaussian blur with the given sigma, extending
// edge pixels outwards. A non-positive sigma returns a copy.
func Blur(gray *image.Gray, sigma float64) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)
	if sigma <= 0 || w == 0 || h == 0 {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			copy(out.Pix[out.PixOffset(b.Min.X, y):out.PixOffset(b.Max.X, y)], gray.Pix[gray.PixOffset(b.Min.X, y):])
		}
		return out
	}
	kernel := gaussianKernel(sigma)
	half := len(kernel) / 2

	at := func(x, y int) float32 {
		return float32(gray.Pix[gray.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}
	temp := make([]float32, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v float32
			for k, weight := range kernel {
				v += at(min(max(x+k-half, 0), w-1), y) * weight
			}
			temp[x+y*w] = v
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var v float32
			for k, weight := range kernel {
				v += temp[x+min(max(y+k-half, 0), h-1)*w] * weight
			}
			out.Pix[out.PixOffset(b.Min.X+x, b.Min.Y+y)] = uint8(min(max(math.Round(float64(v)), 0), 255))
		}
	}
	return out
}
