package t2m

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// Luma weights, same as Unity's Color.grayscale.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Luminance returns the weighted luma of c in [0,1].
func Luminance(c color.Color) float64 {
	n := ColorFromStd(c)
	return lumaR*n.R + lumaG*n.G + lumaB*n.B
}

// FlatNormal returns the encoded normal produced for a source of uniform luminance,
// i.e. the gradient vector (0.5, 0.5, 1) normalized and mapped to [0,1].
func FlatNormal() color.NRGBA {
	return encodeNormal(0.5, 0.5)
}

// NormalMap derives a tangent-space normal map from a height image.
// Every luminance sample is multiplied by strength; zero yields FlatNormal everywhere
// and a negative value inverts the relief.
// The result has the same width and height as src with its origin at (0,0).
//
// Rows are addressed bottom-up like Unity textures: the "up" neighbor of a pixel
// is the row below it in image space. FlipGreen reverses that.
func NormalMap(src image.Image, strength float64, opt *NormalMapOptions) (*image.NRGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if math.IsNaN(strength) || math.IsInf(strength, 0) {
		return nil, ErrInvalidStrength
	}

	nopt := opt.normalize()
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	heights := heightField(src, strength)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	// Every output row reads only the immutable height field and writes its own pixels.
	band := (h + nopt.Workers - 1) / nopt.Workers
	var g errgroup.Group
	g.SetLimit(nopt.Workers)
	for y0 := 0; y0 < h; y0 += band {
		y0 := y0
		y1 := min(y0+band, h)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				normalRow(dst, heights, w, h, y, nopt.FlipGreen)
			}
			return nil
		})
	}
	_ = g.Wait()

	return dst, nil
}

// heightField converts src to scaled luminance samples in row-major order.
func heightField(src image.Image, strength float64) []float64 {
	b := src.Bounds()
	nrgba, ok := src.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), src, b.Min, draw.Src)
	}

	w, h := b.Dx(), b.Dy()
	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride : y*nrgba.Stride+w*4]
		for x := 0; x < w; x++ {
			p := row[x*4 : x*4+4 : x*4+4]
			l := lumaR*float64(p[0]) + lumaG*float64(p[1]) + lumaB*float64(p[2])
			out[y*w+x] = l / 255 * strength
		}
	}

	return out
}

// normalRow computes one output row.
func normalRow(dst *image.NRGBA, heights []float64, w, h, y int, flipGreen bool) {
	upRow, downRow := min(y+1, h-1), max(y-1, 0)
	if flipGreen {
		upRow, downRow = downRow, upRow
	}

	for x := 0; x < w; x++ {
		left := heights[y*w+max(x-1, 0)]
		right := heights[y*w+min(x+1, w-1)]
		up := heights[upRow*w+x]
		down := heights[downRow*w+x]

		dx := (left - right + 1) * 0.5
		dy := (up - down + 1) * 0.5
		dst.SetNRGBA(x, y, encodeNormal(dx, dy))
	}
}

// encodeNormal normalizes (dx, dy, 1) and maps each component from [-1,1] to [0,1].
func encodeNormal(dx, dy float64) color.NRGBA {
	n := r3.Unit(r3.Vec{X: dx, Y: dy, Z: 1})
	return color.NRGBA{
		R: unitToByte(n.X*0.5 + 0.5),
		G: unitToByte(n.Y*0.5 + 0.5),
		B: unitToByte(n.Z*0.5 + 0.5),
		A: 0xff,
	}
}
