package snapshot

import (
	"image"
	"image/color"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/tauraamui/tofcam/pkg/tofframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// RenderDepth rasterizes a decoded depth plane into a false colour
// image. Distances ramp from red near the sensor through to blue at
// the far end of the given range, pixels rejected by the confidence
// floor come out black.
func RenderDepth(fb *tofframe.Buffer, rangeMM int) (*image.RGBA, error) {
	if fb == nil {
		return nil, xerror.New("cannot render nil frame buffer")
	}
	if rangeMM <= 0 {
		return nil, xerror.Errorf("cannot render depth against non-positive range: %d", rangeMM)
	}

	dims := fb.Dimensions()
	img := image.NewRGBA(image.Rect(0, 0, dims.W, dims.H))

	depth := fb.DepthData()
	for i, d := range depth {
		x, y := i%dims.W, i/dims.W
		if d <= 0 {
			img.Set(x, y, color.RGBA{A: 255})
			continue
		}
		img.Set(x, y, rampColor(float64(d)/float64(rangeMM)))
	}
	return img, nil
}

// RenderConfidence rasterizes the confidence plane as greyscale,
// brighter meaning a stronger return signal.
func RenderConfidence(fb *tofframe.Buffer) (*image.RGBA, error) {
	if fb == nil {
		return nil, xerror.New("cannot render nil frame buffer")
	}

	dims := fb.Dimensions()
	img := image.NewRGBA(image.Rect(0, 0, dims.W, dims.H))

	confidence := fb.ConfidenceData()
	max := float32(1)
	for _, c := range confidence {
		if c > max {
			max = c
		}
	}

	for i, c := range confidence {
		v := uint8(255 * (c / max))
		img.Set(i%dims.W, i/dims.W, color.RGBA{R: v, G: v, B: v, A: 255})
	}
	return img, nil
}

func rampColor(norm float64) color.RGBA {
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	return color.RGBA{
		R: rampChannel(1.5 - abs(4*norm-1)),
		G: rampChannel(1.5 - abs(4*norm-2)),
		B: rampChannel(1.5 - abs(4*norm-3)),
		A: 255,
	}
}

func rampChannel(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v * 255)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func drawLabel(canvas *image.RGBA, x, y int, text string) error {
	var (
		fgColor  image.Image
		fontFace *truetype.Font
		err      error
		fontSize = 12.0
	)
	fgColor = image.White
	fontFace, err = freetype.ParseFont(goregular.TTF)
	if err != nil {
		return xerror.Errorf("unable to parse label font: %w", err)
	}
	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: fgColor,
		Face: truetype.NewFace(fontFace, &truetype.Options{
			Size:    fontSize,
			Hinting: font.HintingFull,
		}),
	}
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y),
	}
	fontDrawer.DrawString(text)
	return nil
}
