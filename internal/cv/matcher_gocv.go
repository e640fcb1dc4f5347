//go:build gocv

package cv

import (
	"image"
	"image/draw"
	"math"

	"gocv.io/x/gocv"
)

// NewMatcher returns the matcher compiled into this binary
func NewMatcher() Matcher {
	return OpenCVMatcher{}
}

// OpenCVMatcher runs TM_CCOEFF_NORMED through OpenCV
type OpenCVMatcher struct{}

func (OpenCVMatcher) Name() string {
	return "opencv"
}

func (OpenCVMatcher) Match(screen, tmpl *image.Gray, config *MatchConfig) MatchResult {
	if config == nil {
		config = DefaultMatchConfig()
	}
	if screen == nil || tmpl == nil {
		return MatchResult{}
	}

	search := screen.Bounds()
	if config.SearchRegion != nil {
		search = config.SearchRegion.Intersect(search)
	}

	tb := tmpl.Bounds()
	if search.Empty() || tb.Empty() || tb.Dx() > search.Dx() || tb.Dy() > search.Dy() {
		return MatchResult{}
	}

	screenMat, err := gocv.ImageGrayToMatGray(rebase(screen, search))
	if err != nil {
		return MatchResult{}
	}
	defer screenMat.Close()

	tmplMat, err := gocv.ImageGrayToMatGray(rebase(tmpl, tb))
	if err != nil {
		return MatchResult{}
	}
	defer tmplMat.Close()

	result := gocv.NewMat()
	defer result.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(screenMat, tmplMat, &result, gocv.TmCcoeffNormed, mask)
	_, maxVal, _, maxLoc := gocv.MinMaxLoc(result)

	score := float64(maxVal)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		score = 0
	}
	confidence := math.Max(0, math.Min(1, score))

	topLeft := maxLoc.Add(search.Min)
	return MatchResult{
		Found:      confidence >= config.Threshold,
		TopLeft:    topLeft,
		Location:   topLeft.Add(image.Point{X: tb.Dx() / 2, Y: tb.Dy() / 2}),
		Confidence: confidence,
	}
}

// rebase copies r out of img into a new image whose bounds start at (0,0)
func rebase(img *image.Gray, r image.Rectangle) *image.Gray {
	if r.Min == (image.Point{}) && r == img.Bounds() {
		return img
	}
	dst := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
