package cv

import (
	"image"
	"math"
	"runtime"
	"sync"
)

// MatchResult contains template matching results
type MatchResult struct {
	Found      bool
	Location   image.Point // center of the best-scoring window
	TopLeft    image.Point
	Confidence float64 // 0.0-1.0
}

// MatchConfig configures template matching
type MatchConfig struct {
	Threshold    float64          // 0.0-1.0, higher = more strict
	SearchRegion *image.Rectangle // Optional: limit search area
}

// DefaultThreshold is the confidence a match must reach unless configured otherwise
const DefaultThreshold = 0.8

// DefaultMatchConfig returns recommended settings
func DefaultMatchConfig() *MatchConfig {
	return &MatchConfig{
		Threshold: DefaultThreshold,
	}
}

// FindTemplate scores the template against every position of the screen with
// zero-mean normalized cross-correlation and returns the single best position.
// Ties resolve to the first position in raster order. Negative correlations
// are reported as 0.
func FindTemplate(screen, tmpl *image.Gray, config *MatchConfig) MatchResult {
	if config == nil {
		config = DefaultMatchConfig()
	}
	if screen == nil || tmpl == nil {
		return MatchResult{}
	}

	tb := tmpl.Bounds()
	tw, th := tb.Dx(), tb.Dy()
	if tw == 0 || th == 0 {
		return MatchResult{}
	}

	search := screen.Bounds()
	if config.SearchRegion != nil {
		search = config.SearchRegion.Intersect(search)
		if search.Empty() {
			return MatchResult{}
		}
	}

	maxX := search.Max.X - tw
	maxY := search.Max.Y - th
	if maxX < search.Min.X || maxY < search.Min.Y {
		// Template doesn't fit in search region
		return MatchResult{}
	}

	t := newTemplateStats(tmpl)
	ii := newIntegral(screen, search)

	rows := maxY - search.Min.Y + 1
	workers := runtime.GOMAXPROCS(0)
	if workers > rows {
		workers = rows
	}
	bandSize := (rows + workers - 1) / workers

	bands := make([]bandBest, workers)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		startY := search.Min.Y + w*bandSize
		endY := startY + bandSize - 1
		if endY > maxY {
			endY = maxY
		}
		if startY > endY {
			bands[w] = bandBest{score: -1}
			continue
		}

		wg.Add(1)
		go func(w, startY, endY int) {
			defer wg.Done()
			best := bandBest{score: -1}
			for y := startY; y <= endY; y++ {
				for x := search.Min.X; x <= maxX; x++ {
					score := scoreAt(screen, t, ii, search, x, y)
					if score > best.score {
						best = bandBest{score: score, loc: image.Point{X: x, Y: y}}
					}
				}
			}
			bands[w] = best
		}(w, startY, endY)
	}
	wg.Wait()

	best := bandBest{score: -1}
	for _, b := range bands {
		if b.score > best.score {
			best = b
		}
	}

	confidence := math.Max(0, math.Min(1, best.score))
	return MatchResult{
		Found:      confidence >= config.Threshold,
		TopLeft:    best.loc,
		Location:   image.Point{X: best.loc.X + tw/2, Y: best.loc.Y + th/2},
		Confidence: confidence,
	}
}

type bandBest struct {
	score float64
	loc   image.Point
}

// templateStats holds the mean-subtracted template
type templateStats struct {
	w, h int
	n    int64
	zero []float64 // t - mean(t), row major
	sum  int64
	nvar int64 // n*sum(t^2) - sum(t)^2
}

func newTemplateStats(tmpl *image.Gray) *templateStats {
	b := tmpl.Bounds()
	w, h := b.Dx(), b.Dy()
	t := &templateStats{w: w, h: h, n: int64(w * h), zero: make([]float64, w*h)}

	var sq int64
	for y := 0; y < h; y++ {
		row := tmpl.Pix[tmpl.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			v := int64(row[x])
			t.sum += v
			sq += v * v
		}
	}
	t.nvar = t.n*sq - t.sum*t.sum

	mean := float64(t.sum) / float64(t.n)
	for y := 0; y < h; y++ {
		row := tmpl.Pix[tmpl.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			t.zero[y*w+x] = float64(row[x]) - mean
		}
	}

	return t
}

// integral holds summed-area tables of pixel values and squared values over
// the search rectangle, with a zero row and column prepended.
type integral struct {
	stride int
	sum    []int64
	sq     []int64
}

func newIntegral(img *image.Gray, r image.Rectangle) *integral {
	w, h := r.Dx(), r.Dy()
	ii := &integral{
		stride: w + 1,
		sum:    make([]int64, (w+1)*(h+1)),
		sq:     make([]int64, (w+1)*(h+1)),
	}

	for y := 0; y < h; y++ {
		row := img.Pix[img.PixOffset(r.Min.X, r.Min.Y+y):]
		var rowSum, rowSq int64
		for x := 0; x < w; x++ {
			v := int64(row[x])
			rowSum += v
			rowSq += v * v
			i := (y+1)*ii.stride + x + 1
			ii.sum[i] = ii.sum[i-ii.stride] + rowSum
			ii.sq[i] = ii.sq[i-ii.stride] + rowSq
		}
	}

	return ii
}

// window returns sum and squared sum of the w*h window at local (lx, ly)
func (ii *integral) window(lx, ly, w, h int) (sum, sq int64) {
	a := ly*ii.stride + lx
	b := a + w
	c := (ly+h)*ii.stride + lx
	d := c + w
	return ii.sum[d] - ii.sum[b] - ii.sum[c] + ii.sum[a],
		ii.sq[d] - ii.sq[b] - ii.sq[c] + ii.sq[a]
}

func scoreAt(screen *image.Gray, t *templateStats, ii *integral, search image.Rectangle, x, y int) float64 {
	wsum, wsq := ii.window(x-search.Min.X, y-search.Min.Y, t.w, t.h)
	wnvar := t.n*wsq - wsum*wsum

	if t.nvar == 0 || wnvar == 0 {
		// Flat template or flat window: correlation is undefined
		if t.nvar == 0 && wnvar == 0 && wsum == t.sum {
			return 1
		}
		return 0
	}

	var cross float64
	for j := 0; j < t.h; j++ {
		row := screen.Pix[screen.PixOffset(x, y+j):]
		zrow := t.zero[j*t.w : (j+1)*t.w]
		for i, z := range zrow {
			cross += z * float64(row[i])
		}
	}

	// sum((t-mt)(w-mw)) == sum((t-mt)*w); variances are scaled by n
	tvar := float64(t.nvar) / float64(t.n)
	wvar := float64(wnvar) / float64(t.n)
	return cross / math.Sqrt(tvar*wvar)
}
