package haralick

import (
	"image"
	"math"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/morphometry/rimage"
	"go.viam.com/morphometry/utils"
)

const entropyEpsilon = 1e-4

// Matrix is a normalized, direction averaged grey level co-occurrence matrix.
type Matrix struct {
	p     *mat.SymDense
	pairs int
}

// directions returns the four canonical offsets at distance d.
func directions(d int) [4]image.Point {
	return [4]image.Point{{d, 0}, {0, d}, {d, d}, {d, -d}}
}

// NewMatrix counts masked pixel pairs of roi at distance d. roi values must lie
// in [0, levels-1]. With no pairs every entry stays zero.
func NewMatrix(roi *rimage.ROI, levels, d int) *Matrix {
	p := mat.NewSymDense(levels, nil)
	total := 0
	pairs := 0
	w, h := roi.Width(), roi.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if roi.Mask.At(x, y) == 0 {
				continue
			}
			v1 := roi.Source.At(x, y)
			for _, off := range directions(d) {
				nx, ny := x+off.X, y+off.Y
				if !roi.Mask.Contains(nx, ny) || roi.Mask.At(nx, ny) == 0 {
					continue
				}
				v2 := roi.Source.At(nx, ny)
				inc := 1.0
				if v1 == v2 {
					inc = 2
				}
				p.SetSym(v1, v2, p.At(v1, v2)+inc)
				total += 2
				pairs++
			}
		}
	}
	if total > 0 {
		p.ScaleSym(1/float64(total), p)
	}
	return &Matrix{p: p, pairs: pairs}
}

// Levels returns the matrix size.
func (m *Matrix) Levels() int {
	n, _ := m.p.Dims()
	return n
}

// Pairs returns the number of pixel pairs counted.
func (m *Matrix) Pairs() int {
	return m.pairs
}

// At returns the probability of the pair (i, j).
func (m *Matrix) At(i, j int) float64 {
	return m.p.At(i, j)
}

// Statistics are the texture descriptors of one matrix.
type Statistics struct {
	ASM                    float64
	IDM                    float64
	Entropy                float64
	Mean                   float64
	Variance               float64
	Contrast               float64
	Correlation            float64
	Prominence             float64
	Shade                  float64
	SumAverage             float64
	SumVariance            float64
	SumEntropy             float64
	DiffAverage            float64
	DiffVariance           float64
	DiffEntropy            float64
	CoefficientOfVariation float64
}

// Statistics reduces the matrix. Off-diagonal entries are visited from both
// sides, so each unordered pair contributes twice its stored mass.
func (m *Matrix) Statistics() Statistics {
	var s Statistics
	n := m.Levels()
	sum := make([]float64, 2*n-1)
	diff := make([]float64, n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := m.p.At(i, j)
			if p == 0 {
				continue
			}
			fi, fj := float64(i), float64(j)
			s.Mean += fi * p
			s.ASM += p * p
			s.IDM += p / (1 + utils.Square(fi-fj))
			s.Entropy -= p * math.Log(p+entropyEpsilon)
			s.Contrast += utils.Square(fi-fj) * p
			sum[i+j] += p
			diff[utils.AbsInt(i-j)] += p
		}
	}

	var cov float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := m.p.At(i, j)
			if p == 0 {
				continue
			}
			di, dj := float64(i)-s.Mean, float64(j)-s.Mean
			s.Variance += di * di * p
			cov += di * dj * p
			t := di + dj
			s.Shade += t * t * t * p
			s.Prominence += t * t * t * t * p
		}
	}
	s.Correlation = utils.SafeDiv(cov, s.Variance)
	s.CoefficientOfVariation = utils.SafeDiv(s.Variance, s.Mean)

	s.SumAverage, s.SumVariance, s.SumEntropy = distributionMoments(sum)
	s.DiffAverage, s.DiffVariance, s.DiffEntropy = distributionMoments(diff)
	return s
}

// distributionMoments returns the mean, variance and entropy of a distribution
// indexed by its support value.
func distributionMoments(dist []float64) (mean, variance, entropy float64) {
	for k, p := range dist {
		mean += float64(k) * p
		if p > 0 {
			entropy -= p * math.Log(p+entropyEpsilon)
		}
	}
	for k, p := range dist {
		variance += utils.Square(float64(k)-mean) * p
	}
	return mean, variance, entropy
}
