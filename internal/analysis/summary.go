package analysis

import (
	"errors"
	"math"
	"slices"

	"github.com/san-kum/mathviz/internal/walk"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var ErrTooFewSamples = errors.New("analysis: not enough samples")

type Summary struct {
	Steps       int     `json:"steps"`
	Samples     int     `json:"samples"`
	Observed    float64 `json:"observed"`
	Theoretical float64 `json:"theoretical"`
	// RelError is |observed - theoretical| / theoretical, 0 at step 0.
	RelError float64 `json:"rel_error"`
	// StdErr is the standard error of the observed mean.
	StdErr float64 `json:"std_err"`
}

// Summarize reports the latest statistic of a run. sq holds each path's
// current squared displacement and may be nil when only the history is
// available.
func Summarize(history walk.StatHistory, sq []float64) Summary {
	last := history.Last()
	s := Summary{
		Steps:       last.Step,
		Samples:     len(sq),
		Observed:    last.Observed,
		Theoretical: last.Theoretical,
	}
	if last.Theoretical > 0 {
		s.RelError = math.Abs(last.Observed-last.Theoretical) / last.Theoretical
	}
	if len(sq) > 1 {
		s.StdErr = stat.StdErr(stat.StdDev(sq, nil), float64(len(sq)))
	}
	return s
}

// Metrics flattens the summary and a fitted diffusion exponent into the
// metric set archived with every run report.
func (s Summary) Metrics(alpha float64) map[string]float64 {
	return map[string]float64{
		"msd":         s.Observed,
		"theoretical": s.Theoretical,
		"rel_error":   s.RelError,
		"std_err":     s.StdErr,
		"alpha":       alpha,
	}
}

// DiffusionExponent fits log(MSD) = alpha*log(step) + c over the steps with
// a positive statistic and returns alpha and c.
func DiffusionExponent(history walk.StatHistory) (alpha, c float64, err error) {
	var xs, ys []float64
	for _, s := range history {
		if s.Step < 1 || s.Observed <= 0 {
			continue
		}
		xs = append(xs, math.Log(float64(s.Step)))
		ys = append(ys, math.Log(s.Observed))
	}
	if len(xs) < 2 {
		return 0, 0, ErrTooFewSamples
	}
	c, alpha = stat.LinearRegression(xs, ys, nil, false)
	return alpha, c, nil
}

// Bin is one histogram bucket with the count a normal fit predicts.
type Bin struct {
	Lo       float64 `json:"lo"`
	Hi       float64 `json:"hi"`
	Count    float64 `json:"count"`
	Expected float64 `json:"expected"`
}

// Distribution histograms values into bins equal-width buckets spanning
// ±3 sigma and compares each with a zero-mean normal of the given sigma.
// Values outside the span are not counted.
func Distribution(values []float64, bins int, sigma float64) ([]Bin, error) {
	if len(values) == 0 || bins < 1 || sigma <= 0 {
		return nil, ErrTooFewSamples
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, -3*sigma, 3*sigma)

	inside := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= dividers[0] && v < dividers[bins] {
			inside = append(inside, v)
		}
	}
	slices.Sort(inside)
	counts := stat.Histogram(nil, dividers, inside, nil)

	normal := distuv.Normal{Mu: 0, Sigma: sigma}
	n := float64(len(values))
	out := make([]Bin, bins)
	for i := range out {
		lo, hi := dividers[i], dividers[i+1]
		out[i] = Bin{
			Lo:       lo,
			Hi:       hi,
			Count:    counts[i],
			Expected: n * (normal.CDF(hi) - normal.CDF(lo)),
		}
	}
	return out, nil
}
