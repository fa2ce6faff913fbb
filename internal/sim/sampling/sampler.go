// Package sampling draws drill segment lengths and shape extents from
// configured probability distributions.
package sampling

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler produces n independent draws. Implementations carry their own
// source and are not safe for concurrent use; the level driver samples
// everything up front before fanning work out.
type Sampler interface {
	Sample(n int) []float64
}

// Uniform draws from U(min, max).
type Uniform struct {
	dist distuv.Uniform
}

func NewUniform(min, max float64, src rand.Source) (*Uniform, error) {
	if min > max {
		return nil, fmt.Errorf("sampling: uniform min %v > max %v", min, max)
	}
	return &Uniform{dist: distuv.Uniform{Min: min, Max: max, Src: src}}, nil
}

func (u *Uniform) Sample(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = u.dist.Rand()
	}
	return out
}

// Theoretical draws from a named parametric distribution.
type Theoretical struct {
	dist distuv.Rander
}

func NewTheoretical(name string, params []float64, src rand.Source) (*Theoretical, error) {
	dist, err := newDist(name, params, src)
	if err != nil {
		return nil, err
	}
	return &Theoretical{dist: dist}, nil
}

func (t *Theoretical) Sample(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = t.dist.Rand()
	}
	return out
}

func wantParams(name string, params []float64, n int) error {
	if len(params) != n {
		return fmt.Errorf("sampling: %s takes %d parameters, got %d", name, n, len(params))
	}
	return nil
}

func newDist(name string, p []float64, src rand.Source) (distuv.Rander, error) {
	switch name {
	case "norm":
		if err := wantParams(name, p, 2); err != nil {
			return nil, err
		}
		if p[1] <= 0 {
			return nil, fmt.Errorf("sampling: norm sigma %v must be positive", p[1])
		}
		return distuv.Normal{Mu: p[0], Sigma: p[1], Src: src}, nil
	case "lognorm":
		if err := wantParams(name, p, 2); err != nil {
			return nil, err
		}
		if p[1] <= 0 {
			return nil, fmt.Errorf("sampling: lognorm sigma %v must be positive", p[1])
		}
		return distuv.LogNormal{Mu: p[0], Sigma: p[1], Src: src}, nil
	case "expon":
		if err := wantParams(name, p, 1); err != nil {
			return nil, err
		}
		if p[0] <= 0 {
			return nil, fmt.Errorf("sampling: expon rate %v must be positive", p[0])
		}
		return distuv.Exponential{Rate: p[0], Src: src}, nil
	case "gamma":
		if err := wantParams(name, p, 2); err != nil {
			return nil, err
		}
		if p[0] <= 0 || p[1] <= 0 {
			return nil, fmt.Errorf("sampling: gamma parameters %v must be positive", p)
		}
		return distuv.Gamma{Alpha: p[0], Beta: p[1], Src: src}, nil
	case "weibull":
		if err := wantParams(name, p, 2); err != nil {
			return nil, err
		}
		if p[0] <= 0 || p[1] <= 0 {
			return nil, fmt.Errorf("sampling: weibull parameters %v must be positive", p)
		}
		return distuv.Weibull{K: p[0], Lambda: p[1], Src: src}, nil
	case "triang":
		if err := wantParams(name, p, 3); err != nil {
			return nil, err
		}
		a, b, c := p[0], p[1], p[2]
		if !(a < b) || c < a || c > b {
			return nil, fmt.Errorf("sampling: triang needs a < b and a <= c <= b, got %v", p)
		}
		return distuv.NewTriangle(a, b, c, src), nil
	case "uniform":
		if err := wantParams(name, p, 2); err != nil {
			return nil, err
		}
		if p[0] > p[1] {
			return nil, fmt.Errorf("sampling: uniform min %v > max %v", p[0], p[1])
		}
		return distuv.Uniform{Min: p[0], Max: p[1], Src: src}, nil
	default:
		return nil, fmt.Errorf("sampling: unknown distribution %q", name)
	}
}

// Empirical resamples a measured data set through its inverse empirical
// CDF. Useful when no parametric family fits the observed sizes.
type Empirical struct {
	sorted []float64
	rng    *rand.Rand
}

func NewEmpirical(data []float64, src rand.Source) (*Empirical, error) {
	if len(data) == 0 {
		return nil, errors.New("sampling: empirical data is empty")
	}
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	return &Empirical{sorted: sorted, rng: rand.New(src)}, nil
}

func (e *Empirical) Sample(n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = stat.Quantile(e.rng.Float64(), stat.Empirical, e.sorted, nil)
	}
	return out
}
