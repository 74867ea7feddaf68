package distance

import (
	"fmt"
	"math"
	"strings"
)

// Metric selects how step lengths are weighted.
//
// Chamfer metrics propagate distances through the 8-neighborhood with one
// weight for orthogonal steps and one for diagonal steps. Euclidean is the
// exact squared-distance transform and ignores the weights.
type Metric struct {
	Name       string
	Orthogonal float64
	Diagonal   float64
	exact      bool
}

var (
	// CityBlock counts 4-connected steps: |dx| + |dy|.
	CityBlock = Metric{Name: "cityblock", Orthogonal: 1, Diagonal: 2}
	// Chessboard counts 8-connected steps: max(|dx|, |dy|).
	Chessboard = Metric{Name: "chessboard", Orthogonal: 1, Diagonal: 1}
	// Chamfer weights diagonals by sqrt 2 and overestimates Euclidean
	// distance by at most 8.24%.
	Chamfer = Metric{Name: "chamfer", Orthogonal: 1, Diagonal: math.Sqrt2}
	// Chamfer34 is the classic 3-4 integer chamfer scaled to unit steps.
	Chamfer34 = Metric{Name: "chamfer34", Orthogonal: 1, Diagonal: 4.0 / 3.0}
	// Euclidean is exact.
	Euclidean = Metric{Name: "euclidean", Orthogonal: 1, Diagonal: math.Sqrt2, exact: true}
)

// Custom returns a chamfer metric with the given positive weights.
func Custom(orthogonal, diagonal float64) (Metric, error) {
	if !(orthogonal > 0) || !(diagonal > 0) || math.IsInf(orthogonal, 0) || math.IsInf(diagonal, 0) {
		return Metric{}, fmt.Errorf("chamfer weights must be positive and finite, got %g and %g", orthogonal, diagonal)
	}
	return Metric{Name: "custom", Orthogonal: orthogonal, Diagonal: diagonal}, nil
}

// ParseMetric looks a metric up by name.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "chamfer":
		return Chamfer, nil
	case "cityblock", "city-block", "manhattan":
		return CityBlock, nil
	case "chessboard", "chebyshev":
		return Chessboard, nil
	case "chamfer34", "3-4":
		return Chamfer34, nil
	case "euclidean":
		return Euclidean, nil
	}
	return Metric{}, fmt.Errorf("unknown distance metric %q", name)
}

// Exact reports whether the metric is computed exactly rather than by
// chamfer propagation.
func (m Metric) Exact() bool { return m.exact }

func (m Metric) isZero() bool {
	return m.Orthogonal == 0 && m.Diagonal == 0 && !m.exact
}

func (m Metric) String() string {
	if m.Name == "custom" {
		return fmt.Sprintf("custom(%g,%g)", m.Orthogonal, m.Diagonal)
	}
	return m.Name
}
