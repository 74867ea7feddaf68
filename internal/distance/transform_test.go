package distance

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-filter-mcp/internal/raster"
	"github.com/ironsheep/image-filter-mcp/internal/report"
)

// maskWith returns a w×h uint8 mask filled with fill, with the listed
// points set to 0.
func maskWith(t *testing.T, w, h int, fill uint8, zeros ...[2]int) *raster.Buffer[uint8] {
	t.Helper()
	m, err := raster.New[uint8](w, h, 1)
	require.NoError(t, err)
	m.Fill(fill)
	for _, p := range zeros {
		m.Set(p[0], p[1], 0, 0)
	}
	return m
}

func randomMask(t *testing.T, w, h int, seed int64) *raster.Buffer[uint8] {
	t.Helper()
	m := maskWith(t, w, h, 1)
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Pix {
		if rng.Intn(12) == 0 {
			m.Pix[i] = 0
		}
	}
	m.Pix[0] = 0
	return m
}

// bruteEuclidean measures the distance from every pixel to the nearest
// zero. With withHalo set, the ring of pixels just outside the image also
// counts as background.
func bruteEuclidean(m *raster.Buffer[uint8], withHalo bool) *raster.Buffer[float64] {
	out, _ := raster.New[float64](m.Width, m.Height, 1)
	isBackground := func(x, y int) bool {
		if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
			return withHalo
		}
		return m.At(x, y, 0) == 0
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			best := math.Inf(1)
			for by := -1; by <= m.Height; by++ {
				for bx := -1; bx <= m.Width; bx++ {
					if isBackground(bx, by) {
						best = math.Min(best, math.Hypot(float64(x-bx), float64(y-by)))
					}
				}
			}
			out.Set(x, y, 0, best)
		}
	}
	return out
}

func TestTransform_EmptyMask(t *testing.T) {
	m := maskWith(t, 5, 5, 7)
	out, err := Transform(m, Options{})
	assert.ErrorIs(t, err, raster.ErrEmptyMask)
	assert.Nil(t, out)

	// The halo does not count as background.
	_, err = Transform(m, Options{Edge: EdgeBackground, Metric: Euclidean})
	assert.ErrorIs(t, err, raster.ErrEmptyMask)
}

func TestTransform_UnsupportedSampleFormat(t *testing.T) {
	m, err := raster.New[uint8](4, 4, 3)
	require.NoError(t, err)
	_, err = Transform(m, Options{})
	assert.ErrorIs(t, err, raster.ErrUnsupportedSampleFormat)
}

func TestTransform_SingleBackgroundPixel(t *testing.T) {
	const n = 9
	c := n / 2
	tests := []struct {
		metric Metric
		corner float64
	}{
		{CityBlock, 8},
		{Chessboard, 4},
		{Chamfer, 4 * math.Sqrt2},
		{Chamfer34, 4 * 4.0 / 3.0},
		{Euclidean, 4 * math.Sqrt2},
	}
	for _, tt := range tests {
		t.Run(tt.metric.String(), func(t *testing.T) {
			m := maskWith(t, n, n, 1, [2]int{c, c})
			out, err := Transform(m, Options{Metric: tt.metric, Edge: EdgeOpen})
			require.NoError(t, err)

			assert.Equal(t, 0.0, out.At(c, c, 0))
			_, hi := out.MinMax()
			assert.InDelta(t, tt.corner, hi, 1e-9)
			for _, p := range [][2]int{{0, 0}, {n - 1, 0}, {0, n - 1}, {n - 1, n - 1}} {
				assert.InDelta(t, tt.corner, out.At(p[0], p[1], 0), 1e-9)
			}
			assert.InDelta(t, 1.0, out.At(c+1, c, 0), 1e-9)
		})
	}
}

func TestTransform_EdgeBackground(t *testing.T) {
	m := maskWith(t, 7, 7, 1, [2]int{3, 3})
	out, err := Transform(m, Options{Metric: CityBlock})
	require.NoError(t, err)

	// Every edge pixel is one step from the outside.
	for i := 0; i < 7; i++ {
		assert.Equal(t, 1.0, out.At(i, 0, 0))
		assert.Equal(t, 1.0, out.At(0, i, 0))
		assert.Equal(t, 1.0, out.At(6, i, 0))
	}
	assert.Equal(t, 2.0, out.At(1, 1, 0))
	assert.Equal(t, 1.0, out.At(3, 2, 0))
}

func TestTransform_ChamferBounds(t *testing.T) {
	// The two-pass chamfer result is the octagonal distance to the nearest
	// background pixel, so it lies between Euclidean and 1.0824 × Euclidean.
	bound := math.Sqrt(4 - 2*math.Sqrt2)

	for _, edge := range []Edge{EdgeOpen, EdgeBackground} {
		m := randomMask(t, 23, 17, int64(edge)+3)
		ref := bruteEuclidean(m, edge == EdgeBackground)
		out, err := Transform(m, Options{Edge: edge})
		require.NoError(t, err)

		for i, d := range out.Pix {
			e := ref.Pix[i]
			assert.GreaterOrEqual(t, d, e-1e-9, "pixel %d", i)
			assert.LessOrEqual(t, d, bound*e+1e-9, "pixel %d", i)
		}

		// Pixels strictly closer in Euclidean terms never come out more
		// than the chamfer bound further away.
		for i := range out.Pix {
			for j := range out.Pix {
				if ref.Pix[i] < ref.Pix[j] && out.Pix[i] > bound*out.Pix[j]+1e-9 {
					t.Fatalf("pixel %d (E=%v, d=%v) vs %d (E=%v, d=%v)",
						i, ref.Pix[i], out.Pix[i], j, ref.Pix[j], out.Pix[j])
				}
			}
		}
	}
}

func TestTransform_EuclideanIsExact(t *testing.T) {
	for _, edge := range []Edge{EdgeOpen, EdgeBackground} {
		m := randomMask(t, 19, 14, int64(edge)+10)
		ref := bruteEuclidean(m, edge == EdgeBackground)
		out, err := Transform(m, Options{Metric: Euclidean, Edge: edge})
		require.NoError(t, err)
		for i := range out.Pix {
			assert.InDelta(t, ref.Pix[i], out.Pix[i], 1e-9, "pixel %d", i)
		}
	}
}

func TestTransform_Complement(t *testing.T) {
	// 255 marks the object; with Complement the distance is measured inside it.
	m := maskWith(t, 5, 1, 0)
	m.Set(1, 0, 0, 255)
	m.Set(2, 0, 0, 255)
	m.Set(3, 0, 0, 255)

	out, err := Transform(m, Options{Background: 255, Complement: true, Edge: EdgeOpen})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 2, 1, 0}, out.Row(0))

	out, err = Transform(m, Options{Background: 255, Edge: EdgeOpen})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 0, 1}, out.Row(0))
}

func TestTransform_FloatMask(t *testing.T) {
	m, err := raster.New[float32](3, 3, 1)
	require.NoError(t, err)
	m.Fill(0.5)
	m.Set(0, 0, 0, -1)

	out, err := Transform(m, Options{Background: -1, Metric: Chessboard, Edge: EdgeOpen})
	require.NoError(t, err)
	assert.Equal(t, 2.0, out.At(2, 2, 0))
}

func TestTransform_ReportsNonMetricWeights(t *testing.T) {
	var messages []string
	sink := report.Func(func(m string) { messages = append(messages, m) })

	odd, err := Custom(1, 3)
	require.NoError(t, err)
	_, err = Transform(maskWith(t, 3, 3, 1, [2]int{0, 0}), Options{Metric: odd, Reporter: sink})
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestCustomAndParseMetric(t *testing.T) {
	_, err := Custom(0, 1)
	assert.Error(t, err)
	_, err = Custom(1, math.NaN())
	assert.Error(t, err)

	m, err := Custom(2, 3)
	require.NoError(t, err)
	assert.Equal(t, "custom(2,3)", m.String())

	for name, want := range map[string]Metric{
		"":          Chamfer,
		"CityBlock": CityBlock,
		"chebyshev": Chessboard,
		"3-4":       Chamfer34,
		"euclidean": Euclidean,
	} {
		got, err := ParseMetric(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err = ParseMetric("hamming")
	assert.Error(t, err)
}
