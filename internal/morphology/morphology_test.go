package morphology

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/convolve"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
	"github.com/ironsheep/image-filter-mcp/internal/report"
)

func randomMask(t *testing.T, w, h int, density float64, seed int64) *raster.Buffer[uint8] {
	t.Helper()
	m, err := raster.New[uint8](w, h, 1)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(seed))
	for i := range m.Pix {
		if rng.Float64() < density {
			m.Pix[i] = 255
		}
	}
	return m
}

// bruteForce evaluates one pass with explicit bounds checks; outside
// reports what the image edge contributes.
func bruteForce(m *raster.Buffer[uint8], se *convolve.Kernel, dilate bool, outside uint8) *raster.Buffer[uint8] {
	out, _ := raster.New[uint8](m.Width, m.Height, 1)
	cx, cy := se.CenterX(), se.CenterY()
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			some, all := false, true
			for ky := 0; ky < se.Height; ky++ {
				for kx := 0; kx < se.Width; kx++ {
					if se.At(kx, ky) == 0 && (kx != cx || ky != cy) {
						continue
					}
					sx, sy := x+kx-cx, y+ky-cy
					v := outside
					if sx >= 0 && sx < m.Width && sy >= 0 && sy < m.Height {
						v = m.At(sx, sy, 0)
					}
					some = some || v != 0
					all = all && v != 0
				}
			}
			if (dilate && some) || (!dilate && all) {
				out.Set(x, y, 0, 255)
			}
		}
	}
	return out
}

func elements() map[string]*convolve.Kernel {
	irregular := &convolve.Kernel{Width: 5, Height: 3, Values: []float64{
		0, 1, 0, 0, 1,
		1, 0, 0, 0, 0,
		0, 0, 1, 1, 0,
	}}
	return map[string]*convolve.Kernel{
		"square":    Square(1, 1),
		"wide":      Square(4, 1),
		"cross":     Cross(2),
		"disk":      Disk(3),
		"irregular": irregular,
		"single":    Square(0, 0),
	}
}

func TestDilateErode_MatchBruteForce(t *testing.T) {
	m := randomMask(t, 23, 17, 0.3, 1)
	for name, se := range elements() {
		t.Run(name, func(t *testing.T) {
			bg, err := border.New(m, border.Spec{XRadius: se.CenterX(), YRadius: se.CenterY(), Policy: Background()})
			require.NoError(t, err)
			got, err := Dilate(bg, se)
			require.NoError(t, err)
			assert.Equal(t, bruteForce(m, se, true, 0).Pix, got.Pix)

			fg, err := border.New(m, border.Spec{XRadius: se.CenterX(), YRadius: se.CenterY(), Policy: Foreground()})
			require.NoError(t, err)
			got, err = Erode(fg, se)
			require.NoError(t, err)
			assert.Equal(t, bruteForce(m, se, false, 255).Pix, got.Pix)
		})
	}
}

func TestOpenClose_MatchBruteForce(t *testing.T) {
	m := randomMask(t, 19, 21, 0.55, 2)
	for name, se := range elements() {
		t.Run(name, func(t *testing.T) {
			opened, err := Apply(m, OpOpen, se)
			require.NoError(t, err)
			want := bruteForce(bruteForce(m, se, false, 255), se, true, 0)
			assert.Equal(t, want.Pix, opened.Pix)

			closed, err := Apply(m, OpClose, se)
			require.NoError(t, err)
			want = bruteForce(bruteForce(m, se, true, 0), se, false, 255)
			assert.Equal(t, want.Pix, closed.Pix)

			// Opening only removes foreground, closing only adds it.
			for i, v := range m.Pix {
				if opened.Pix[i] != 0 {
					assert.NotZero(t, v, "opening grew pixel %d", i)
				}
				if v != 0 {
					assert.NotZero(t, closed.Pix[i], "closing lost pixel %d", i)
				}
			}
		})
	}
}

func TestOpen_RemovesSpeckAndKeepsBlock(t *testing.T) {
	m, err := raster.New[uint8](12, 10, 1)
	require.NoError(t, err)
	m.Set(1, 1, 0, 255)
	for y := 4; y < 9; y++ {
		for x := 5; x < 11; x++ {
			m.Set(x, y, 0, 255)
		}
	}
	got, err := Apply(m, OpOpen, Square(1, 1))
	require.NoError(t, err)
	assert.Zero(t, got.At(1, 1, 0))
	m.Set(1, 1, 0, 0)
	assert.Equal(t, m.Pix, got.Pix)
}

func TestClose_FillsHole(t *testing.T) {
	m, err := raster.New[uint8](9, 9, 1)
	require.NoError(t, err)
	m.Fill(255)
	m.Set(4, 4, 0, 0)
	got, err := Apply(m, OpClose, Cross(1))
	require.NoError(t, err)
	assert.Equal(t, uint8(255), got.At(4, 4, 0))
}

func TestEdgeHalo(t *testing.T) {
	// A full mask stays full under erosion only when the halo counts as
	// foreground.
	m, err := raster.New[uint8](6, 5, 1)
	require.NoError(t, err)
	m.Fill(255)

	fg, err := border.New(m, border.Spec{XRadius: 1, YRadius: 1, Policy: Foreground()})
	require.NoError(t, err)
	got, err := Erode(fg, Square(1, 1))
	require.NoError(t, err)
	assert.Equal(t, m.Pix, got.Pix)

	zero, err := border.Zero(m, 1, 1)
	require.NoError(t, err)
	got, err = Erode(zero, Square(1, 1))
	require.NoError(t, err)
	assert.Zero(t, got.At(0, 0, 0))
	assert.Zero(t, got.At(5, 2, 0))
	assert.Equal(t, uint8(255), got.At(2, 2, 0))
}

func TestWorkersGiveIdenticalResults(t *testing.T) {
	m := randomMask(t, 31, 29, 0.4, 3)
	want, err := Apply(m, OpClose, Disk(2))
	require.NoError(t, err)
	for _, n := range []int{0, 2, 7, 64} {
		got, err := Apply(m, OpClose, Disk(2), WithWorkers(n))
		require.NoError(t, err)
		assert.Equal(t, want.Pix, got.Pix, "workers=%d", n)
	}

	var msgs []string
	_, err = Apply(m, OpDilate, Disk(1), WithWorkers(100), WithReporter(report.Func(func(s string) {
		msgs = append(msgs, s)
	})))
	require.NoError(t, err)
	assert.Contains(t, msgs, "reducing 100 workers to 29 rows")
}

func TestErrors(t *testing.T) {
	m := randomMask(t, 8, 8, 0.5, 4)
	thin, err := border.Zero(m, 1, 1)
	require.NoError(t, err)

	_, err = Dilate(thin, Square(2, 1))
	assert.ErrorIs(t, err, raster.ErrInsufficientBorder)
	_, err = Open(thin, Cross(2))
	assert.ErrorIs(t, err, raster.ErrInsufficientBorder)

	even := &convolve.Kernel{Width: 2, Height: 3, Values: make([]float64, 6)}
	_, err = Erode(thin, even)
	assert.ErrorIs(t, err, raster.ErrOddKernelDimensionRequired)
	_, err = Apply(m, OpClose, even)
	assert.ErrorIs(t, err, raster.ErrOddKernelDimensionRequired)

	_, err = Dilate(nil, Square(1, 1))
	assert.ErrorIs(t, err, raster.ErrInvalidView)

	rgb, err := raster.New[uint8](4, 4, 3)
	require.NoError(t, err)
	b, err := border.Zero(rgb, 1, 1)
	require.NoError(t, err)
	_, err = Dilate(b, Square(1, 1))
	assert.ErrorIs(t, err, raster.ErrUnsupportedSampleFormat)
}

func TestParseOp(t *testing.T) {
	for _, op := range []Op{OpDilate, OpErode, OpOpen, OpClose} {
		got, err := ParseOp(op.String())
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}
	got, err := ParseOp("CLOSE")
	require.NoError(t, err)
	assert.Equal(t, OpClose, got)

	_, err = ParseOp("tophat")
	assert.Error(t, err)
}

func TestElement(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 0, 1, 1, 1, 0, 1, 0}, Cross(1).Values)
	assert.Equal(t, Cross(1).Values, Disk(1).Values)

	d := Disk(2)
	assert.Equal(t, 1.0, d.At(2, 0))
	assert.Equal(t, 1.0, d.At(1, 1))
	assert.Equal(t, 0.0, d.At(0, 0))

	k, err := Element("square", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, k.Width)
	assert.Equal(t, 25.0, k.Sum())

	_, err = Element("ring", 1)
	assert.Error(t, err)
	_, err = Element("disk", -1)
	assert.Error(t, err)
}
