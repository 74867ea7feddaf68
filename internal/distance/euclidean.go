package distance

import (
	"math"

	"github.com/ironsheep/image-filter-mcp/internal/border"
)

// euclidean replaces the seeded field (0 or Far per pixel, halo included)
// with exact Euclidean distances. It runs the one-dimensional squared
// transform down every column and then along every row, then takes square
// roots over the core.
func euclidean(b *border.Buffer[float64]) {
	full := b.Full()
	n := max(full.Width, full.Height)
	f := make([]float64, n)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	for x := 0; x < full.Width; x++ {
		for y := 0; y < full.Height; y++ {
			f[y] = full.At(x, y, 0)
		}
		squared1D(f[:full.Height], d, v, z)
		for y := 0; y < full.Height; y++ {
			full.Set(x, y, 0, d[y])
		}
	}
	for y := 0; y < full.Height; y++ {
		row := full.Row(y)
		copy(f, row)
		squared1D(f[:full.Width], d, v, z)
		copy(row, d[:full.Width])
	}

	core := b.Core()
	for y := 0; y < core.Height; y++ {
		row := core.Row(y)
		for i, sq := range row {
			row[i] = math.Sqrt(sq)
		}
	}
}

// squared1D computes d[q] = min_p (q-p)² + f[p] by the lower envelope of
// parabolas rooted at each p. v holds the parabola roots on the envelope
// and z the boundaries between them.
func squared1D(f, d []float64, v []int, z []float64) {
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)
	for q := 1; q < len(f); q++ {
		fq := f[q] + float64(q*q)
		s := (fq - (f[v[k]] + float64(v[k]*v[k]))) / float64(2*q-2*v[k])
		for s <= z[k] {
			k--
			s = (fq - (f[v[k]] + float64(v[k]*v[k]))) / float64(2*q-2*v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}
	k = 0
	for q := range f {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}
