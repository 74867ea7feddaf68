package convolve

import (
	"testing"

	"github.com/anthonynsimon/bild/convolution"
)

func TestNewKernel(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6}
	k, err := NewKernel(3, 2, values)
	if err != nil {
		t.Fatalf("NewKernel failed: %v", err)
	}
	values[0] = 99
	if k.At(0, 0) != 1 {
		t.Errorf("NewKernel must copy its values, got %v", k.At(0, 0))
	}
	if k.At(2, 1) != 6 {
		t.Errorf("At(2, 1): got %v, want 6", k.At(2, 1))
	}

	if _, err := NewKernel(3, 3, values); err == nil {
		t.Error("NewKernel should reject a value count mismatch")
	}
	if _, err := NewKernel(0, 3, nil); err == nil {
		t.Error("NewKernel should reject zero width")
	}
}

func TestKernel_Transposed(t *testing.T) {
	k, _ := NewKernel(3, 2, []float64{1, 2, 3, 4, 5, 6})
	tr := k.Transposed()
	if tr.Width != 2 || tr.Height != 3 {
		t.Fatalf("Transposed size: got %dx%d, want 2x3", tr.Width, tr.Height)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			if k.At(x, y) != tr.At(y, x) {
				t.Errorf("Transposed(%d,%d): got %v, want %v", y, x, tr.At(y, x), k.At(x, y))
			}
		}
	}
}

func TestKernel_Normalized(t *testing.T) {
	k, _ := NewKernel(3, 1, []float64{1, 2, 1})
	n := k.Normalized()
	if n.Sum() != 1 {
		t.Errorf("Normalized sum: got %v, want 1", n.Sum())
	}
	if k.Sum() != 4 {
		t.Errorf("Normalized must not modify the receiver, sum is %v", k.Sum())
	}
	if got := SobelX().Normalized().Sum(); got != 0 {
		t.Errorf("zero-sum kernel: got sum %v, want 0", got)
	}
}

func TestGaussian(t *testing.T) {
	g := Gaussian(1.5)
	if g.Width != 11 || g.Height != 1 {
		t.Fatalf("Gaussian(1.5) size: got %dx%d, want 11x1", g.Width, g.Height)
	}
	if s := g.Sum(); s < 1-1e-12 || s > 1+1e-12 {
		t.Errorf("Gaussian sum: got %v, want 1", s)
	}
	for i := 0; i < g.Width/2; i++ {
		if g.Values[i] != g.Values[g.Width-1-i] {
			t.Errorf("Gaussian not symmetric at %d", i)
		}
		if g.Values[i] >= g.Values[i+1] {
			t.Errorf("Gaussian not increasing toward the center at %d", i)
		}
	}
	if id := Gaussian(0); id.Width != 1 || id.Values[0] != 1 {
		t.Errorf("Gaussian(0): got %+v, want identity", id)
	}
}

func TestFromMatrix(t *testing.T) {
	m := convolution.NewKernel(3, 3)
	for i := range m.Matrix {
		m.Matrix[i] = float64(i)
	}
	k := FromMatrix(m)
	if k.Width != 3 || k.Height != 3 {
		t.Fatalf("FromMatrix size: got %dx%d", k.Width, k.Height)
	}
	if k.At(2, 1) != 5 {
		t.Errorf("At(2, 1): got %v, want 5", k.At(2, 1))
	}
	back := k.ToMatrix()
	for i, v := range back.Matrix {
		if v != m.Matrix[i] {
			t.Errorf("ToMatrix[%d]: got %v, want %v", i, v, m.Matrix[i])
		}
	}
}

func TestKernel_Validate(t *testing.T) {
	tests := []struct {
		name    string
		k       *Kernel
		wantErr bool
	}{
		{"3x3", Box(1, 1), false},
		{"1x1", Box(0, 0), false},
		{"even width", &Kernel{Width: 4, Height: 1, Values: make([]float64, 4)}, true},
		{"short values", &Kernel{Width: 3, Height: 3, Values: make([]float64, 8)}, true},
		{"nil", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.k.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: got err=%v, wantErr=%v", err, tt.wantErr)
			}
		})
	}
}
