package border

import (
	"fmt"

	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

// Kind selects how halo samples are synthesized.
type Kind int

const (
	// KindConstant fills the halo with a fixed value.
	KindConstant Kind = iota

	// KindCopy replicates the nearest edge sample outward.
	KindCopy

	// KindMirror reflects the core across the nearest edge without
	// repeating the edge sample: column -1 reads column 0, -2 reads 1.
	KindMirror
)

// String returns the lower-case policy name used by the tools and CLI.
func (k Kind) String() string {
	switch k {
	case KindConstant:
		return "constant"
	case KindCopy:
		return "copy"
	case KindMirror:
		return "mirror"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "constant":
		return KindConstant, nil
	case "copy":
		return KindCopy, nil
	case "mirror":
		return KindMirror, nil
	}
	return 0, fmt.Errorf("unknown border policy: %q", s)
}

// Policy is a border kind plus, for KindConstant, its fill value.
type Policy struct {
	Kind  Kind
	Value float64
}

// Constant returns a policy that fills the halo with v.
func Constant(v float64) Policy { return Policy{Kind: KindConstant, Value: v} }

// Copy returns the edge-replication policy.
func Copy() Policy { return Policy{Kind: KindCopy} }

// Mirror returns the whole-sample reflection policy.
func Mirror() Policy { return Policy{Kind: KindMirror} }

// Spec describes the halo around a core: its thickness on each side and
// the policy that fills it.
type Spec struct {
	XRadius int
	YRadius int
	Policy  Policy
}

// Validate checks the radii against a core of width×height.
// Copy and Mirror read from the core, so their radii may not exceed the
// core's dimensions; reflecting further would read outside the core itself.
func (s Spec) Validate(width, height int) error {
	if s.XRadius < 0 || s.YRadius < 0 {
		return fmt.Errorf("%w: negative radius (%d, %d)", raster.ErrInvalidBorderRadius, s.XRadius, s.YRadius)
	}
	switch s.Policy.Kind {
	case KindConstant:
		return nil
	case KindCopy, KindMirror:
		if s.XRadius > width || s.YRadius > height {
			return fmt.Errorf("%w: %s radius (%d, %d) exceeds core %dx%d",
				raster.ErrInvalidBorderRadius, s.Policy.Kind, s.XRadius, s.YRadius, width, height)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown policy %s", raster.ErrInvalidBorderRadius, s.Policy.Kind)
}

// SourceIndex maps coordinate i on an axis of the given size to the core
// coordinate whose sample the halo should hold. In-range coordinates map to
// themselves. For KindConstant out-of-range coordinates have no source and
// ok is false.
//
// The caller guarantees i lies within one radius of the core, which Validate
// bounds by size, so a single reflection always lands inside [0, size).
func SourceIndex(i, size int, kind Kind) (src int, ok bool) {
	if i >= 0 && i < size {
		return i, true
	}
	switch kind {
	case KindCopy:
		if i < 0 {
			return 0, true
		}
		return size - 1, true
	case KindMirror:
		if i < 0 {
			return -i - 1, true
		}
		return 2*size - i - 1, true
	}
	return -1, false
}
