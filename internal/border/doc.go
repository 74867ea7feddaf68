// Package border pads an image core with a synthesized halo so that sliding
// window filters never branch on image edges.
//
// A Spec names the halo thickness on each axis and the Policy that fills it:
//
//   - Constant(v): every halo sample is v (clamped to the sample type).
//   - Copy(): the nearest edge sample is replicated outward.
//   - Mirror(): the core is reflected across the edge without repeating the
//     edge sample, so column -k reads column k-1.
//
// Corners are reflected (or replicated) in both axes.
package border
