// Package morphology applies binary dilation, erosion, opening and closing
// to bordered 8-bit masks, and finds local maxima of gray-level buffers.
//
// A mask pixel is foreground when it is nonzero. Structuring elements are
// odd convolve.Kernel values; a tap belongs to the element when its
// coefficient is nonzero, and the center pixel always counts. Every window
// is read straight out of the padded store, so what lies beyond the image
// edge is decided by the halo: Background (constant 0) leaves dilation
// unaffected by the edge, Foreground (constant 255) does the same for
// erosion. Open and Close re-border their intermediate result with the
// neutral halo of the second pass.
//
// Results are 0/255 masks the size of the core.
package morphology
