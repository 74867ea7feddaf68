// Package imaging connects decoded images to the filtering engine.
//
// It loads images from disk into a bounded cache, converts them to and from
// the sample buffers of package raster, and runs the image-level filters
// (border preview, convolution, blur, Sobel, median, distance transform,
// Canny edges and color-space channels) that the MCP tools and the CLI
// expose. Results are returned as base64 PNG via Encode.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Sample Layout
//
// Grayscale sources, and color sources when FilterOptions.Gray is set,
// become one-channel buffers. Everything else becomes three channels in
// R, G, B order; alpha is not filtered.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The filters are stateless
// and never modify the image they are given.
package imaging
