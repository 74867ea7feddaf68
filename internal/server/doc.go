// Package server implements the MCP (Model Context Protocol) server for the
// image filters.
//
// This package provides a JSON-RPC 2.0 server that exposes border padding,
// convolution, smoothing, median filtering, distance transforms, edge
// detection and color-space extraction as MCP tools.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Neighborhood Filters (all accept border, border_value, gray, region, rect
// and scale):
//   - image_border: Show the padded image for a border policy
//   - image_convolve: Custom kernel with divider and center weight
//   - image_blur: Box or Gaussian smoothing
//   - image_sobel: Gradient magnitude
//   - image_median: Median filter
//
// Other Operations:
//   - image_distance_transform: Chamfer or exact Euclidean distance to the
//     nearest dark pixel
//   - image_edge_detect: Canny edge detection
//   - image_colorspace: One HSV or HSL channel as grayscale
//
// Every image result carries the PNG as base64. Tools whose raw output is
// floating point also report its min and max, since the PNG is rescaled.
//
// # Image Caching
//
// Decoded images are kept in an LRU cache sized by IMAGE_MCP_CACHE_SIZE and
// reused across tool calls.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Advisory messages from the filters (a clamped border constant, a reduced
// worker count) never fail a call; they go to the sink set with
// WithReporter.
//
// # Usage
//
//	srv := server.New(server.WithConfig(cfg), server.WithLogger(logger))
//	if err := srv.Run(); err != nil {
//	    logger.Fatal("server failed", zap.Error(err))
//	}
package server
