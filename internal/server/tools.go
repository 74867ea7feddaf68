package server

import "fmt"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

// outputProperties are accepted by every tool that returns an image.
func outputProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty,
		"region": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"full", "top-left", "top-right", "bottom-left", "bottom-right", "top-half", "bottom-half", "left-half", "right-half", "center"},
			"description": "Optional named part of the image to filter. The part's own edges are treated as image edges.",
		},
		"rect": map[string]interface{}{
			"type":        "object",
			"description": "Optional explicit region {x1, y1, x2, y2}; (x1,y1) inclusive, (x2,y2) exclusive. Overrides region.",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Optional scale factor applied to the returned image. Default 1.0",
			"default":     1.0,
		},
	}
}

// filterProperties adds the border and sample-layout settings shared by the
// neighborhood filters.
func filterProperties(extra map[string]interface{}) map[string]interface{} {
	props := outputProperties()
	props["border"] = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"constant", "copy", "mirror"},
		"description": "How pixels beyond the image edge are synthesized. Default copy",
		"default":     "copy",
	}
	props["border_value"] = map[string]interface{}{
		"type":        "number",
		"description": "Fill value for the constant border. Default 0",
		"default":     0,
	}
	props["gray"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Convert color images to grayscale before filtering. Default false",
		"default":     false,
	}
	return withProperties(props, extra)
}

// floatOutputProperties adds the rendering switch for tools whose raw
// output is not 8-bit.
func floatOutputProperties(props map[string]interface{}, stretch bool) map[string]interface{} {
	props["stretch"] = map[string]interface{}{
		"type":        "boolean",
		"description": fmt.Sprintf("Rescale the output so its minimum is black and its maximum white. When false values are clamped to 0-255. Default %t", stretch),
		"default":     stretch,
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and the number of channels the filters will see.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Borders
		{
			Name:        "image_border",
			Description: "Pad an image with a synthesized border and return the padded image, so the effect of a border policy on edge pixels can be inspected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": filterProperties(map[string]interface{}{
					"x_radius": map[string]interface{}{
						"type":        "integer",
						"description": "Border width added to the left and right. Default 8",
						"default":     8,
					},
					"y_radius": map[string]interface{}{
						"type":        "integer",
						"description": "Border height added to the top and bottom. Default x_radius",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Convolution
		{
			Name:        "image_convolve",
			Description: "Correlate an image with a custom kernel. Kernel dimensions must be odd; the border is sized to the kernel automatically.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": floatOutputProperties(filterProperties(map[string]interface{}{
					"kernel": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"description": "Kernel coefficients in row-major order",
					},
					"kernel_width": map[string]interface{}{
						"type":        "integer",
						"description": "Kernel width (odd)",
					},
					"kernel_height": map[string]interface{}{
						"type":        "integer",
						"description": "Kernel height (odd). Default kernel_width",
					},
					"divider": map[string]interface{}{
						"type":        "number",
						"description": "Divide every output sample by this value. Default 1",
					},
					"normalize": map[string]interface{}{
						"type":        "boolean",
						"description": "Divide by the sum of the coefficients instead of divider. Default false",
						"default":     false,
					},
					"center_weight": map[string]interface{}{
						"type":        "number",
						"description": "Optional weight used for the center tap in place of the kernel's own coefficient",
					},
				}), true),
				"required": []string{"path", "kernel", "kernel_width"},
			},
		},
		{
			Name:        "image_blur",
			Description: "Smooth an image with a box (mean) or Gaussian filter.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": floatOutputProperties(filterProperties(map[string]interface{}{
					"method": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"box", "gaussian"},
						"description": "Blur method. Default box",
						"default":     "box",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Box window radius; for gaussian, sets sigma = radius/2 when sigma is omitted. Default 1",
						"default":     1,
					},
					"sigma": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian standard deviation in pixels",
					},
					"exclude_self": map[string]interface{}{
						"type":        "boolean",
						"description": "Box only: leave the center pixel out of its own mean. Default false",
						"default":     false,
					},
					"separable": map[string]interface{}{
						"type":        "boolean",
						"description": "Gaussian only: apply the kernel as two 1D passes (faster) instead of one square pass. Results agree to rounding. Default true",
						"default":     true,
					},
				}), false),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sobel",
			Description: "Compute the Sobel gradient magnitude of an image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": floatOutputProperties(filterProperties(nil), true),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "image_median",
			Description: "Apply a square median filter, which removes impulse noise while keeping edges sharp.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": filterProperties(map[string]interface{}{
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Window radius; the window is (2*radius+1) square. Default 1",
						"default":     1,
					},
				}),
				"required": []string{"path"},
			},
		},

		// Distance transform
		{
			Name:        "image_distance_transform",
			Description: "Threshold an image into background (dark) and foreground, then compute each pixel's distance to the nearest background pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": floatOutputProperties(withProperties(outputProperties(), map[string]interface{}{
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Gray levels at or below this are background. Default 128",
						"default":     128,
					},
					"metric": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"chamfer", "cityblock", "chessboard", "chamfer34", "euclidean", "custom"},
						"description": "Distance metric. Default chamfer (weights 1 and sqrt 2)",
						"default":     "chamfer",
					},
					"orthogonal": map[string]interface{}{
						"type":        "number",
						"description": "Custom metric: cost of a horizontal or vertical step",
					},
					"diagonal": map[string]interface{}{
						"type":        "number",
						"description": "Custom metric: cost of a diagonal step",
					},
					"edge": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"background", "open"},
						"description": "Whether the area outside the image counts as background. Default background",
						"default":     "background",
					},
					"complement": map[string]interface{}{
						"type":        "boolean",
						"description": "Swap background and foreground. Default false",
						"default":     false,
					},
				}), true),
				"required": []string{"path"},
			},
		},

		// Morphology
		{
			Name:        "image_morphology",
			Description: "Threshold an image into a binary mask (bright is foreground) and dilate, erode, open or close it, or mark the local maxima of its gray levels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(outputProperties(), map[string]interface{}{
					"operation": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"dilate", "erode", "open", "close", "maxima"},
						"description": "Operation. open removes specks smaller than the element, close fills small holes. Default open",
						"default":     "open",
					},
					"shape": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"square", "cross", "disk"},
						"description": "Structuring element shape. Default square",
						"default":     "square",
					},
					"radius": map[string]interface{}{
						"type":        "integer",
						"description": "Structuring element radius. Default 1",
						"default":     1,
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Gray levels above this are foreground; for maxima, only peaks above it are marked. Default 128",
						"default":     128,
					},
				}),
				"required": []string{"path"},
			},
		},

		// Edges and color
		{
			Name:        "image_edge_detect",
			Description: "Run Canny edge detection. Returns a black image with white edges.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(outputProperties(), map[string]interface{}{
					"threshold_low": map[string]interface{}{
						"type":        "integer",
						"description": "Lower hysteresis threshold (0-255 scale). Default 50",
						"default":     50,
					},
					"threshold_high": map[string]interface{}{
						"type":        "integer",
						"description": "Upper hysteresis threshold (0-255 scale). Default 150",
						"default":     150,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_colorspace",
			Description: "Extract one channel of an image in HSV or HSL as a grayscale image. Hue 0-360 maps to 0-255; saturation, value and lightness 0-1 map to 0-255.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(outputProperties(), map[string]interface{}{
					"space": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"hsv", "hsl"},
						"description": "Color space. Default hsv",
						"default":     "hsv",
					},
					"channel": map[string]interface{}{
						"type":        "integer",
						"description": "0 = hue, 1 = saturation, 2 = value or lightness. Default 0",
						"default":     0,
					},
				}),
				"required": []string{"path"},
			},
		},
	}
}

func withProperties(props, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
