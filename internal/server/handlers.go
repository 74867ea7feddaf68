package server

import (
	"encoding/json"
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/image-filter-mcp/internal/border"
	"github.com/ironsheep/image-filter-mcp/internal/convolve"
	"github.com/ironsheep/image-filter-mcp/internal/distance"
	"github.com/ironsheep/image-filter-mcp/internal/imaging"
	"github.com/ironsheep/image-filter-mcp/internal/morphology"
	"github.com/ironsheep/image-filter-mcp/internal/raster"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_blur").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.Info("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the image from cache and crops it to the requested region
//  4. Runs the filter and encodes the output as base64 PNG
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Borders and convolution
	case "image_border":
		return s.handleImageBorder(args)
	case "image_convolve":
		return s.handleImageConvolve(args)
	case "image_blur":
		return s.handleImageBlur(args)
	case "image_sobel":
		return s.handleImageSobel(args)
	case "image_median":
		return s.handleImageMedian(args)

	// Distance transform
	case "image_distance_transform":
		return s.handleImageDistanceTransform(args)

	// Morphology
	case "image_morphology":
		return s.handleImageMorphology(args)

	// Edges and color
	case "image_edge_detect":
		return s.handleImageEdgeDetect(args)
	case "image_colorspace":
		return s.handleImageColorspace(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Shared argument handling ===

// outputArgs are accepted by every tool that returns an image.
type outputArgs struct {
	Path   string          `json:"path"`
	Region string          `json:"region"`
	Rect   *imaging.Region `json:"rect,omitempty"`
	Scale  float64         `json:"scale"`
}

// filterArgs add the border and sample-layout settings.
type filterArgs struct {
	outputArgs
	Border      string  `json:"border"`
	BorderValue float64 `json:"border_value"`
	Gray        bool    `json:"gray"`
	Stretch     *bool   `json:"stretch,omitempty"`
}

// source loads the image and crops it to the requested region.
func (s *Server) source(a outputArgs) (image.Image, error) {
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	r := a.Rect
	if r == nil {
		b := img.Bounds()
		named, err := imaging.NamedRegion(a.Region, b.Dx(), b.Dy())
		if err != nil {
			return nil, err
		}
		r = &named
	}
	return imaging.Crop(img, *r)
}

// options turns the border arguments into FilterOptions. The default border
// policy is Copy.
func (s *Server) options(a filterArgs) (imaging.FilterOptions, error) {
	policy := border.Copy()
	if a.Border != "" {
		kind, err := border.ParseKind(a.Border)
		if err != nil {
			return imaging.FilterOptions{}, err
		}
		policy = border.Policy{Kind: kind, Value: a.BorderValue}
	}
	return imaging.FilterOptions{
		Policy:  policy,
		Gray:    a.Gray,
		Workers: s.cfg.Workers,
		Sink:    s.sink,
	}, nil
}

func (s *Server) prepare(a filterArgs) (image.Image, imaging.FilterOptions, error) {
	o, err := s.options(a)
	if err != nil {
		return nil, o, err
	}
	img, err := s.source(a.outputArgs)
	return img, o, err
}

// encodeFloat renders a float filter output and records its raw range.
func encodeFloat(buf *raster.Buffer[float64], a filterArgs) (*imaging.Result, error) {
	stretch := a.Stretch == nil || *a.Stretch
	img, err := imaging.Render(buf, stretch)
	if err != nil {
		return nil, err
	}
	res, err := imaging.Encode(img, a.Scale)
	if err != nil {
		return nil, err
	}
	return res.WithRange(buf.MinMax()), nil
}

func encodeSamples(buf *raster.Buffer[uint8], scale float64) (*imaging.Result, error) {
	img, err := imaging.FromSamples(buf)
	if err != nil {
		return nil, err
	}
	return imaging.Encode(img, scale)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Border and Convolution Handlers ===

type imageBorderArgs struct {
	filterArgs
	XRadius *int `json:"x_radius,omitempty"`
	YRadius *int `json:"y_radius,omitempty"`
}

func (s *Server) handleImageBorder(args json.RawMessage) (interface{}, error) {
	var a imageBorderArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	xr := 8
	if a.XRadius != nil {
		xr = *a.XRadius
	}
	yr := xr
	if a.YRadius != nil {
		yr = *a.YRadius
	}
	img, o, err := s.prepare(a.filterArgs)
	if err != nil {
		return nil, err
	}
	full, err := imaging.BorderPreview(img, xr, yr, o)
	if err != nil {
		return nil, err
	}
	return encodeSamples(full, a.Scale)
}

type imageConvolveArgs struct {
	filterArgs
	Kernel       []float64 `json:"kernel"`
	KernelWidth  int       `json:"kernel_width"`
	KernelHeight int       `json:"kernel_height"`
	Divider      float64   `json:"divider"`
	Normalize    bool      `json:"normalize"`
	CenterWeight *float64  `json:"center_weight,omitempty"`
}

func (s *Server) handleImageConvolve(args json.RawMessage) (interface{}, error) {
	var a imageConvolveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.KernelHeight == 0 {
		a.KernelHeight = a.KernelWidth
	}
	k, err := convolve.NewKernel(a.KernelWidth, a.KernelHeight, a.Kernel)
	if err != nil {
		return nil, err
	}

	var extra []convolve.Option
	switch {
	case a.Normalize:
		extra = append(extra, convolve.WithNormalize())
	case a.Divider != 0:
		extra = append(extra, convolve.WithDivider(a.Divider))
	}
	if a.CenterWeight != nil {
		extra = append(extra, convolve.WithCenterWeight(*a.CenterWeight))
	}

	img, o, err := s.prepare(a.filterArgs)
	if err != nil {
		return nil, err
	}
	out, err := imaging.ConvolveImage(img, k, o, extra...)
	if err != nil {
		return nil, err
	}
	return encodeFloat(out, a.filterArgs)
}

type imageBlurArgs struct {
	filterArgs
	Method      string  `json:"method"`
	Radius      int     `json:"radius"`
	Sigma       float64 `json:"sigma"`
	ExcludeSelf bool    `json:"exclude_self"`
	Separable   *bool   `json:"separable,omitempty"`
}

func (s *Server) handleImageBlur(args json.RawMessage) (interface{}, error) {
	var a imageBlurArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius == 0 {
		a.Radius = 1
	}
	img, o, err := s.prepare(a.filterArgs)
	if err != nil {
		return nil, err
	}
	method := a.Method
	if method == imaging.BlurGaussian && a.Separable != nil && !*a.Separable {
		method = imaging.BlurGaussian2D
	}
	out, err := imaging.BlurImage(img, method, a.Radius, a.Sigma, a.ExcludeSelf, o)
	if err != nil {
		return nil, err
	}
	// A blur stays within the input range, so it is shown unstretched
	// unless asked otherwise.
	if a.Stretch == nil {
		a.Stretch = new(bool)
	}
	return encodeFloat(out, a.filterArgs)
}

func (s *Server) handleImageSobel(args json.RawMessage) (interface{}, error) {
	var a filterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, o, err := s.prepare(a)
	if err != nil {
		return nil, err
	}
	out, err := imaging.SobelImage(img, o)
	if err != nil {
		return nil, err
	}
	return encodeFloat(out, a)
}

type imageMedianArgs struct {
	filterArgs
	Radius int `json:"radius"`
}

func (s *Server) handleImageMedian(args json.RawMessage) (interface{}, error) {
	var a imageMedianArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius == 0 {
		a.Radius = 1
	}
	img, o, err := s.prepare(a.filterArgs)
	if err != nil {
		return nil, err
	}
	out, err := imaging.MedianImage(img, a.Radius, o)
	if err != nil {
		return nil, err
	}
	return encodeSamples(out, a.Scale)
}

// === Distance Transform Handler ===

type imageDistanceTransformArgs struct {
	outputArgs
	Threshold  *int    `json:"threshold,omitempty"`
	Metric     string  `json:"metric"`
	Orthogonal float64 `json:"orthogonal"`
	Diagonal   float64 `json:"diagonal"`
	Edge       string  `json:"edge"`
	Complement bool    `json:"complement"`
	Stretch    *bool   `json:"stretch,omitempty"`
}

func (s *Server) handleImageDistanceTransform(args json.RawMessage) (interface{}, error) {
	var a imageDistanceTransformArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	threshold := 128
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("threshold must be in 0..255, got %d", threshold)
	}

	var metric distance.Metric
	var err error
	if a.Metric == "custom" {
		metric, err = distance.Custom(a.Orthogonal, a.Diagonal)
	} else {
		metric, err = distance.ParseMetric(a.Metric)
	}
	if err != nil {
		return nil, err
	}

	var edge distance.Edge
	switch a.Edge {
	case "", "background":
		edge = distance.EdgeBackground
	case "open":
		edge = distance.EdgeOpen
	default:
		return nil, fmt.Errorf("unknown edge mode %q (want background or open)", a.Edge)
	}

	img, err := s.source(a.outputArgs)
	if err != nil {
		return nil, err
	}
	field, err := imaging.DistanceImage(img, uint8(threshold), distance.Options{
		Complement: a.Complement,
		Metric:     metric,
		Edge:       edge,
		Reporter:   s.sink,
	})
	if err != nil {
		return nil, err
	}
	return encodeFloat(field, filterArgs{outputArgs: a.outputArgs, Stretch: a.Stretch})
}

// === Morphology Handler ===

type imageMorphologyArgs struct {
	outputArgs
	Operation string `json:"operation"`
	Shape     string `json:"shape"`
	Radius    *int   `json:"radius,omitempty"`
	Threshold *int   `json:"threshold,omitempty"`
}

func (s *Server) handleImageMorphology(args json.RawMessage) (interface{}, error) {
	var a imageMorphologyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	threshold := 128
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("threshold must be in 0..255, got %d", threshold)
	}
	o := imaging.FilterOptions{Policy: border.Copy(), Workers: s.cfg.Workers, Sink: s.sink}

	if a.Operation == "maxima" {
		img, err := s.source(a.outputArgs)
		if err != nil {
			return nil, err
		}
		peaks, err := imaging.MaximaImage(img, uint8(threshold), o)
		if err != nil {
			return nil, err
		}
		return encodeSamples(peaks, a.Scale)
	}

	op := morphology.OpOpen
	if a.Operation != "" {
		var err error
		if op, err = morphology.ParseOp(a.Operation); err != nil {
			return nil, err
		}
	}
	radius := 1
	if a.Radius != nil {
		radius = *a.Radius
	}
	se, err := morphology.Element(a.Shape, radius)
	if err != nil {
		return nil, err
	}
	img, err := s.source(a.outputArgs)
	if err != nil {
		return nil, err
	}
	mask, err := imaging.MorphologyImage(img, op, se, uint8(threshold), o)
	if err != nil {
		return nil, err
	}
	return encodeSamples(mask, a.Scale)
}

// === Edge and Color Handlers ===

type imageEdgeDetectArgs struct {
	outputArgs
	ThresholdLow  int `json:"threshold_low"`
	ThresholdHigh int `json:"threshold_high"`
}

func (s *Server) handleImageEdgeDetect(args json.RawMessage) (interface{}, error) {
	var a imageEdgeDetectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ThresholdLow == 0 {
		a.ThresholdLow = 50
	}
	if a.ThresholdHigh == 0 {
		a.ThresholdHigh = 150
	}
	img, err := s.source(a.outputArgs)
	if err != nil {
		return nil, err
	}
	edges, err := imaging.EdgeDetect(img, a.ThresholdLow, a.ThresholdHigh,
		convolve.WithWorkers(s.cfg.Workers), convolve.WithReporter(s.sink))
	if err != nil {
		return nil, err
	}
	return encodeSamples(edges, a.Scale)
}

type imageColorspaceArgs struct {
	outputArgs
	Space   string `json:"space"`
	Channel int    `json:"channel"`
}

func (s *Server) handleImageColorspace(args json.RawMessage) (interface{}, error) {
	var a imageColorspaceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Space == "" {
		a.Space = string(imaging.SpaceHSV)
	}
	space, err := imaging.ParseSpace(a.Space)
	if err != nil {
		return nil, err
	}
	img, err := s.source(a.outputArgs)
	if err != nil {
		return nil, err
	}
	ch, err := imaging.SpaceChannel(img, space, a.Channel)
	if err != nil {
		return nil, err
	}
	return imaging.Encode(ch, a.Scale)
}
