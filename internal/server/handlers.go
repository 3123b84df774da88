package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"pixelscope/internal/border"
	"pixelscope/internal/contour"
	"pixelscope/internal/convolve"
	"pixelscope/internal/feature"
	"pixelscope/internal/imagery"
)

// ToolCallParams represents the parameters for a tools/call request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "transform_canny").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsList returns the tool catalog.
func (s *Server) handleToolsList(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

// handleToolsCall processes a tools/call request and executes the named tool.
//
// The response wraps the tool result as text content:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.executeTool(callCtx, params.Name, params.Arguments)
	elapsed := time.Since(start)
	if err != nil {
		s.log.Error().Str("tool", params.Name).Dur("elapsed", elapsed).Err(err).
			Msg("tool call failed")
		return errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.log.Info().Str("tool", params.Name).Dur("elapsed", elapsed).Msg("tool call")

	return &Response{
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
//  3. Resolves workspace images by name
//  4. Runs the operation and registers the result
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.toolImageLoad(args)
	case "image_generate":
		return s.toolImageGenerate(args)
	case "image_save":
		return s.toolImageSave(args)
	case "image_presmooth":
		return s.toolImagePresmooth(args)
	case "image_histogram":
		return s.toolImageHistogram(args)
	case "workspace_list":
		return s.toolWorkspaceList()
	case "workspace_evict":
		return s.toolWorkspaceEvict(args)
	case "transform_directional":
		return s.toolDirectional(args)
	case "transform_high_pass":
		return s.toolHighPass(args)
	case "transform_prewitt":
		return s.toolPerChannel(args, border.Prewitt)
	case "transform_sobel":
		return s.toolPerChannel(args, border.Sobel)
	case "transform_laplace":
		return s.toolLaplace(args)
	case "transform_log":
		return s.toolLoG(args)
	case "transform_susan":
		return s.toolPerChannel(args, border.Susan)
	case "transform_canny":
		return s.toolCanny(args)
	case "transform_harris":
		return s.toolHarris(args)
	case "transform_hough_lines":
		return s.toolHoughLines(ctx, args)
	case "transform_hough_circles":
		return s.toolHoughCircles(ctx, args)
	case "transform_active_outline":
		return s.toolActiveOutline(ctx, args)
	case "transform_active_outline_next":
		return s.toolActiveOutlineNext(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse builds a JSON-RPC error response.
func errorResponse(id interface{}, code int, message, data string) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON marshals a value to an indented JSON string for display.
func mustMarshalJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal result: %v"}`, err)
	}
	return string(data)
}

// transformResult is the common response shape of every transformation tool:
// the registered result image, the per-channel metrics of the operation, and
// a PNG preview with overlay annotations rendered in.
type transformResult struct {
	Name     string           `json:"name"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	Channels int              `json:"channels"`
	Results  []map[string]any `json:"results,omitempty"`
	Preview  string           `json:"preview_png_base64,omitempty"`
}

// finish registers a transformed image and assembles its result payload.
func (s *Server) finish(img *imagery.Image) (*transformResult, error) {
	s.workspace.Register(img)

	res := &transformResult{
		Name:     img.Name,
		Width:    img.Width(),
		Height:   img.Height(),
		Channels: img.NumChannels(),
	}
	if last, err := img.LastTransformation(); err == nil {
		res.Results = last.PublicResults()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, imagery.RenderOverlays(img)); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	res.Preview = base64.StdEncoding.EncodeToString(buf.Bytes())
	return res, nil
}

// paddingArg resolves an optional padding name, defaulting to edge.
func paddingArg(name string) (convolve.PaddingStrategy, error) {
	if name == "" {
		return convolve.PaddingEdge, nil
	}
	return convolve.PaddingFromString(name)
}

// rangeArgs is the wire form of a linear parameter range.
type rangeArgs struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

func (r rangeArgs) linRange(field string) (imagery.LinRange, error) {
	lr, err := imagery.NewLinRange(r.Start, r.End, r.Count)
	if err != nil {
		return imagery.LinRange{}, fmt.Errorf("invalid %s range: %w", field, err)
	}
	return lr, nil
}

// Workspace tools

type imageLoadArgs struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (s *Server) toolImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Load(a.Path)
	if err != nil {
		return nil, err
	}
	if a.Name != "" && a.Name != img.Name {
		img.Name = a.Name
		s.workspace.Register(img)
	}

	return map[string]interface{}{
		"name":     img.Name,
		"format":   string(img.Format),
		"width":    img.Width(),
		"height":   img.Height(),
		"channels": img.NumChannels(),
	}, nil
}

type imageGenerateArgs struct {
	Shape string `json:"shape"`
	Name  string `json:"name"`
}

func (s *Server) toolImageGenerate(args json.RawMessage) (interface{}, error) {
	var a imageGenerateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	var img *imagery.Image
	switch strings.ToLower(a.Shape) {
	case "disc":
		img = imagery.NewDiscImage()
	case "square":
		img = imagery.NewSquareImage()
	default:
		return nil, fmt.Errorf("unknown shape %q, want disc or square", a.Shape)
	}
	if a.Name != "" {
		img.Name = a.Name
	}
	s.workspace.Register(img)

	return map[string]interface{}{
		"name":     img.Name,
		"width":    img.Width(),
		"height":   img.Height(),
		"channels": img.NumChannels(),
	}, nil
}

type imageSaveArgs struct {
	Image string `json:"image"`
	Path  string `json:"path"`
}

func (s *Server) toolImageSave(args json.RawMessage) (interface{}, error) {
	var a imageSaveArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(imagery.RenderOverlays(img), a.Path); err != nil {
		return nil, fmt.Errorf("failed to save image: %w", err)
	}

	return map[string]interface{}{
		"saved": a.Path,
	}, nil
}

type imagePresmoothArgs struct {
	Image  string  `json:"image"`
	Radius float64 `json:"radius"`
}

func (s *Server) toolImagePresmooth(args json.RawMessage) (interface{}, error) {
	a := imagePresmoothArgs{Radius: 1.0}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	out, err := imagery.Presmooth(img, a.Radius)
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

type imageHistogramArgs struct {
	Image string `json:"image"`
}

func (s *Server) toolImageHistogram(args json.RawMessage) (interface{}, error) {
	var a imageHistogramArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	histograms := make([][]float64, img.NumChannels())
	for i, c := range img.Channels {
		h := imagery.Histogram(c)
		histograms[i] = h[:]
	}

	return map[string]interface{}{
		"name":       img.Name,
		"histograms": histograms,
	}, nil
}

func (s *Server) toolWorkspaceList() (interface{}, error) {
	return map[string]interface{}{
		"images": s.workspace.Names(),
	}, nil
}

type workspaceEvictArgs struct {
	Image string `json:"image"`
}

func (s *Server) toolWorkspaceEvict(args json.RawMessage) (interface{}, error) {
	var a workspaceEvictArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	s.workspace.Evict(a.Image)
	return map[string]interface{}{
		"evicted": a.Image,
	}, nil
}

// Border detection tools

type directionalArgs struct {
	Image     string `json:"image"`
	Kernel    string `json:"kernel"`
	Direction string `json:"direction"`
	Padding   string `json:"padding"`
}

func (s *Server) toolDirectional(args json.RawMessage) (interface{}, error) {
	var a directionalArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	kernel, err := convolve.FamousKernelFromString(a.Kernel)
	if err != nil {
		return nil, err
	}
	dir, err := convolve.DirectionFromString(a.Direction)
	if err != nil {
		return nil, err
	}
	padding, err := paddingArg(a.Padding)
	if err != nil {
		return nil, err
	}

	out, err := border.Directional(img, kernel, dir, padding)
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

type highPassArgs struct {
	Image   string `json:"image"`
	Size    int    `json:"size"`
	Padding string `json:"padding"`
}

func (s *Server) toolHighPass(args json.RawMessage) (interface{}, error) {
	a := highPassArgs{Size: 3}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	padding, err := paddingArg(a.Padding)
	if err != nil {
		return nil, err
	}

	out, err := border.HighPass(img, a.Size, padding)
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

type perChannelArgs struct {
	Image   string `json:"image"`
	Padding string `json:"padding"`
}

// toolPerChannel serves the parameterless detectors (Prewitt, Sobel, SUSAN)
// that differ only in the operation applied.
func (s *Server) toolPerChannel(args json.RawMessage, op func(*imagery.Image, convolve.PaddingStrategy) (*imagery.Image, error)) (interface{}, error) {
	var a perChannelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	padding, err := paddingArg(a.Padding)
	if err != nil {
		return nil, err
	}

	out, err := op(img, padding)
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

type laplaceArgs struct {
	Image             string  `json:"image"`
	CrossingThreshold float64 `json:"crossing_threshold"`
	Padding           string  `json:"padding"`
}

func (s *Server) toolLaplace(args json.RawMessage) (interface{}, error) {
	var a laplaceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	padding, err := paddingArg(a.Padding)
	if err != nil {
		return nil, err
	}

	out, err := border.Laplace(img, a.CrossingThreshold, padding)
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

type logArgs struct {
	Image             string  `json:"image"`
	Sigma             float64 `json:"sigma"`
	CrossingThreshold float64 `json:"crossing_threshold"`
	Padding           string  `json:"padding"`
}

func (s *Server) toolLoG(args json.RawMessage) (interface{}, error) {
	a := logArgs{Sigma: 1.0}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	padding, err := paddingArg(a.Padding)
	if err != nil {
		return nil, err
	}

	out, err := border.LoG(img, a.Sigma, a.CrossingThreshold, padding)
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

type cannyArgs struct {
	Image         string  `json:"image"`
	LowThreshold  float64 `json:"low_threshold"`
	HighThreshold float64 `json:"high_threshold"`
	Padding       string  `json:"padding"`
}

func (s *Server) toolCanny(args json.RawMessage) (interface{}, error) {
	var a cannyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	padding, err := paddingArg(a.Padding)
	if err != nil {
		return nil, err
	}

	out, err := border.Canny(img, a.LowThreshold, a.HighThreshold, padding)
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

// Feature detection tools

type harrisArgs struct {
	Image     string  `json:"image"`
	Sigma     float64 `json:"sigma"`
	K         float64 `json:"k"`
	Threshold float64 `json:"threshold"`
	Response  string  `json:"response"`
	Padding   string  `json:"padding"`
}

func (s *Server) toolHarris(args json.RawMessage) (interface{}, error) {
	a := harrisArgs{Sigma: 1.0, K: 0.05, Response: "r1"}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	response, err := feature.HarrisResponseFromString(a.Response)
	if err != nil {
		return nil, err
	}
	padding, err := paddingArg(a.Padding)
	if err != nil {
		return nil, err
	}

	out, err := feature.Harris(img, a.Sigma, a.K, a.Threshold, response, padding)
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

type houghLinesArgs struct {
	Image           string    `json:"image"`
	Thetas          []float64 `json:"thetas"`
	Rho             rangeArgs `json:"rho"`
	Threshold       float64   `json:"threshold"`
	MostFittedRatio float64   `json:"most_fitted_ratio"`
}

func (s *Server) toolHoughLines(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a := houghLinesArgs{MostFittedRatio: 0.9}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	rho, err := a.Rho.linRange("rho")
	if err != nil {
		return nil, err
	}

	out, err := feature.HoughLines(ctx, img, a.Thetas, rho, a.Threshold, a.MostFittedRatio)
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

type houghCirclesArgs struct {
	Image           string    `json:"image"`
	Radius          rangeArgs `json:"radius"`
	XAxis           rangeArgs `json:"x_axis"`
	YAxis           rangeArgs `json:"y_axis"`
	Threshold       float64   `json:"threshold"`
	MostFittedRatio float64   `json:"most_fitted_ratio"`
}

func (s *Server) toolHoughCircles(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a := houghCirclesArgs{MostFittedRatio: 0.9}
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	radius, err := a.Radius.linRange("radius")
	if err != nil {
		return nil, err
	}
	xAxis, err := a.XAxis.linRange("x_axis")
	if err != nil {
		return nil, err
	}
	yAxis, err := a.YAxis.linRange("y_axis")
	if err != nil {
		return nil, err
	}

	out, err := feature.HoughCircles(ctx, img, radius, xAxis, yAxis, a.Threshold, a.MostFittedRatio)
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

// Segmentation tools

type activeOutlineArgs struct {
	Image     string  `json:"image"`
	Threshold float64 `json:"threshold"`
	Y1        int     `json:"y1"`
	X1        int     `json:"x1"`
	Y2        int     `json:"y2"`
	X2        int     `json:"x2"`
}

func (s *Server) toolActiveOutline(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a activeOutlineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}
	p1 := imagery.Point{Y: a.Y1, X: a.X1}
	p2 := imagery.Point{Y: a.Y2, X: a.X2}

	out, err := contour.Outline(ctx, img, a.Threshold, p1, p2, contour.Options{})
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}

type activeOutlineNextArgs struct {
	Previous string `json:"previous"`
	Image    string `json:"image"`
	Frame    int    `json:"frame"`
}

func (s *Server) toolActiveOutlineNext(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a activeOutlineNextArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	prev, err := s.workspace.Get(a.Previous)
	if err != nil {
		return nil, err
	}
	img, err := s.workspace.Get(a.Image)
	if err != nil {
		return nil, err
	}

	out, err := contour.OutlineInductive(ctx, a.Frame, prev, img, contour.Options{})
	if err != nil {
		return nil, err
	}
	return s.finish(out)
}
