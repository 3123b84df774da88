package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"pixelscope/internal/imagery"
)

// callTool runs a tool through the dispatch path with JSON arguments.
func callTool(t *testing.T, s *Server, name, args string) (interface{}, error) {
	t.Helper()
	return s.executeTool(context.Background(), name, json.RawMessage(args))
}

// mustCallTool fails the test if the tool errors.
func mustCallTool(t *testing.T, s *Server, name, args string) interface{} {
	t.Helper()
	result, err := callTool(t, s, name, args)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	return result
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := newTestServer()
	_, err := callTool(t, s, "no_such_tool", `{}`)
	if err == nil {
		t.Fatal("Expected error for unknown tool")
	}
	if !strings.Contains(err.Error(), "unknown tool") {
		t.Errorf("Error should mention unknown tool: %v", err)
	}
}

func TestExecuteTool_InvalidArguments(t *testing.T) {
	s := newTestServer()
	_, err := callTool(t, s, "image_generate", `not json`)
	if err == nil {
		t.Fatal("Expected error for malformed arguments")
	}
}

func TestImageGenerate(t *testing.T) {
	s := newTestServer()
	result := mustCallTool(t, s, "image_generate", `{"shape":"disc"}`)

	info, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("Result type: got %T", result)
	}
	if info["name"] != imagery.DiscImageName {
		t.Errorf("name: got %v, want %s", info["name"], imagery.DiscImageName)
	}
	if info["width"] != 200 || info["height"] != 200 {
		t.Errorf("dimensions: got %vx%v, want 200x200", info["width"], info["height"])
	}
	if info["channels"] != 1 {
		t.Errorf("channels: got %v, want 1", info["channels"])
	}

	if _, err := s.workspace.Get(imagery.DiscImageName); err != nil {
		t.Errorf("Generated image not registered: %v", err)
	}
}

func TestImageGenerate_CustomName(t *testing.T) {
	s := newTestServer()
	mustCallTool(t, s, "image_generate", `{"shape":"square","name":"frame0"}`)

	if _, err := s.workspace.Get("frame0"); err != nil {
		t.Errorf("Custom name not registered: %v", err)
	}
}

func TestImageGenerate_UnknownShape(t *testing.T) {
	s := newTestServer()
	_, err := callTool(t, s, "image_generate", `{"shape":"triangle"}`)
	if err == nil {
		t.Fatal("Expected error for unknown shape")
	}
}

func TestWorkspaceListAndEvict(t *testing.T) {
	s := newTestServer()
	mustCallTool(t, s, "image_generate", `{"shape":"disc","name":"a"}`)
	mustCallTool(t, s, "image_generate", `{"shape":"square","name":"b"}`)

	result := mustCallTool(t, s, "workspace_list", `{}`)
	names := result.(map[string]interface{})["images"].([]string)
	if len(names) != 2 {
		t.Fatalf("Expected 2 images, got %v", names)
	}

	mustCallTool(t, s, "workspace_evict", `{"image":"a"}`)
	if _, err := s.workspace.Get("a"); err == nil {
		t.Error("Image a should be evicted")
	}
	if _, err := s.workspace.Get("b"); err != nil {
		t.Errorf("Image b should survive: %v", err)
	}
}

func TestTransform_MissingImage(t *testing.T) {
	s := newTestServer()
	_, err := callTool(t, s, "transform_prewitt", `{"image":"nope"}`)
	if err == nil {
		t.Fatal("Expected error for missing workspace image")
	}
}

func TestTransform_InvalidPadding(t *testing.T) {
	s := newTestServer()
	mustCallTool(t, s, "image_generate", `{"shape":"square","name":"sq"}`)

	_, err := callTool(t, s, "transform_prewitt", `{"image":"sq","padding":"magic"}`)
	if err == nil {
		t.Fatal("Expected error for unknown padding strategy")
	}
}

func TestTransformPrewitt(t *testing.T) {
	s := newTestServer()
	mustCallTool(t, s, "image_generate", `{"shape":"square","name":"sq"}`)

	result := mustCallTool(t, s, "transform_prewitt", `{"image":"sq"}`)
	res, ok := result.(*transformResult)
	if !ok {
		t.Fatalf("Result type: got %T", result)
	}

	if !strings.Contains(res.Name, "prewitt") {
		t.Errorf("Result name should carry the operation: %s", res.Name)
	}
	if res.Width != 200 || res.Height != 200 {
		t.Errorf("dimensions: got %dx%d, want 200x200", res.Width, res.Height)
	}
	if res.Preview == "" {
		t.Fatal("Preview should not be empty")
	}
	if _, err := base64.StdEncoding.DecodeString(res.Preview); err != nil {
		t.Errorf("Preview is not valid base64: %v", err)
	}

	// The result is registered so later calls can chain on it.
	if _, err := s.workspace.Get(res.Name); err != nil {
		t.Errorf("Result not registered: %v", err)
	}
}

func TestTransformDirectional(t *testing.T) {
	s := newTestServer()
	mustCallTool(t, s, "image_generate", `{"shape":"square","name":"sq"}`)

	result := mustCallTool(t, s, "transform_directional",
		`{"image":"sq","kernel":"sobel","direction":"horizontal"}`)
	res := result.(*transformResult)
	if res.Channels != 1 {
		t.Errorf("channels: got %d, want 1", res.Channels)
	}
}

func TestTransformDirectional_UnknownKernel(t *testing.T) {
	s := newTestServer()
	mustCallTool(t, s, "image_generate", `{"shape":"square","name":"sq"}`)

	_, err := callTool(t, s, "transform_directional",
		`{"image":"sq","kernel":"gauss","direction":"horizontal"}`)
	if err == nil {
		t.Fatal("Expected error for unknown kernel")
	}
}

func TestTransformCanny(t *testing.T) {
	s := newTestServer()
	mustCallTool(t, s, "image_generate", `{"shape":"square","name":"sq"}`)

	result := mustCallTool(t, s, "transform_canny",
		`{"image":"sq","low_threshold":50,"high_threshold":100}`)
	res := result.(*transformResult)

	out, err := s.workspace.Get(res.Name)
	if err != nil {
		t.Fatalf("Result not registered: %v", err)
	}

	// A step edge this strong survives the double threshold.
	borderPixels := 0
	for _, row := range out.Channels[0] {
		for _, v := range row {
			if v == imagery.MaxColor {
				borderPixels++
			}
		}
	}
	if borderPixels == 0 {
		t.Error("Canny found no border pixels on a square image")
	}
}

func TestTransformHoughLines(t *testing.T) {
	s := newTestServer()
	mustCallTool(t, s, "image_generate", `{"shape":"square","name":"sq"}`)
	canny := mustCallTool(t, s, "transform_canny",
		`{"image":"sq","low_threshold":50,"high_threshold":100}`).(*transformResult)

	args := `{"image":"` + canny.Name + `","thetas":[0,90],` +
		`"rho":{"start":0,"end":199,"count":200},"threshold":1,"most_fitted_ratio":0.9}`
	result := mustCallTool(t, s, "transform_hough_lines", args)
	res := result.(*transformResult)

	if len(res.Results) != 1 {
		t.Fatalf("Expected one channel result, got %d", len(res.Results))
	}
	count, ok := res.Results[0]["count"].(int)
	if !ok || count == 0 {
		t.Errorf("Expected fitted lines, got %v", res.Results[0]["count"])
	}
}

func TestTransformActiveOutline(t *testing.T) {
	s := newTestServer()
	mustCallTool(t, s, "image_generate", `{"shape":"square","name":"sq"}`)

	result := mustCallTool(t, s, "transform_active_outline",
		`{"image":"sq","threshold":50,"y1":90,"x1":90,"y2":110,"x2":110}`)
	res := result.(*transformResult)

	if len(res.Results) != 1 {
		t.Fatalf("Expected one channel result, got %d", len(res.Results))
	}
	if res.Results[0]["passes"] == nil {
		t.Error("Outline result should report passes")
	}
}

func TestImageHistogram(t *testing.T) {
	s := newTestServer()
	mustCallTool(t, s, "image_generate", `{"shape":"square","name":"sq"}`)

	result := mustCallTool(t, s, "image_histogram", `{"image":"sq"}`)
	histograms := result.(map[string]interface{})["histograms"].([][]float64)
	if len(histograms) != 1 {
		t.Fatalf("Expected 1 histogram, got %d", len(histograms))
	}

	var total float64
	for _, v := range histograms[0] {
		total += v
	}
	if total < 0.999 || total > 1.001 {
		t.Errorf("Histogram mass: got %v, want 1", total)
	}
	// A synthetic square image populates exactly the black and white bins.
	if histograms[0][0] == 0 || histograms[0][imagery.MaxColor] == 0 {
		t.Error("Expected mass in the black and white bins")
	}
}

func TestHandleToolsCall_WrapsResult(t *testing.T) {
	s := newTestServer()
	req := &Request{
		JSONRPC: "2.0",
		ID:      7,
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"image_generate","arguments":{"shape":"disc"}}`),
	}

	resp := s.handleToolsCall(context.Background(), req)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("Unexpected content shape: %v", content)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &payload); err != nil {
		t.Fatalf("Content is not valid JSON: %v", err)
	}
	if payload["name"] != imagery.DiscImageName {
		t.Errorf("payload name: got %v", payload["name"])
	}
}

func TestHandleToolsCall_ToolError(t *testing.T) {
	s := newTestServer()
	req := &Request{
		JSONRPC: "2.0",
		ID:      8,
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name":"transform_sobel","arguments":{"image":"missing"}}`),
	}

	resp := s.handleToolsCall(context.Background(), req)
	if resp.Error == nil {
		t.Fatal("Expected tool execution error")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}
