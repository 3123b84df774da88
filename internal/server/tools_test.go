package server

import (
	"encoding/json"
	"testing"
)

func TestGetToolDefinitions_UniqueNames(t *testing.T) {
	tools := GetToolDefinitions()
	seen := make(map[string]bool)
	for _, tool := range tools {
		if tool.Name == "" {
			t.Error("Tool with empty name")
		}
		if seen[tool.Name] {
			t.Errorf("Duplicate tool name: %s", tool.Name)
		}
		seen[tool.Name] = true
	}
}

func TestGetToolDefinitions_ExpectedCatalog(t *testing.T) {
	expected := []string{
		"image_load",
		"image_generate",
		"image_save",
		"image_presmooth",
		"image_histogram",
		"workspace_list",
		"workspace_evict",
		"transform_directional",
		"transform_high_pass",
		"transform_prewitt",
		"transform_sobel",
		"transform_laplace",
		"transform_log",
		"transform_susan",
		"transform_canny",
		"transform_harris",
		"transform_hough_lines",
		"transform_hough_circles",
		"transform_active_outline",
		"transform_active_outline_next",
	}

	tools := GetToolDefinitions()
	byName := make(map[string]Tool, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
	}

	for _, name := range expected {
		if _, ok := byName[name]; !ok {
			t.Errorf("Missing tool: %s", name)
		}
	}
	if len(tools) != len(expected) {
		t.Errorf("Tool count: got %d, want %d", len(tools), len(expected))
	}
}

func TestGetToolDefinitions_ValidSchemas(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Description should not be empty")
			}

			schema := tool.InputSchema
			if schema["type"] != "object" {
				t.Errorf("Schema type: got %v, want object", schema["type"])
			}

			props, ok := schema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("Schema should have a properties map")
			}

			// Every required field must be declared as a property.
			if required, ok := schema["required"].([]string); ok {
				for _, field := range required {
					if _, ok := props[field]; !ok {
						t.Errorf("Required field %q not in properties", field)
					}
				}
			}
		})
	}
}

func TestGetToolDefinitions_Serializable(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions())
	if err != nil {
		t.Fatalf("Failed to marshal tool definitions: %v", err)
	}

	var decoded []Tool
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal tool definitions: %v", err)
	}
	if len(decoded) != len(GetToolDefinitions()) {
		t.Errorf("Round trip lost tools: got %d", len(decoded))
	}
}
