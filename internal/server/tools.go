package server

// Tool represents a callable tool definition exposed by tools/list.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageProp is the schema fragment for a workspace image reference.
func imageProp(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": desc,
	}
}

// paddingProp is the schema fragment for the border padding strategy shared
// by every convolution-based tool.
func paddingProp() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Padding strategy for pixels outside the image: zero, edge, reflect, or wrap. Default edge",
		"enum":        []string{"zero", "edge", "reflect", "wrap"},
		"default":     "edge",
	}
}

// rangeProp is the schema fragment for a linear parameter range
// (start, end, count of evenly spaced samples).
func rangeProp(desc string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": desc,
		"properties": map[string]interface{}{
			"start": map[string]interface{}{"type": "number"},
			"end":   map[string]interface{}{"type": "number"},
			"count": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"start", "end", "count"},
	}
}

// GetToolDefinitions returns all available tools.
func GetToolDefinitions() []Tool {
	return []Tool{
		// Workspace management
		{
			Name:        "image_load",
			Description: "Load an image file into the workspace and return its dimensions and channel count. Grayscale files become single-channel images, everything else three-channel RGB.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Workspace name for the image. Defaults to the file stem",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_generate",
			Description: "Generate a synthetic test image (a filled disc or a filled square on a dark background) and register it in the workspace.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"shape": map[string]interface{}{
						"type":        "string",
						"description": "Shape to generate",
						"enum":        []string{"disc", "square"},
					},
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Workspace name for the image. Defaults to the shape name",
					},
				},
				"required": []string{"shape"},
			},
		},
		{
			Name:        "image_save",
			Description: "Save a workspace image to disk. The format follows the file extension. Overlay annotations from the last transformation are rendered into the output.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the image to save"),
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute destination path",
					},
				},
				"required": []string{"image", "path"},
			},
		},
		{
			Name:        "image_presmooth",
			Description: "Apply a Gaussian blur to an image before detection, registering the result as a new workspace image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the source image"),
					"radius": map[string]interface{}{
						"type":        "number",
						"description": "Blur radius in pixels. Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "image_histogram",
			Description: "Compute the per-channel intensity histogram (256 bins) of a workspace image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the image"),
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "workspace_list",
			Description: "List the names of all images currently held in the workspace.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "workspace_evict",
			Description: "Remove an image from the workspace, freeing its pixel data.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the image to remove"),
				},
				"required": []string{"image"},
			},
		},

		// Border detection
		{
			Name:        "transform_directional",
			Description: "Detect borders along one of eight directions by rotating the outer ring of a named derivative kernel before convolving.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the source image"),
					"kernel": map[string]interface{}{
						"type":        "string",
						"description": "Derivative operator to rotate",
						"enum":        []string{"prewitt", "sobel", "juliana"},
					},
					"direction": map[string]interface{}{
						"type":        "string",
						"description": "Border direction to respond to",
						"enum": []string{
							"vertical", "positive_diagonal", "horizontal", "negative_diagonal",
						},
					},
					"padding": paddingProp(),
				},
				"required": []string{"image", "kernel", "direction"},
			},
		},
		{
			Name:        "transform_high_pass",
			Description: "Sharpen detail with a square high-pass kernel whose weights sum to zero.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the source image"),
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Kernel side length, odd and at least 3. Default 3",
						"default":     3,
					},
					"padding": paddingProp(),
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "transform_prewitt",
			Description: "Compute the Prewitt gradient modulus of each channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image":   imageProp("Workspace name of the source image"),
					"padding": paddingProp(),
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "transform_sobel",
			Description: "Compute the Sobel gradient modulus of each channel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image":   imageProp("Workspace name of the source image"),
					"padding": paddingProp(),
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "transform_laplace",
			Description: "Detect borders as zero crossings of the Laplacian.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the source image"),
					"crossing_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum sign-change magnitude to mark a crossing. Default 0",
						"default":     0.0,
					},
					"padding": paddingProp(),
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "transform_log",
			Description: "Detect borders as zero crossings of the Laplacian of Gaussian at a chosen scale.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the source image"),
					"sigma": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian scale. Controls the kernel size. Default 1.0",
						"default":     1.0,
					},
					"crossing_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Minimum sign-change magnitude to mark a crossing. Default 0",
						"default":     0.0,
					},
					"padding": paddingProp(),
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "transform_susan",
			Description: "Classify pixels with the SUSAN circular mask into flat regions, borders, and corners.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image":   imageProp("Workspace name of the source image"),
					"padding": paddingProp(),
				},
				"required": []string{"image"},
			},
		},
		{
			Name:        "transform_canny",
			Description: "Detect thin connected borders with the Canny pipeline: gradient, non-maximum suppression along the gradient direction, double threshold, and hysteresis.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the source image"),
					"low_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Lower hysteresis threshold on the normalized gradient (0-255)",
					},
					"high_threshold": map[string]interface{}{
						"type":        "number",
						"description": "Upper hysteresis threshold on the normalized gradient (0-255)",
					},
					"padding": paddingProp(),
				},
				"required": []string{"image", "low_threshold", "high_threshold"},
			},
		},

		// Feature detection
		{
			Name:        "transform_harris",
			Description: "Detect corners with the Harris response, banding the output into flat (0), edge (125), and corner (255) pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the source image"),
					"sigma": map[string]interface{}{
						"type":        "number",
						"description": "Gaussian window scale for the structure tensor. Default 1.0",
						"default":     1.0,
					},
					"k": map[string]interface{}{
						"type":        "number",
						"description": "Trace sensitivity constant. Default 0.05",
						"default":     0.05,
					},
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Corner threshold on the normalized response (0-255)",
					},
					"response": map[string]interface{}{
						"type":        "string",
						"description": "Response formulation to use. Default r1",
						"enum":        []string{"r1", "r2"},
						"default":     "r1",
					},
					"padding": paddingProp(),
				},
				"required": []string{"image", "threshold"},
			},
		},
		{
			Name:        "transform_hough_lines",
			Description: "Detect straight lines in a border image by voting in (theta, rho) space. The most voted lines are drawn as overlay segments clipped to the image border.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of a border image (nonzero pixels vote)"),
					"thetas": map[string]interface{}{
						"type":        "array",
						"description": "Angles to test, in degrees",
						"items":       map[string]interface{}{"type": "number"},
					},
					"rho":       rangeProp("Range of distances from the origin to test"),
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Maximum point-to-line distance for a vote",
					},
					"most_fitted_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Keep cells with more than this fraction of the maximum vote. Default 0.9",
						"default":     0.9,
					},
				},
				"required": []string{"image", "thetas", "rho", "threshold"},
			},
		},
		{
			Name:        "transform_hough_circles",
			Description: "Detect circles in a border image by voting in (radius, cx, cy) space. The most voted circles are drawn as overlays.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image":  imageProp("Workspace name of a border image (nonzero pixels vote)"),
					"radius": rangeProp("Range of radii to test"),
					"x_axis": rangeProp("Range of center x coordinates to test"),
					"y_axis": rangeProp("Range of center y coordinates to test"),
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Maximum squared-distance residual for a vote",
					},
					"most_fitted_ratio": map[string]interface{}{
						"type":        "number",
						"description": "Keep cells with more than this fraction of the maximum vote. Default 0.9",
						"default":     0.9,
					},
				},
				"required": []string{"image", "radius", "x_axis", "y_axis", "threshold"},
			},
		},

		// Segmentation
		{
			Name:        "transform_active_outline",
			Description: "Segment an object by evolving an active outline from a rectangular seed until the boundaries stop moving. Returns the outer and inner boundary overlays and pass statistics.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image": imageProp("Workspace name of the source image"),
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Maximum color distance from the seed mean for a pixel to join the object",
					},
					"y1": map[string]interface{}{"type": "integer", "description": "Seed rectangle top row"},
					"x1": map[string]interface{}{"type": "integer", "description": "Seed rectangle left column"},
					"y2": map[string]interface{}{"type": "integer", "description": "Seed rectangle bottom row (exclusive)"},
					"x2": map[string]interface{}{"type": "integer", "description": "Seed rectangle right column (exclusive)"},
				},
				"required": []string{"image", "threshold", "y1", "x1", "y2", "x2"},
			},
		},
		{
			Name:        "transform_active_outline_next",
			Description: "Continue an active outline onto the next frame of a sequence, starting from the converged state of a previously outlined image of the same dimensions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"previous": imageProp("Workspace name of the already outlined image"),
					"image":    imageProp("Workspace name of the next frame"),
					"frame": map[string]interface{}{
						"type":        "integer",
						"description": "Zero-based index of the next frame, used for the running mean duration",
					},
				},
				"required": []string{"previous", "image", "frame"},
			},
		},
	}
}
