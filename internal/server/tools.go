package server

import "github.com/ironsheep/mask-studio-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session id returned by editor_open",
		"minLength":   1,
	}
}

// sessionOnly is the schema of tools that take nothing but a session id.
func sessionOnly() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"session_id": sessionIDProperty(),
		},
		"required": []string{"session_id"},
	}
}

func rectSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": description,
		"properties": map[string]interface{}{
			"x": map[string]interface{}{"type": "number"},
			"y": map[string]interface{}{"type": "number"},
			"w": map[string]interface{}{"type": "number", "minimum": 0},
			"h": map[string]interface{}{"type": "number", "minimum": 0},
		},
		"required": []string{"x", "y", "w", "h"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Session Lifecycle
		{
			Name:        "editor_open",
			Description: "Open a mask editor on a source image. Returns a session id used by every other editor tool, plus the image's native dimensions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the source image",
						"minLength":   1,
					},
					"variant": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"full", "modal"},
						"description": "Editor variant. In the modal editor a held Space pans. Default full",
						"default":     "full",
					},
					"reference_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional reference image sent along with the edit request",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "editor_close",
			Description: "Close an editor session and release its images.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "editor_set_source",
			Description: "Replace the session's source image. Selection, paint and tool state are reset.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the new source image",
						"minLength":   1,
					},
					"reference_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional new reference image. Omit to keep the current one, empty string to drop it",
					},
				},
				"required": []string{"session_id", "path"},
			},
		},

		// Tools and Input
		{
			Name:        "editor_set_tool",
			Description: "Switch the active tool. Any drag or stroke in progress is abandoned.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"tool": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"select", "brush", "eraser", "pan"},
						"description": "Tool to activate",
					},
				},
				"required": []string{"session_id", "tool"},
			},
		},
		{
			Name:        "editor_set_brush",
			Description: "Change the brush size (display pixels) and/or colour used for later strokes.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"size": map[string]interface{}{
						"type":        "number",
						"minimum":     1,
						"description": "Brush width in display pixels",
					},
					"color": map[string]interface{}{
						"type":        "string",
						"pattern":     imaging.HexPattern,
						"description": "Brush colour as hex (#RRGGBB or #RGB)",
					},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "editor_key",
			Description: "Report a modifier key press or release. Shift adds to the selection, Alt subtracts (Alt wins), Space pans in the modal editor. Auto-repeat presses are ignored.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"key": map[string]interface{}{
						"type": "string",
						"enum": []string{"Shift", "Alt", "Space"},
					},
					"action": map[string]interface{}{
						"type": "string",
						"enum": []string{"down", "up"},
					},
					"repeat": map[string]interface{}{
						"type":        "boolean",
						"description": "True for auto-repeat key-down events",
						"default":     false,
					},
				},
				"required": []string{"session_id", "key", "action"},
			},
		},
		{
			Name:        "editor_pointer",
			Description: "Feed pointer events in client coordinates. The viewport describes the image layout at the time of the events and is used to map them into native image pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"viewport": map[string]interface{}{
						"type":        "object",
						"description": "Image container origin in client space, zoom factor and displayed image size",
						"properties": map[string]interface{}{
							"origin_x":       map[string]interface{}{"type": "number"},
							"origin_y":       map[string]interface{}{"type": "number"},
							"zoom":           map[string]interface{}{"type": "number"},
							"display_width":  map[string]interface{}{"type": "number", "minimum": 0},
							"display_height": map[string]interface{}{"type": "number", "minimum": 0},
						},
						"required": []string{"display_width", "display_height"},
					},
					"events": map[string]interface{}{
						"type":     "array",
						"minItems": 1,
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"kind": map[string]interface{}{
									"type": "string",
									"enum": []string{"press", "drag", "release", "cancel", "down", "move", "up", "leave"},
								},
								"client_x": map[string]interface{}{"type": "number"},
								"client_y": map[string]interface{}{"type": "number"},
							},
							"required": []string{"kind", "client_x", "client_y"},
						},
						"description": "Events applied in order",
					},
				},
				"required": []string{"session_id", "viewport", "events"},
			},
		},
		{
			Name:        "editor_clear",
			Description: "Clear the selection, the painted mask, or both.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"target": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"selection", "mask", "all"},
						"description": "What to clear. Default all",
						"default":     "all",
					},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "editor_state",
			Description: "Get the active tool, held modifiers, committed selection rectangles, any provisional rectangle and the cursor position.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "editor_select_text",
			Description: "Find words in the source image with OCR and commit their boxes as selection rectangles.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"replace", "additive", "subtractive"},
						"description": "How word boxes combine with the current selection. Default additive",
						"default":     "additive",
					},
					"padding": map[string]interface{}{
						"type":        "number",
						"minimum":     0,
						"description": "Pixels added around each word box. Default 4",
						"default":     4,
					},
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Defaults to the configured language",
					},
					"min_confidence": map[string]interface{}{
						"type":        "number",
						"minimum":     0,
						"maximum":     100,
						"description": "Minimum word confidence (0-100). Defaults to the configured value",
					},
					"region": rectSchema("Optional native pixel region to search"),
				},
				"required": []string{"session_id"},
			},
		},

		// Output
		{
			Name:        "editor_zones",
			Description: "Resolve the selection and painted mask into edit zones on the 1000x1000 normalized grid. Fails when nothing is selected or painted.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "editor_submit",
			Description: "Build the edit request: the prompt annotated with [EDIT_ZONE: y1, x1, y2, x2] tags, the zones, and the source (and reference) images as base64 PNG. Fails when nothing is selected or painted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"prompt": map[string]interface{}{
						"type":        "string",
						"description": "Edit instruction for the generation model",
						"minLength":   1,
					},
					"include_images": map[string]interface{}{
						"type":        "boolean",
						"description": "Attach source and reference images. Default true",
						"default":     true,
					},
				},
				"required": []string{"session_id", "prompt"},
			},
		},
		{
			Name:        "editor_render",
			Description: "Render the source image with the painted mask and selection outlines as a base64 PNG. Optionally overlays the normalized grid with labels every 100 units.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Overlay the normalized grid. Default false",
						"default":     false,
					},
					"show_mask": map[string]interface{}{
						"type":        "boolean",
						"description": "Composite the painted layer. Default true",
						"default":     true,
					},
				},
				"required": []string{"session_id"},
			},
		},
		{
			Name:        "editor_export_mask",
			Description: "Export the painted layer as a black and white PNG at native resolution. White marks painted pixels.",
			InputSchema: sessionOnly(),
		},
		{
			Name:        "editor_zone_previews",
			Description: "Crop the source image to each resolved edit zone and return the crops as base64 PNG. Pass an annotated prompt from an earlier submit to preview its [EDIT_ZONE] tags instead.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"session_id": sessionIDProperty(),
					"max_size": map[string]interface{}{
						"type":        "integer",
						"minimum":     16,
						"description": "Longest side of each preview. Defaults to the configured size",
					},
					"prompt": map[string]interface{}{
						"type":        "string",
						"description": "Annotated prompt whose [EDIT_ZONE: y1, x1, y2, x2] tags replace the editor's current zones",
					},
				},
				"required": []string{"session_id"},
			},
		},
	}
}

// findTool returns the definition named name.
func findTool(name string) (Tool, bool) {
	for _, t := range GetToolDefinitions() {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
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
