package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "vision_analyze_image",
			Description: "Analyze a still image and return a text report of recognized text (ranked by visual prominence), detected faces, object/scene labels, machine-readable codes, and salient regions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"image_path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path or file:// URI of the image",
					},
					"analysis_types": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "string",
							"enum": []string{"text", "faces", "objects", "scenes", "barcodes", "saliency"},
						},
						"description": "Analysis categories to run. 'objects' and 'scenes' are aliases for the same category. Unrecognized entries are ignored.",
					},
					"include_confidence": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to include confidence percentages in the report",
						"default":     false,
					},
				},
				"required": []string{"image_path", "analysis_types"},
			},
		},
		{
			Name:        "vision_image_info",
			Description: "Get the dimensions, format and file size of an image without analyzing it.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path or file:// URI of the image",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "vision_list_categories",
			Description: "List the analysis category tokens accepted by vision_analyze_image.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
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
