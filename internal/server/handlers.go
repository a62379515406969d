package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
	"github.com/visiontools/vision-analyze-mcp/internal/report"
	"github.com/visiontools/vision-analyze-mcp/internal/vision"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "vision_analyze_image").
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
// Malformed parameters return a JSON-RPC error; analysis failures do not.
// The analyze tool converts every pipeline error into its envelope so the
// automated caller always receives a structured status.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "vision_analyze_image":
		return s.handleAnalyzeImage(args)
	case "vision_image_info":
		return s.handleImageInfo(args)
	case "vision_list_categories":
		return s.handleListCategories()
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

// === Tool Handlers ===

type analyzeImageArgs struct {
	ImagePath         string   `json:"image_path"`
	AnalysisTypes     []string `json:"analysis_types"`
	IncludeConfidence bool     `json:"include_confidence"`
}

// handleAnalyzeImage runs the full analysis pipeline and always returns an
// envelope: success with a text report, or failure with a message and zero
// results.
func (s *Server) handleAnalyzeImage(args json.RawMessage) (interface{}, error) {
	var a analyzeImageArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	categories := vision.ParseCategories(a.AnalysisTypes)
	if len(categories) == 0 {
		return report.Failure(vision.NewError(vision.ErrNoCategoriesRequested,
			"no valid analysis categories in %v", a.AnalysisTypes)), nil
	}

	agg, err := s.analyzer.AnalyzeReference(context.Background(), a.ImagePath, categories)
	if err != nil {
		return report.Failure(err), nil
	}

	return report.Render(agg, report.Options{
		IncludeConfidence: a.IncludeConfidence,
		MaxObjectResults:  s.cfg.MaxObjectResults,
	}), nil
}

type imageInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a imageInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return preprocess.Inspect(a.Path)
}

// categoryListing describes one accepted analysis token.
type categoryListing struct {
	Token    string `json:"token"`
	Category string `json:"category"`
}

func (s *Server) handleListCategories() (interface{}, error) {
	tokens := vision.CategoryTokens()
	listing := make([]categoryListing, 0, len(tokens))
	for _, tok := range []string{"text", "faces", "objects", "scenes", "objects-and-scenes", "barcodes", "saliency"} {
		listing = append(listing, categoryListing{Token: tok, Category: string(tokens[tok])})
	}
	return map[string]interface{}{"categories": listing}, nil
}
