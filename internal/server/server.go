package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/visiontools/vision-analyze-mcp/internal/analyze"
	"github.com/visiontools/vision-analyze-mcp/internal/config"
	"github.com/visiontools/vision-analyze-mcp/internal/extract"
	"github.com/visiontools/vision-analyze-mcp/internal/preprocess"
)

// Server handles MCP protocol communication for the vision analysis tools.
type Server struct {
	cfg      *config.Config
	analyzer *analyze.Analyzer
	log      *logrus.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server with the default capability set.
func New(cfg *config.Config, log *logrus.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	pre := preprocess.New(cfg.MaxDimension, cfg.TempDir, log)
	caps := extract.DefaultSet(extract.Config{
		OCRLanguage:     cfg.OCRLanguage,
		FaceCascadePath: cfg.FaceCascadePath,
	})

	return &Server{
		cfg:      cfg,
		analyzer: analyze.New(pre, caps, log),
		log:      log,
	}
}

// NewWithAnalyzer creates a server over a prebuilt analyzer. Tests use this
// to inject fake capabilities.
func NewWithAnalyzer(cfg *config.Config, analyzer *analyze.Analyzer, log *logrus.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{cfg: cfg, analyzer: analyzer, log: log}
}

// Run starts the MCP server, reading from stdin and writing to stdout.
// Logging goes to stderr; stdout carries only the JSON-RPC stream.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(os.Stdin)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(os.Stdout)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("failed to parse request")
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.WithError(err).Error("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "vision-analyze-mcp",
				"version": "0.1.0",
			},
		},
	}
}
