// Package server implements the MCP (Model Context Protocol) server for the
// vision analysis pipeline.
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Tools
//
//   - vision_analyze_image: full analysis of one image across the requested
//     categories, returned as a text report in a success/error envelope
//   - vision_image_info: image metadata without analysis
//   - vision_list_categories: accepted analysis tokens
//
// # Error Handling
//
// Malformed requests and unknown tools surface as JSON-RPC errors. Analysis
// failures never do: vision_analyze_image converts every pipeline error into
// its envelope's error field so automated callers can embed the status in a
// conversational response.
package server
