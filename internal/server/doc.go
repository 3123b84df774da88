// Package server exposes the transformation catalog over a line-delimited
// JSON-RPC 2.0 protocol on stdin/stdout, so an interactive front end or a
// scripting client can drive the engine without linking against it.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Workspace
//
// Every loaded or transformed image is registered in an imagery.Workspace
// under its name. Transformation tools reference inputs by name, so a client
// can chain operations (load, presmooth, canny, hough lines) without moving
// pixel data back and forth. Results carry the per-channel metrics of the
// operation plus an optional base64 PNG preview with overlay annotations
// rendered in.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// All protocol traffic stays on stdout; logging goes to stderr.
package server
