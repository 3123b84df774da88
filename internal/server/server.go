package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"pixelscope/internal/imagery"
)

// Version is reported by the initialize handshake.
const Version = "0.1.0"

// defaultCallTimeout bounds a single tools/call execution. Hough sweeps over
// large parameter grids and outline evolution can run long; a bounded call
// keeps the stdio loop responsive.
const defaultCallTimeout = 5 * time.Minute

// Server handles JSON-RPC protocol communication and owns the image
// workspace shared by all tool calls.
type Server struct {
	workspace   *imagery.Workspace
	log         zerolog.Logger
	in          io.Reader
	out         io.Writer
	callTimeout time.Duration
}

// Request represents an incoming JSON-RPC request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents an outgoing JSON-RPC response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents a JSON-RPC error object.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server bound to stdin/stdout with a fresh workspace.
func New(log zerolog.Logger) *Server {
	return &Server{
		workspace:   imagery.NewWorkspace(),
		log:         log,
		in:          os.Stdin,
		out:         os.Stdout,
		callTimeout: defaultCallTimeout,
	}
}

// Run reads requests line by line until EOF or a read error. The context
// cancels in-flight tool calls and stops the loop at the next request
// boundary.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	// Requests can carry whole parameter grids; allow large lines.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(s.out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn().Err(err).Msg("failed to parse request")
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error().Err(err).Msg("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to the appropriate handlers.
func (s *Server) handleRequest(ctx context.Context, req *Request) *Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed.
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &Error{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize handshake.
func (s *Server) handleInitialize(req *Request) *Response {
	return &Response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "pixelscope",
				"version": Version,
			},
		},
	}
}
