package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// ToolHandler is a tool the server exposes to clients.
type ToolHandler struct {
	// Definition describes the tool (name, description, input schema).
	Definition ToolDefinition
	// Execute is called when the client invokes tools/call for this tool.
	Execute func(ctx context.Context, args json.RawMessage) ToolCallResult
}

// Resource is a readable data source exposed via resources/list and
// resources/read.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
	// Read returns the resource content. Called on each resources/read.
	Read func() string
}

// Server is an MCP server speaking JSON-RPC 2.0 over stdio.
// Register tools and resources before calling Serve; registration is not
// safe once Serve is running.
type Server struct {
	name    string
	version string

	tools     []ToolHandler
	toolIdx   map[string]int
	resources []Resource
	resIdx    map[string]int

	logger *slog.Logger

	// reader/writer can be overridden for testing (default stdin/stdout).
	reader io.Reader
	writer io.Writer
	mu     sync.Mutex // serializes writes
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a structured logger for protocol-level diagnostics.
// Logs go to the logger's own destination, never to the stdio transport.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates an MCP server with the given name and version.
func New(name, version string, opts ...Option) *Server {
	s := &Server{
		name:    name,
		version: version,
		toolIdx: make(map[string]int),
		resIdx:  make(map[string]int),
		logger:  slog.New(discardHandler{}),
		reader:  os.Stdin,
		writer:  os.Stdout,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// AddTool registers a tool handler. Must be called before Serve.
func (s *Server) AddTool(h ToolHandler) {
	s.toolIdx[h.Definition.Name] = len(s.tools)
	s.tools = append(s.tools, h)
}

// AddResource registers a resource. Must be called before Serve.
func (s *Server) AddResource(r Resource) {
	s.resIdx[r.URI] = len(s.resources)
	s.resources = append(s.resources, r)
}

// Serve reads JSON-RPC messages from the transport and writes responses
// until the input closes or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 0, 10<<20), 10<<20) // 10MB max message

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		s.handleMessage(ctx, line)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("mcp: read transport: %w", err)
	}
	return nil
}

// handleMessage dispatches a single JSON-RPC message or batch.
func (s *Server) handleMessage(ctx context.Context, data []byte) {
	if len(data) > 0 && data[0] == '[' {
		var batch []json.RawMessage
		if err := json.Unmarshal(data, &batch); err != nil {
			s.writeResponse(errorResponse(json.RawMessage("null"), errCodeParse, "parse error"))
			return
		}
		for _, raw := range batch {
			s.handleSingle(ctx, raw)
		}
		return
	}
	s.handleSingle(ctx, data)
}

func (s *Server) handleSingle(ctx context.Context, data []byte) {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		s.writeResponse(errorResponse(json.RawMessage("null"), errCodeParse, "parse error"))
		return
	}

	if resp := s.dispatch(ctx, &req); resp != nil {
		s.writeResponse(*resp)
	}
}

// dispatch routes a request to its handler. Returns nil for notifications.
func (s *Server) dispatch(ctx context.Context, req *request) *response {
	s.logger.Debug("mcp: request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized", "notifications/cancelled":
		return nil
	case "ping":
		return okResponse(req.ID, struct{}{})
	case "tools/list":
		return okResponse(req.ID, toolsListResult{Tools: s.toolDefs()})
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return okResponse(req.ID, resourcesListResult{Resources: s.resourceDefs()})
	case "resources/read":
		return s.handleResourcesRead(req)
	default:
		if req.isNotification() {
			return nil
		}
		return errorResponsePtr(req.ID, errCodeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) handleInitialize(req *request) *response {
	var params initializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err == nil {
			s.logger.Info("mcp: client connected",
				"client", params.ClientInfo.Name,
				"version", params.ClientInfo.Version,
				"protocol", params.ProtocolVersion)
		}
	}

	caps := serverCapabilities{}
	if len(s.tools) > 0 {
		caps.Tools = &capability{}
	}
	if len(s.resources) > 0 {
		caps.Resources = &capability{}
	}
	return okResponse(req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    caps,
		ServerInfo:      serverInfo{Name: s.name, Version: s.version},
	})
}

func (s *Server) toolDefs() []ToolDefinition {
	defs := make([]ToolDefinition, len(s.tools))
	for i, t := range s.tools {
		defs[i] = t.Definition
	}
	return defs
}

func (s *Server) resourceDefs() []resourceDef {
	defs := make([]resourceDef, len(s.resources))
	for i, r := range s.resources {
		defs[i] = resourceDef{URI: r.URI, Name: r.Name, Description: r.Description, MimeType: r.MimeType}
	}
	return defs
}

func (s *Server) handleToolsCall(ctx context.Context, req *request) *response {
	var params toolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponsePtr(req.ID, errCodeInvalidParams, "invalid params: "+err.Error())
	}

	i, ok := s.toolIdx[params.Name]
	if !ok {
		return okResponse(req.ID, ErrorResult("unknown tool: "+params.Name))
	}
	return okResponse(req.ID, s.tools[i].Execute(ctx, params.Arguments))
}

func (s *Server) handleResourcesRead(req *request) *response {
	var params resourceReadParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponsePtr(req.ID, errCodeInvalidParams, "invalid params: "+err.Error())
	}

	i, ok := s.resIdx[params.URI]
	if !ok {
		return errorResponsePtr(req.ID, errCodeResourceNotFound, "resource not found: "+params.URI)
	}
	r := s.resources[i]
	return okResponse(req.ID, resourceReadResult{
		Contents: []resourceContent{{URI: r.URI, MimeType: r.MimeType, Text: r.Read()}},
	})
}

// --- response helpers ---

func okResponse(id json.RawMessage, result any) *response {
	return &response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) response {
	return response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}

func errorResponsePtr(id json.RawMessage, code int, message string) *response {
	resp := errorResponse(id, code, message)
	return &resp
}

func (s *Server) writeResponse(resp response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("mcp: marshal response", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data = append(data, '\n')
	if _, err := s.writer.Write(data); err != nil {
		s.logger.Error("mcp: write response", "error", err)
	}
}
