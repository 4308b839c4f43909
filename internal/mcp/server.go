package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fixwell/mrt/internal/tracker"
)

// Server wraps the tracker service and exposes it as MCP tools, so agents
// can file and inspect maintenance requests without going through HTTP.
type Server struct {
	tracker *tracker.Service
}

// NewServer creates the MCP server wrapper.
func NewServer(svc *tracker.Service) *Server {
	return &Server{tracker: svc}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("mrt", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.submitRequestTool())
	srv.AddTool(s.listRequestsTool())
	srv.AddTool(s.analyticsTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// mrt_submit_request
func (s *Server) submitRequestTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("mrt_submit_request",
		mcp.WithDescription("Submit a new maintenance request. The request is auto-classified into a category (Plumbing, Electrical, HVAC, Furniture, General) and summarized. Returns the persisted record as JSON."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Short title, at most 255 characters")),
		mcp.WithString("description", mcp.Required(), mcp.Description("Full description of the issue")),
		mcp.WithString("priority", mcp.Description("Priority: Low, Medium, or High (default Low)")),
		mcp.WithString("status", mcp.Description("Status: Pending, In Progress, or Completed (default Pending)")),
	)
	return tool, s.handleSubmitRequest
}

func (s *Server) handleSubmitRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := tracker.CreateInput{
		Title:       request.GetString("title", ""),
		Description: request.GetString("description", ""),
		Priority:    request.GetString("priority", ""),
		Status:      request.GetString("status", ""),
	}

	req, err := s.tracker.Create(ctx, in)
	if err != nil {
		var verr *tracker.ValidationError
		if errors.As(err, &verr) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid request: %v", verr)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to submit request: %v", err)), nil
	}

	data, err := json.Marshal(req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// mrt_list_requests
func (s *Server) listRequestsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("mrt_list_requests",
		mcp.WithDescription("List maintenance requests, newest first. Returns a JSON object with items, total, page, and pages."),
		mcp.WithNumber("skip", mcp.Description("Number of records to skip (default 0)")),
		mcp.WithNumber("limit", mcp.Description("Max records per page, 1-100 (default 5)")),
	)
	return tool, s.handleListRequests
}

func (s *Server) handleListRequests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	skip := request.GetInt("skip", 0)
	limit := request.GetInt("limit", 5)
	if skip < 0 || limit < 1 || limit > 100 {
		return mcp.NewToolResultError("skip must be >= 0 and limit between 1 and 100"), nil
	}

	page, err := s.tracker.List(ctx, skip, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list requests: %v", err)), nil
	}

	data, err := json.Marshal(page)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal requests: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// mrt_analytics
func (s *Server) analyticsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("mrt_analytics",
		mcp.WithDescription("Get aggregate statistics: total_requests, most_common_category, and high_priority_count."),
	)
	return tool, s.handleAnalytics
}

func (s *Server) handleAnalytics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.tracker.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load analytics: %v", err)), nil
	}

	data, err := json.Marshal(stats)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal analytics: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
