// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note store to LLM tools via stdio transport.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/scrapnote/internal/apperr"
	"github.com/starford/scrapnote/internal/noteservice"
)

const notesURI = "scrapnote://notes"

// Server wraps the MCP server with note tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *noteservice.Service
	logger *slog.Logger
}

// New creates a new MCP server with all note tools registered.
func New(svc *noteservice.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{svc: svc, logger: logger}

	s.mcp = server.NewMCPServer(
		"scrapnote",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List note names, optionally only those containing a substring."),
		mcp.WithString("key", mcp.Description("Substring the note name must contain (empty for all)")),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the plain-text content of a note. A missing note is created empty."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name, used verbatim as the file name")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("write_note",
		mcp.WithDescription("Replace the content of a note, creating it if needed."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Note name, used verbatim as the file name")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Complete new plain-text content")),
	), s.writeNote)

	s.mcp.AddResource(
		mcp.NewResource(notesURI, "Notes",
			mcp.WithResourceDescription("Names of all notes, one per line."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readNotesResource,
	)

	return s
}

// Serve runs the MCP protocol over in/out until ctx ends or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.names(ctx, req.GetString("key", ""))
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.svc.GetNote(ctx, name)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) writeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.SaveNote(ctx, name, content); err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s", name)), nil
}

func (s *Server) readNotesResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := s.names(ctx, "")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      notesURI,
			MIMEType: "text/plain",
			Text:     strings.Join(names, "\n"),
		},
	}, nil
}

func (s *Server) names(ctx context.Context, key string) ([]string, error) {
	items, err := s.svc.ListNotes(ctx, key)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names, nil
}

// toolError reports a store failure to the model without leaking paths for
// unexpected errors.
func toolError(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrInvalidName):
		return mcp.NewToolResultError(err.Error())
	default:
		return mcp.NewToolResultError("store unavailable")
	}
}
