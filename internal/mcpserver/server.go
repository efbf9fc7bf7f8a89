// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes classlog tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/classlog/internal/search"
	"github.com/starford/classlog/internal/sessionservice"
	"github.com/starford/classlog/internal/timecode"
)

// ContractURI is the resource URI of the marker format contract.
const ContractURI = "classlog://marker-format"

// Server wraps the MCP server with classlog tools.
type Server struct {
	mcp *server.MCPServer
	svc *sessionservice.Service
}

// New creates a new MCP server with all classlog tools registered.
func New(svc *sessionservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"classlog",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_sessions",
		mcp.WithDescription("List every recorded class and office-hours session with the artifacts it is missing."),
	), s.listSessions)

	s.mcp.AddTool(mcp.NewTool("search_sessions",
		mcp.WithDescription("Search marker labels, captions, chat, links and slides across all sessions. "+
			"Results link to the stream at the matching timestamp."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to look for")),
		mcp.WithString("sources", mcp.Description("Comma-separated sources: markers, captions, chat, links, slides (default markers,links)")),
		mcp.WithBoolean("case_insensitive", mcp.Description("Ignore case when matching")),
	), s.searchSessions)

	s.mcp.AddTool(mcp.NewTool("read_timeline",
		mcp.WithDescription("Read one timeline of a session as TAB-separated timestamp and label lines."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session id (YYYY-MM-DD)")),
		mcp.WithString("source", mcp.Description("markers, captions or chat (default markers)")),
		mcp.WithNumber("offset", mcp.Description("Seconds added to every timestamp")),
		mcp.WithBoolean("public", mcp.Description("Only return publishable entries")),
	), s.readTimeline)

	s.mcp.AddTool(mcp.NewTool("validate_session",
		mcp.WithDescription("Check a session for missing artifacts and unbalanced Started/Ended markers. "+
			"Omit id to check every session."),
		mcp.WithString("id", mcp.Description("Session id (YYYY-MM-DD)")),
	), s.validateSession)

	s.mcp.AddTool(mcp.NewTool("generate_comment",
		mcp.WithDescription("Generate the YouTube timestamp comment of a session from its public markers."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Session id (YYYY-MM-DD)")),
		mcp.WithNumber("offset", mcp.Description("Seconds to shift markers by instead of the YouTube link's start")),
	), s.generateComment)

	s.mcp.AddTool(mcp.NewTool("get_marker_contract",
		mcp.WithDescription("Returns the classlog marker file format contract. "+
			"Call this before proposing markers for a session."),
	), s.getMarkerContract)

	// Resource: marker format contract.
	s.mcp.AddResource(
		mcp.NewResource(ContractURI, "Marker Format Contract",
			mcp.WithResourceDescription("Session artifact formats: markers, links, captions and chat."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMarkerFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// toolError turns a service error into a tool-level error result.
func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func (s *Server) listSessions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items := s.svc.ListSessions(ctx)
	var b strings.Builder
	for _, it := range items {
		b.WriteString(it.Slug)
		if len(it.Missing) > 0 {
			b.WriteString("\tmissing " + strings.Join(it.Missing, ", "))
		}
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("no sessions found"), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) searchSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return toolError(err)
	}
	var names []string
	if raw := req.GetString("sources", ""); raw != "" {
		names = []string{raw}
	}
	sources, err := search.ParseSources(names)
	if err != nil {
		return toolError(err)
	}
	results, err := s.svc.Search(ctx, search.Query{
		Text:            query,
		Sources:         sources,
		CaseInsensitive: req.GetBool("case_insensitive", false),
	})
	if err != nil {
		return toolError(err)
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}

	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s %s\n", r.Session.Slug(), r.Matches.Abbr())
		if r.Err != nil {
			fmt.Fprintf(&b, "  error: %v\n", r.Err)
		}
		for _, sec := range r.Matches.Sections() {
			for _, line := range sec.Lines {
				fmt.Fprintf(&b, "  %s: %s\n", sec.Name, line)
			}
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) readTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return toolError(err)
	}
	opts := sessionservice.TimelineOptions{
		Offset: timecode.Seconds(int64(req.GetFloat("offset", 0))),
		Public: req.GetBool("public", false),
	}
	v, err := s.svc.Timeline(ctx, id, req.GetString("source", "markers"), opts)
	if err != nil {
		return toolError(err)
	}
	if len(v.Lines) == 0 {
		return mcp.NewToolResultText("timeline is empty"), nil
	}
	return mcp.NewToolResultText(strings.Join(v.Lines, "\n")), nil
}

func (s *Server) validateSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id != "" {
		rep, err := s.svc.Validate(ctx, id)
		if err != nil {
			return toolError(err)
		}
		if rep.Clean() {
			return mcp.NewToolResultText(rep.Session.Slug() + ": ok"), nil
		}
		return mcp.NewToolResultText(rep.Session.Slug() + "\n" + strings.Join(rep.Lines(), "\n")), nil
	}

	reports, err := s.svc.ValidateAll(ctx)
	if err != nil {
		return toolError(err)
	}
	var b strings.Builder
	for _, rep := range reports {
		if rep.Clean() {
			continue
		}
		b.WriteString(rep.Session.Slug() + "\n")
		for _, line := range rep.Lines() {
			b.WriteString("  " + line + "\n")
		}
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("all sessions ok"), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) generateComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return toolError(err)
	}
	var offset *time.Duration
	if _, ok := req.GetArguments()["offset"]; ok {
		d := timecode.Seconds(int64(req.GetFloat("offset", 0)))
		offset = &d
	}
	c, err := s.svc.Comment(ctx, id, offset)
	if err != nil {
		return toolError(err)
	}
	if c.Text == "" {
		return mcp.NewToolResultText("no public markers"), nil
	}
	out, _ := json.MarshalIndent(c, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getMarkerContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MarkerFormatContract), nil
}

func (s *Server) readMarkerFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ContractURI,
			MIMEType: "text/markdown",
			Text:     MarkerFormatContract,
		},
	}, nil
}
