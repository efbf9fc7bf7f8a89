package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/classlog/internal/session"
	"github.com/starford/classlog/internal/sessionservice"
	"github.com/starford/classlog/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	_, store := testutil.Files(t, testutil.Merge(
		testutil.ClassSession("2024-01-09"),
		map[string]string{"2024-01-11/markers": "00:10\tQ&A Started\n"},
	))
	cat := session.NewCatalog(store, session.NewLoader(store, nil, nil, ""), session.DiscoverOptions{}, nil)
	if err := cat.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	return New(sessionservice.NewService(cat, nil, 2), "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handlers are
	// invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_sessions":
		result, err = srv.listSessions(ctx, req)
	case "search_sessions":
		result, err = srv.searchSessions(ctx, req)
	case "read_timeline":
		result, err = srv.readTimeline(ctx, req)
	case "validate_session":
		result, err = srv.validateSession(ctx, req)
	case "generate_comment":
		result, err = srv.generateComment(ctx, req)
	case "get_marker_contract":
		result, err = srv.getMarkerContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListSessions(t *testing.T) {
	srv := testServer(t)
	text := resultText(callTool(t, srv, "list_sessions", map[string]any{}))
	if !strings.Contains(text, "CL #01 2024-01-09\n") {
		t.Errorf("list = %q", text)
	}
	if !strings.Contains(text, "CL #02 2024-01-11\tmissing") {
		t.Errorf("list = %q", text)
	}
}

func TestSearchSessions(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "search_sessions", map[string]any{
		"query":            "closures",
		"sources":          "markers,captions",
		"case_insensitive": true,
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "CL #01 2024-01-09 (ch:1, cap:1)") {
		t.Errorf("search = %q", text)
	}
	if !strings.Contains(text, "markers: https://www.twitch.tv/videos/100?t=00h45m00s\t#2 Closures") {
		t.Errorf("search = %q", text)
	}

	r = callTool(t, srv, "search_sessions", map[string]any{"query": "x", "sources": "video"})
	if !r.IsError {
		t.Error("unknown source should be an error")
	}
}

func TestReadTimeline(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_timeline", map[string]any{
		"id":     "2024-01-09",
		"public": true,
		"offset": float64(-10),
	})
	lines := strings.Split(resultText(r), "\n")
	if len(lines) != 7 || lines[0] != "00:00\tIntro Started" {
		t.Errorf("lines = %q", lines)
	}

	r = callTool(t, srv, "read_timeline", map[string]any{"id": "2024-01-11", "source": "chat"})
	if !r.IsError || !strings.Contains(resultText(r), "source absent") {
		t.Errorf("absent = %q", resultText(r))
	}
	r = callTool(t, srv, "read_timeline", map[string]any{"id": "1999-01-01"})
	if !r.IsError {
		t.Error("unknown session should be an error")
	}
}

func TestValidateSession(t *testing.T) {
	srv := testServer(t)

	text := resultText(callTool(t, srv, "validate_session", map[string]any{"id": "2024-01-09"}))
	if text != "CL #01 2024-01-09: ok" {
		t.Errorf("clean = %q", text)
	}

	text = resultText(callTool(t, srv, "validate_session", map[string]any{}))
	if strings.Contains(text, "2024-01-09") {
		t.Errorf("clean session listed: %q", text)
	}
	if !strings.Contains(text, "10\tQ&A never ended") {
		t.Errorf("all = %q", text)
	}
}

func TestGenerateComment(t *testing.T) {
	srv := testServer(t)

	text := resultText(callTool(t, srv, "generate_comment", map[string]any{"id": "2024-01-09"}))
	if !strings.Contains(text, `"comment_id": "Ugx123"`) || !strings.Contains(text, `00:30\tQuestion of the Day`) {
		t.Errorf("comment = %s", text)
	}

	text = resultText(callTool(t, srv, "generate_comment", map[string]any{"id": "2024-01-09", "offset": float64(0)}))
	if !strings.Contains(text, `01:00\tQuestion of the Day`) {
		t.Errorf("offset comment = %s", text)
	}

	text = resultText(callTool(t, srv, "generate_comment", map[string]any{"id": "2024-01-11", "offset": float64(-3600)}))
	if text != "no public markers" {
		t.Errorf("empty comment = %q", text)
	}
}

func TestMarkerContract(t *testing.T) {
	srv := testServer(t)
	text := resultText(callTool(t, srv, "get_marker_contract", map[string]any{}))
	if text != MarkerFormatContract {
		t.Error("contract tool mismatch")
	}

	contents, err := srv.readMarkerFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
	if tc, ok := contents[0].(mcp.TextResourceContents); !ok || tc.URI != ContractURI {
		t.Errorf("resource = %+v", contents[0])
	}
}
