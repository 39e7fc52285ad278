package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// testServer builds a server with a lookup tool and one catalog resource,
// wired to in-memory buffers instead of stdio.
func testServer(t *testing.T, input string) (*Server, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	s := New("stlref-test", "0.0.1")
	s.reader = strings.NewReader(input)
	s.writer = out

	s.AddTool(ToolHandler{
		Definition: ToolDefinition{
			Name:        "lookup_operation",
			Description: "Look up a documented operation by name.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
				"required": []string{"name"},
			},
		},
		Execute: func(_ context.Context, args json.RawMessage) ToolCallResult {
			var params struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(args, &params); err != nil {
				return ErrorResult("invalid arguments")
			}
			if params.Name != "sort_descending" {
				return ErrorResult("operation not found: " + params.Name)
			}
			return TextResult("sort_descending: sorts a sequence from largest to smallest")
		},
	})

	s.AddResource(Resource{
		URI:         "stlref://algorithm/sort_descending",
		Name:        "sort_descending",
		Description: "Sorting and Partitioning",
		MimeType:    "text/markdown",
		Read:        func() string { return "# sort_descending\n\nSorts largest first." },
	})

	return s, out
}

// responses parses the newline-delimited output into decoded JSON objects.
func responses(t *testing.T, out *bytes.Buffer) []map[string]any {
	t.Helper()

	var got []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad response line %q: %v", line, err)
		}
		got = append(got, m)
	}
	return got
}

func serve(t *testing.T, input string) []map[string]any {
	t.Helper()

	s, out := testServer(t, input)
	if err := s.Serve(context.Background()); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	return responses(t, out)
}

func result(t *testing.T, resp map[string]any) map[string]any {
	t.Helper()

	r, ok := resp["result"].(map[string]any)
	if !ok {
		t.Fatalf("no result in %v", resp)
	}
	return r
}

func TestInitialize(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`+"\n")
	if len(got) != 1 {
		t.Fatalf("responses = %d, want 1", len(got))
	}

	r := result(t, got[0])
	if r["protocolVersion"] != protocolVersion {
		t.Errorf("protocolVersion = %v", r["protocolVersion"])
	}
	info := r["serverInfo"].(map[string]any)
	if info["name"] != "stlref-test" {
		t.Errorf("serverInfo.name = %v", info["name"])
	}
	caps := r["capabilities"].(map[string]any)
	if _, ok := caps["tools"]; !ok {
		t.Error("missing tools capability")
	}
	if _, ok := caps["resources"]; !ok {
		t.Error("missing resources capability")
	}
}

func TestInitializedNotificationGetsNoResponse(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","method":"notifications/initialized"}`+"\n")
	if len(got) != 0 {
		t.Fatalf("responses = %d, want 0", len(got))
	}
}

func TestPing(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","id":7,"method":"ping"}`+"\n")
	if len(got) != 1 {
		t.Fatalf("responses = %d, want 1", len(got))
	}
	if got[0]["error"] != nil {
		t.Errorf("ping returned error: %v", got[0]["error"])
	}
}

func TestToolsList(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`+"\n")
	r := result(t, got[0])
	tools := r["tools"].([]any)
	if len(tools) != 1 {
		t.Fatalf("tools = %d, want 1", len(tools))
	}
	tool := tools[0].(map[string]any)
	if tool["name"] != "lookup_operation" {
		t.Errorf("tool name = %v", tool["name"])
	}
	if _, ok := tool["inputSchema"]; !ok {
		t.Error("missing inputSchema")
	}
}

func TestToolsCall(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"lookup_operation","arguments":{"name":"sort_descending"}}}`+"\n")
	r := result(t, got[0])
	if isErr, _ := r["isError"].(bool); isErr {
		t.Fatalf("unexpected tool error: %v", r)
	}
	content := r["content"].([]any)
	text := content[0].(map[string]any)["text"].(string)
	if !strings.Contains(text, "sort_descending") {
		t.Errorf("text = %q", text)
	}
}

func TestToolsCallDomainError(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"lookup_operation","arguments":{"name":"frobnicate"}}}`+"\n")
	r := result(t, got[0])
	if isErr, _ := r["isError"].(bool); !isErr {
		t.Fatal("expected isError for unknown operation")
	}
}

func TestToolsCallUnknownTool(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"nope","arguments":{}}}`+"\n")
	r := result(t, got[0])
	if isErr, _ := r["isError"].(bool); !isErr {
		t.Fatal("expected isError for unknown tool")
	}
}

func TestResourcesList(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","id":6,"method":"resources/list"}`+"\n")
	r := result(t, got[0])
	resources := r["resources"].([]any)
	if len(resources) != 1 {
		t.Fatalf("resources = %d, want 1", len(resources))
	}
	res := resources[0].(map[string]any)
	if res["uri"] != "stlref://algorithm/sort_descending" {
		t.Errorf("uri = %v", res["uri"])
	}
	if res["mimeType"] != "text/markdown" {
		t.Errorf("mimeType = %v", res["mimeType"])
	}
}

func TestResourcesRead(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","id":8,"method":"resources/read","params":{"uri":"stlref://algorithm/sort_descending"}}`+"\n")
	r := result(t, got[0])
	contents := r["contents"].([]any)
	text := contents[0].(map[string]any)["text"].(string)
	if !strings.Contains(text, "Sorts largest first") {
		t.Errorf("text = %q", text)
	}
}

func TestResourcesReadNotFound(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","id":9,"method":"resources/read","params":{"uri":"stlref://nope"}}`+"\n")
	errObj, ok := got[0]["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error, got %v", got[0])
	}
	if int(errObj["code"].(float64)) != errCodeResourceNotFound {
		t.Errorf("code = %v", errObj["code"])
	}
}

func TestMethodNotFound(t *testing.T) {
	got := serve(t, `{"jsonrpc":"2.0","id":10,"method":"prompts/list"}`+"\n")
	errObj, ok := got[0]["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error, got %v", got[0])
	}
	if int(errObj["code"].(float64)) != errCodeMethodNotFound {
		t.Errorf("code = %v", errObj["code"])
	}
}

func TestParseError(t *testing.T) {
	got := serve(t, "{not json\n")
	errObj, ok := got[0]["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error, got %v", got[0])
	}
	if int(errObj["code"].(float64)) != errCodeParse {
		t.Errorf("code = %v", errObj["code"])
	}
}

func TestBatchRequest(t *testing.T) {
	got := serve(t, `[{"jsonrpc":"2.0","id":1,"method":"ping"},{"jsonrpc":"2.0","id":2,"method":"tools/list"}]`+"\n")
	if len(got) != 2 {
		t.Fatalf("responses = %d, want 2", len(got))
	}
}

func TestMultipleRequestsOneSession(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"t","version":"0"}}}` + "\n" +
		`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n" +
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}` + "\n"
	got := serve(t, input)
	if len(got) != 3 {
		t.Fatalf("responses = %d, want 3", len(got))
	}
}
