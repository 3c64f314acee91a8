package service

import "testing"

func TestExtractFirstJSONObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`prefix {"a": 1} suffix`, `{"a": 1}`},
		{`{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{`{"a": "brace } in string"}`, `{"a": "brace } in string"}`},
		{`{"a": "escaped \" quote"}`, `{"a": "escaped \" quote"}`},
		{`no json here`, ``},
		{`{"unterminated": 1`, ``},
	}
	for i, c := range cases {
		if got := extractFirstJSONObject(c.in); got != c.want {
			t.Fatalf("case %d: expected %q, got %q", i, c.want, got)
		}
	}
}

func TestExtractFirstJSONArray(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`the schemes are [{"name": "A"}] thanks`, `[{"name": "A"}]`},
		{`[[1, 2], [3]]`, `[[1, 2], [3]]`},
		{`["bracket ] in string"]`, `["bracket ] in string"]`},
		{`nothing`, ``},
	}
	for i, c := range cases {
		if got := extractFirstJSONArray(c.in); got != c.want {
			t.Fatalf("case %d: expected %q, got %q", i, c.want, got)
		}
	}
}

func TestCleanLLMJSONResponse(t *testing.T) {
	in := "```json\n[{\"name\": \"A\"}]\n```"
	if got := cleanLLMJSONResponse(in); got != `[{"name": "A"}]` {
		t.Fatalf("expected fences stripped, got %q", got)
	}
	if got := cleanLLMJSONResponse("  plain  "); got != "plain" {
		t.Fatalf("expected trimmed, got %q", got)
	}
}
