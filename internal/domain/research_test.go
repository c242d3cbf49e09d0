package domain

import (
	"strings"
	"testing"
)

func TestClampDepth(t *testing.T) {
	tests := []struct {
		name     string
		depth    int
		expected int
	}{
		{"below minimum", 0, MinDepth},
		{"negative", -5, MinDepth},
		{"one", 1, MinDepth},
		{"minimum", 2, 2},
		{"in range", 5, 5},
		{"maximum", 10, 10},
		{"above maximum", 11, MaxDepth},
		{"far above maximum", 100, MaxDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampDepth(tt.depth); got != tt.expected {
				t.Errorf("ClampDepth(%d) = %d, want %d", tt.depth, got, tt.expected)
			}
		})
	}
}

func TestResearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     ResearchRequest
		wantErr error
	}{
		{"ok", ResearchRequest{Query: "quantum computing", Depth: 3}, nil},
		{"empty query", ResearchRequest{Query: "", Depth: 3}, ErrEmptyQuery},
		{"whitespace query", ResearchRequest{Query: "   ", Depth: 3}, ErrEmptyQuery},
		{"too long", ResearchRequest{Query: strings.Repeat("a", MaxQueryLength+1)}, ErrQueryTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResearchRequest_Sanitize(t *testing.T) {
	req := ResearchRequest{Query: "  spaced out  ", Depth: 42}
	req.Sanitize()

	if req.Query != "spaced out" {
		t.Errorf("Sanitize() query = %q, want %q", req.Query, "spaced out")
	}
	if req.Depth != MaxDepth {
		t.Errorf("Sanitize() depth = %d, want %d", req.Depth, MaxDepth)
	}
}

func TestSearchMode_IsValid(t *testing.T) {
	tests := []struct {
		mode     SearchMode
		expected bool
	}{
		{ModeStandard, true},
		{ModeDeep, true},
		{SearchMode("turbo"), false},
		{SearchMode(""), false},
	}

	for _, tt := range tests {
		if got := tt.mode.IsValid(); got != tt.expected {
			t.Errorf("SearchMode(%q).IsValid() = %v, want %v", tt.mode, got, tt.expected)
		}
	}
}

func TestResultFailed(t *testing.T) {
	ok := SearchResult{Query: "q"}
	if ok.Failed() {
		t.Error("SearchResult without error should not be failed")
	}

	bad := SearchResult{Query: "q", Error: "boom"}
	if !bad.Failed() {
		t.Error("SearchResult with error should be failed")
	}

	report := ResearchReport{Error: "boom"}
	if !report.Failed() {
		t.Error("ResearchReport with error should be failed")
	}
}
