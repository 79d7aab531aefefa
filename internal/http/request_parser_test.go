package http

import (
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func parserFor(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestRequestBodyParser_Get(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		key         string
		want        string
	}{
		{
			name:        "json string",
			contentType: "application/json",
			body:        `{"ingredient": "onion"}`,
			key:         "ingredient",
			want:        "onion",
		},
		{
			name:        "json number",
			contentType: "application/json",
			body:        `{"budget": 1500}`,
			key:         "budget",
			want:        "1500",
		},
		{
			name:        "form field",
			contentType: "application/x-www-form-urlencoded",
			body:        "ingredient=onion&other=x",
			key:         "ingredient",
			want:        "onion",
		},
		{
			name:        "missing key",
			contentType: "application/json",
			body:        `{"a": "b"}`,
			key:         "missing",
			want:        "",
		},
		{
			name:        "trims whitespace",
			contentType: "application/json",
			body:        `{"ingredient": "  onion  "}`,
			key:         "ingredient",
			want:        "onion",
		},
		{
			name:        "empty body",
			contentType: "application/json",
			body:        "",
			key:         "anything",
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parserFor(t, tt.contentType, tt.body)
			if got := p.Get(tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestRequestBodyParser_GetInt64(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		key    string
		want   int64
		wantOK bool
	}{
		{name: "json number", body: `{"id": 42}`, key: "id", want: 42, wantOK: true},
		{name: "json numeric string", body: `{"id": "42"}`, key: "id", want: 42, wantOK: true},
		{name: "form value", body: "id=7", key: "id", want: 7, wantOK: true},
		{name: "missing", body: `{"a": 1}`, key: "id", wantOK: false},
		{name: "not a number", body: `{"id": "abc"}`, key: "id", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parserFor(t, "application/json", tt.body)
			got, ok := p.GetInt64(tt.key)
			if ok != tt.wantOK {
				t.Fatalf("GetInt64(%q) ok = %v, want %v", tt.key, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("GetInt64(%q) = %d, want %d", tt.key, got, tt.want)
			}
		})
	}
}

func TestRequestBodyParser_GetStringSlice(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "json array",
			body: `{"ingredients": ["chicken", "rice", "tomato"]}`,
			want: []string{"chicken", "rice", "tomato"},
		},
		{
			name: "json comma string",
			body: `{"ingredients": "chicken,rice"}`,
			want: []string{"chicken", "rice"},
		},
		{
			name: "form comma string",
			body: "ingredients=chicken%2Crice",
			want: []string{"chicken", "rice"},
		},
		{
			name: "form repeated fields",
			body: "ingredients=chicken&ingredients=rice",
			want: []string{"chicken", "rice"},
		},
		{
			name: "drops blank entries",
			body: `{"ingredients": ["chicken", "  ", ""]}`,
			want: []string{"chicken"},
		},
		{
			name: "missing key",
			body: `{"other": 1}`,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parserFor(t, "application/json", tt.body)
			got := p.GetStringSlice("ingredients")
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetStringSlice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequestBodyParser_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"broken`))
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err == nil {
		t.Error("Parse() accepted truncated JSON")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hello  ", "hello"},
		{"hello\x00world", "helloworld"},
		{"line1\nline2", "line1\nline2"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := sanitizeInput(tt.input); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
