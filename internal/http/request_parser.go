// Package http provides the HTTP server and handlers.
//
// This file parses request bodies that may arrive either as JSON (the
// frontend fetch calls) or as form-encoded data.
package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// RequestBodyParser reads the body once and answers typed lookups against
// either JSON or form-encoded content.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]interface{}
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser creates a parser for the given request.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(io.LimitReader(r.Body, 1<<20))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' || p.body[0] == '[' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// GetInt64 parses a numeric value from the parsed data.
func (p *RequestBodyParser) GetInt64(key string) (int64, bool) {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			switch v := val.(type) {
			case float64:
				return int64(v), true
			case string:
				if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
					return n, true
				}
			}
			return 0, false
		}
	}
	if p.formData != nil {
		if v := p.formData.Get(key); v != "" {
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// GetStringSlice returns a list value: a JSON string array, repeated form
// fields, or one comma-separated field. Blank entries are dropped.
func (p *RequestBodyParser) GetStringSlice(key string) []string {
	var raw []string
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			if arr, ok := val.([]interface{}); ok {
				for _, item := range arr {
					raw = append(raw, stringValue(item))
				}
			} else {
				raw = strings.Split(stringValue(val), ",")
			}
		}
	} else if p.formData != nil {
		raw = p.formData[key]
		if len(raw) == 1 && strings.Contains(raw[0], ",") {
			raw = strings.Split(raw[0], ",")
		}
	}

	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if v = sanitizeInput(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// stringValue converts a decoded JSON value to string.
func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
