// Package recipes is the outbound client for the ingredient-based recipe
// search API (Spoonacular-compatible findByIngredients endpoint).
package recipes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PageSize is the fixed number of results requested per search.
const PageSize = 6

// Recipe is one search result. Fields beyond these are not part of the
// contract with our frontend and are dropped on decode.
type Recipe struct {
	ID                    int64  `json:"id"`
	Title                 string `json:"title"`
	Image                 string `json:"image"`
	UsedIngredientCount   int    `json:"usedIngredientCount"`
	MissedIngredientCount int    `json:"missedIngredientCount"`
	Likes                 int    `json:"likes"`
}

// UpstreamError reports a failed call to the recipe API: transport errors,
// non-2xx statuses, or an undecodable body. It is never swallowed into an
// empty result.
type UpstreamError struct {
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("recipe API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("recipe API unreachable: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstreamError reports whether err is a failure of the recipe API.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient builds a client with a bounded request timeout. baseURL is the
// scheme+host part, e.g. "https://api.spoonacular.com".
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// SearchByIngredients queries the upstream with the comma-joined ingredient
// names and a fixed page size.
func (c *Client) SearchByIngredients(ctx context.Context, ingredients []string) ([]Recipe, error) {
	params := url.Values{}
	params.Set("ingredients", strings.Join(ingredients, ","))
	params.Set("number", fmt.Sprintf("%d", PageSize))
	params.Set("apiKey", c.apiKey)

	reqURL := c.baseURL + "/recipes/findByIngredients?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build recipe request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused; the body content
		// is not trusted on error statuses.
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	var recipes []Recipe
	if err := json.NewDecoder(resp.Body).Decode(&recipes); err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("decode response: %w", err)}
	}

	return recipes, nil
}
