package audiobookshelf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tome/internal/config"
)

// HTTPDoer describes the HTTP client used by the catalog service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Library is one remote library root.
type Library struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MediaType string `json:"mediaType"`
}

// Item is one remote library item: an identifier plus the folder path the
// server stored for it. Title and author come along for comparison reports.
type Item struct {
	ID     string
	Path   string
	Title  string
	Author string
}

// Client talks to the Audiobookshelf REST API. Tome only consumes three
// operations: list libraries, list items, and trigger a per-item scan; it
// never writes metadata fields to the server.
type Client struct {
	baseURL     string
	token       string
	scanTimeout time.Duration
	httpClient  HTTPDoer
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a catalog client from configuration.
func NewClient(cfg config.Catalog, opts ...Option) *Client {
	scanTimeout := time.Duration(cfg.ScanTimeoutSeconds) * time.Second
	if scanTimeout <= 0 {
		scanTimeout = 10 * time.Second
	}
	client := &Client{
		baseURL:     strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		token:       strings.TrimSpace(cfg.Token),
		scanTimeout: scanTimeout,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Libraries lists the remote libraries.
func (c *Client) Libraries(ctx context.Context) ([]Library, error) {
	var payload struct {
		Libraries []Library `json:"libraries"`
	}
	if err := c.getJSON(ctx, "/api/libraries", &payload); err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	return payload.Libraries, nil
}

// LibraryItems lists all items in one library.
func (c *Client) LibraryItems(ctx context.Context, libraryID string) ([]Item, error) {
	var payload struct {
		Results []struct {
			ID    string `json:"id"`
			Path  string `json:"path"`
			Media struct {
				Metadata struct {
					Title      string `json:"title"`
					AuthorName string `json:"authorName"`
				} `json:"metadata"`
			} `json:"media"`
		} `json:"results"`
	}
	path := fmt.Sprintf("/api/libraries/%s/items", libraryID)
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, fmt.Errorf("list items for library %s: %w", libraryID, err)
	}

	items := make([]Item, 0, len(payload.Results))
	for _, result := range payload.Results {
		items = append(items, Item{
			ID:     result.ID,
			Path:   result.Path,
			Title:  result.Media.Metadata.Title,
			Author: result.Media.Metadata.AuthorName,
		})
	}
	return items, nil
}

// ScanItem asks the server to re-scan one item so it re-reads the new
// metadata.json itself. The call is bounded by the configured scan timeout
// regardless of the caller's context.
func (c *Client) ScanItem(ctx context.Context, itemID string) error {
	scanCtx, cancel := context.WithTimeout(ctx, c.scanTimeout)
	defer cancel()

	req, err := c.newRequest(scanCtx, http.MethodPost, fmt.Sprintf("/api/items/%s/scan", itemID), nil)
	if err != nil {
		return fmt.Errorf("scan item %s: %w", itemID, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("scan item %s: %w", itemID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("scan item %s: http %d", itemID, resp.StatusCode)
	}
	return nil
}

// Ping verifies connectivity and authentication.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.Libraries(ctx); err != nil {
		return err
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}
