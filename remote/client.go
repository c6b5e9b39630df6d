package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/viant/recordsync/document"
)

// Client is a document.Store backed by a remote server started with
// NewRouter.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL (e.g. "http://localhost:8080"). A
// nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("remote: invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remote: base url %q must be http or https", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// FetchAll lists the documents of collection.
func (c *Client) FetchAll(ctx context.Context, collection string) ([]document.Document, error) {
	req, err := c.newRequest(ctx, http.MethodGet, collection, nil)
	if err != nil {
		return nil, err
	}
	var resp listResponse
	if err := c.do(req, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	out := make([]document.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		fields := d.Fields
		if fields == nil {
			fields = map[string]any{}
		}
		out = append(out, document.Document{ID: d.ID, Fields: fields})
	}
	return out, nil
}

// Insert posts fields as a new document and returns the assigned ID.
func (c *Client) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	if err := document.CheckUTF8(fields); err != nil {
		return "", err
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("remote: encode document: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, collection, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	var resp insertResponse
	if err := c.do(req, http.StatusCreated, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Health checks that the server answers /health.
func (c *Client) Health(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("remote: %w", err)
	}
	return c.do(req, http.StatusOK, nil)
}

func (c *Client) newRequest(ctx context.Context, method, collection string, body io.Reader) (*http.Request, error) {
	if strings.TrimSpace(collection) == "" {
		return nil, fmt.Errorf("remote: empty collection name")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL + "/collections/" + url.PathEscape(collection) + "/documents"
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var e errorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			return &StatusError{Code: resp.StatusCode, Message: e.Error}
		}
		return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(data))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("remote: decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote: status %d: %s", e.Code, e.Message)
}

// Ensure Client satisfies the document.Store interface.
var _ document.Store = (*Client)(nil)
