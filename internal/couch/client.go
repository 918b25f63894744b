// Package couch is a thin HTTP wrapper around the CouchDB endpoints
// the Amazing Marvin sync backend exposes: Mango _find queries, the
// _changes feed filtered by selector, and plain document CRUD. It
// carries no caching or domain knowledge — that lives in
// internal/cache and internal/marvin.
package couch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marvin-tools/marvin-mcp/internal/config"
)

// SeqStart is the change-feed cursor meaning "from the beginning".
// CouchDB accepts it as a since value and always answers with the
// current last_seq, even when no change matched.
const SeqStart = "0"

// StoreError wraps any network or HTTP failure talking to the remote
// store. Callers detect it with errors.As and must treat any cached
// state for the affected collection as invalid.
type StoreError struct {
	Op     string // "find", "changes", "get", "put", "create", "ping"
	Status int    // HTTP status, 0 for transport errors
	Err    error
}

func (e *StoreError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("store %s failed: HTTP %d", e.Op, e.Status)
	}
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Client issues requests against one logical CouchDB database using
// basic auth. It is safe for use by a single adapter instance; it
// holds no mutable state of its own.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewClient builds a client from validated connection settings.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:  cfg.BaseURL(),
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Ping checks that the database answers at all. Used once at startup
// for an early, readable failure instead of a broken first tool call.
func (c *Client) Ping(ctx context.Context) error {
	var info map[string]any
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &info); err != nil {
		return wrapStore("ping", err)
	}
	return nil
}

// Find runs a Mango query and returns the matching documents.
func (c *Client) Find(ctx context.Context, sel Selector) ([]Document, error) {
	body := map[string]any{"selector": map[string]any(sel)}
	var result struct {
		Docs []Document `json:"docs"`
	}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/_find", body, &result); err != nil {
		return nil, wrapStore("find", err)
	}
	return result.Docs, nil
}

// Changes probes the change feed for events matching sel since the
// given cursor. It reports whether any event matched and the feed's
// current cursor. The cursor is valid even with zero events.
func (c *Client) Changes(ctx context.Context, since string, sel Selector) (bool, string, error) {
	params := url.Values{}
	params.Set("feed", "normal")
	params.Set("filter", "_selector")
	params.Set("include_docs", "false")
	params.Set("since", since)

	body := map[string]any{"selector": map[string]any(sel)}
	var result struct {
		Results []json.RawMessage `json:"results"`
		LastSeq any               `json:"last_seq"`
	}
	u := c.baseURL + "/_changes?" + params.Encode()
	if err := c.do(ctx, http.MethodPost, u, body, &result); err != nil {
		return false, "", wrapStore("changes", err)
	}
	return len(result.Results) > 0, seqString(result.LastSeq), nil
}

// Get fetches a single document by its persistent ID, including its
// current revision.
func (c *Client) Get(ctx context.Context, id string) (Document, error) {
	var doc Document
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(id), nil, &doc); err != nil {
		return nil, wrapStore("get", err)
	}
	return doc, nil
}

// Put writes a full document back. The document must carry the _rev
// from a preceding Get; last write wins, conflicts surface as a
// StoreError with HTTP 409.
func (c *Client) Put(ctx context.Context, doc Document) error {
	id := doc.ID()
	if id == "" {
		return &StoreError{Op: "put", Err: fmt.Errorf("document has no %s", FieldID)}
	}
	var resp map[string]any
	if err := c.do(ctx, http.MethodPut, c.baseURL+"/"+url.PathEscape(id), doc, &resp); err != nil {
		return wrapStore("put", err)
	}
	return nil
}

// Create inserts a new document and returns the store-assigned
// persistent ID.
func (c *Client) Create(ctx context.Context, doc Document) (string, error) {
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, c.baseURL, doc, &resp); err != nil {
		return "", wrapStore("create", err)
	}
	return resp.ID, nil
}

// do performs one authenticated JSON round trip.
func (c *Client) do(ctx context.Context, method, u string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &httpError{status: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// httpError carries a non-2xx status through do so wrapStore can
// surface it on the StoreError.
type httpError struct {
	status int
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d", e.status)
}

func wrapStore(op string, err error) error {
	if he, ok := err.(*httpError); ok {
		return &StoreError{Op: op, Status: he.status, Err: err}
	}
	return &StoreError{Op: op, Err: err}
}

// seqString normalizes last_seq, which CouchDB reports as a string in
// 2.x+ but as a number in 1.x.
func seqString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}
