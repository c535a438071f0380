// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package miro

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirseerhq/board-relay/internal/apierror"
	relayerrors "github.com/sirseerhq/board-relay/internal/errors"
	"github.com/sirseerhq/board-relay/pkg/version"
)

// RESTClient implements the Miro Client interface against the REST API.
// It provides exhaustive fetching of paged collections with error handling
// and safety features like response size limits.
type RESTClient struct {
	httpClient *http.Client
	endpoint   string
	pageSize   int
	inspector  apierror.Inspector
	logger     *slog.Logger
}

// Option configures a RESTClient.
type Option func(*RESTClient)

// WithPageSize sets the page size requested from paginated endpoints.
// Values outside (0, 50] are ignored in favor of the default.
func WithPageSize(n int) Option {
	return func(c *RESTClient) {
		if n > 0 && n <= 50 {
			c.pageSize = n
		}
	}
}

// WithLogger sets the logger used for per-page progress lines.
func WithLogger(logger *slog.Logger) Option {
	return func(c *RESTClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewRESTClient creates a new Miro REST client for the given endpoint,
// normally "https://api.miro.com/v2". The client is configured with:
//   - Authentication via the provided token on every request
//   - Response size limiting to prevent memory issues
//   - Accept and User-Agent headers for API compliance
//   - Optimized connection pooling for API performance
//
// No request timeout is set; cancellation comes from the caller's context.
func NewRESTClient(token Token, endpoint string, opts ...Option) *RESTClient {
	// Create optimized transport with connection pooling
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}

	c := &RESTClient{
		httpClient: &http.Client{
			Transport: &authTransport{
				token: token,
				base:  transport,
			},
		},
		endpoint:  strings.TrimSuffix(endpoint, "/"),
		pageSize:  defaultPageSize,
		inspector: apierror.NewInspector(),
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetBoard retrieves metadata for a single board.
func (c *RESTClient) GetBoard(ctx context.Context, boardID string) (*Board, error) {
	u := fmt.Sprintf("%s/boards/%s", c.endpoint, url.PathEscape(boardID))

	var board Board
	if err := c.get(ctx, u, nil, &board); err != nil {
		return nil, c.mapError(err, boardID)
	}

	return &board, nil
}

// ListBoardItems retrieves every item on the board via cursor pagination.
func (c *RESTClient) ListBoardItems(ctx context.Context, boardID string) ([]Item, error) {
	u := fmt.Sprintf("%s/boards/%s/items", c.endpoint, url.PathEscape(boardID))

	raw, err := c.collectCursorPages(ctx, u, "items")
	if err != nil {
		return nil, c.mapError(err, boardID)
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		var item Item
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, fmt.Errorf("failed to decode item record: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// ListBoardConnectors retrieves every connector on the board via cursor pagination.
func (c *RESTClient) ListBoardConnectors(ctx context.Context, boardID string) ([]Connector, error) {
	u := fmt.Sprintf("%s/boards/%s/connectors", c.endpoint, url.PathEscape(boardID))

	raw, err := c.collectCursorPages(ctx, u, "connectors")
	if err != nil {
		return nil, c.mapError(err, boardID)
	}

	connectors := make([]Connector, 0, len(raw))
	for _, r := range raw {
		var connector Connector
		if err := json.Unmarshal(r, &connector); err != nil {
			return nil, fmt.Errorf("failed to decode connector record: %w", err)
		}
		connectors = append(connectors, connector)
	}

	return connectors, nil
}

// ListBoards retrieves every board visible to the credential via offset pagination.
func (c *RESTClient) ListBoards(ctx context.Context) ([]Board, error) {
	u := fmt.Sprintf("%s/boards", c.endpoint)

	raw, err := c.collectOffsetPages(ctx, u, "boards")
	if err != nil {
		return nil, c.mapError(err, "")
	}

	boards := make([]Board, 0, len(raw))
	for _, r := range raw {
		var board Board
		if err := json.Unmarshal(r, &board); err != nil {
			return nil, fmt.Errorf("failed to decode board record: %w", err)
		}
		boards = append(boards, board)
	}

	return boards, nil
}

// collectCursorPages exhausts a cursor-paginated collection endpoint and
// returns all records in server order. The cursor for each request is
// extracted from the "next" link of the previous response. The fetch stops
// when a page comes back empty or when the response carries no "next" link,
// even if the reported total implies more records exist; the API's link is
// treated as authoritative over its count.
func (c *RESTClient) collectCursorPages(ctx context.Context, rawurl, resource string) ([]json.RawMessage, error) {
	var records []json.RawMessage
	cursor := ""

	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.pageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var page listPage
		if err := c.get(ctx, rawurl, query, &page); err != nil {
			return nil, err
		}

		if len(page.Data) == 0 {
			break
		}
		records = append(records, page.Data...)
		c.logger.Info("page fetched", "resource", resource, "retrieved", len(records), "total", page.Total)

		if page.Links == nil || page.Links.Next == nil {
			break
		}
		cursor = cursorFromURL(*page.Links.Next)
	}

	return records, nil
}

// collectOffsetPages exhausts an offset-paginated collection endpoint and
// returns all records in server order. Only the total reported on the first
// page drives termination; totals on later pages are ignored. The fetch also
// stops early on an empty page.
func (c *RESTClient) collectOffsetPages(ctx context.Context, rawurl, resource string) ([]json.RawMessage, error) {
	var records []json.RawMessage
	offset := 0
	total := -1

	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.pageSize))
		query.Set("offset", strconv.Itoa(offset))

		var page listPage
		if err := c.get(ctx, rawurl, query, &page); err != nil {
			return nil, err
		}

		if total < 0 {
			total = page.Total
		}

		records = append(records, page.Data...)
		c.logger.Info("page fetched", "resource", resource, "retrieved", len(records), "total", total)

		if offset+c.pageSize >= total || len(page.Data) == 0 {
			break
		}
		offset += c.pageSize
	}

	return records, nil
}

// cursorFromURL extracts the cursor query parameter from a "next" link.
// An unparsable link or one without a cursor yields the empty string, which
// makes the following request start from the beginning, mirroring how the
// API's own clients treat a malformed link.
func cursorFromURL(next string) string {
	u, err := url.Parse(next)
	if err != nil {
		return ""
	}
	return u.Query().Get("cursor")
}

// get issues a single GET request and decodes the JSON response into v.
// Non-2xx responses become a StatusError carrying the response body.
func (c *RESTClient) get(ctx context.Context, rawurl string, query url.Values, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// mapError maps API and transport errors to our domain errors with actionable messages.
// The original error stays in the message so the server's explanation is never lost.
func (c *RESTClient) mapError(err error, boardID string) error {
	if err == nil {
		return nil
	}

	// Check rate limit before auth: both can surface as 4xx responses
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("miro API rate limit exceeded, wait before retrying: %v: %w", err, relayerrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("miro API authentication failed, provide a valid token via --token flag or the env file: %v: %w", err, relayerrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		if boardID != "" {
			return fmt.Errorf("board %q not found, check the board id and your access permissions: %v: %w", boardID, err, relayerrors.ErrBoardNotFound)
		}
		return fmt.Errorf("requested resource not found: %v: %w", err, relayerrors.ErrBoardNotFound)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to the miro API, check your connection and try again: %v: %w", err, relayerrors.ErrNetworkFailure)
	}

	return err
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	// Calculate how much we can read
	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication headers and safety limits to HTTP requests
type authTransport struct {
	token Token
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	// Add auth and content negotiation headers
	req.Header.Set("Authorization", "Bearer "+string(t.token))
	req.Header.Set("Accept", "application/json")

	// Add user agent for identification
	req.Header.Set("User-Agent", fmt.Sprintf("board-relay/%s", version.Version))

	// Execute the request
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Apply response size limit (10MB)
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      10 * 1024 * 1024, // 10MB
		}
	}

	return resp, nil
}
