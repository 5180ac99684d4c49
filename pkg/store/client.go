package store

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/normtree/pkg/logging"
	"github.com/user/normtree/pkg/tree"
)

const RequestIDHeader = "X-Request-ID"

// Client talks to the compliance store over HTTP:
//
//	GET /                          full tree under the well-known root
//	GET /node/{id}                 subtree rooted at id
//	PUT /override/{id}?new_status= set the stored status of id
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client for baseURL. Timeouts are left to the
// caller's context.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
	}
}

func (c *Client) FetchRoot(ctx context.Context) (*tree.Node, error) {
	return c.fetch(ctx, "/")
}

func (c *Client) FetchNode(ctx context.Context, id tree.ID) (*tree.Node, error) {
	return c.fetch(ctx, "/node/"+url.PathEscape(id.String()))
}

func (c *Client) SetStatus(ctx context.Context, id tree.ID, status tree.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %v", ErrRejected, tree.ErrInvalidStatus)
	}
	path := "/override/" + url.PathEscape(id.String()) + "?new_status=" + url.QueryEscape(string(status))
	resp, err := c.do(ctx, http.MethodPut, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) fetch(ctx context.Context, path string) (*tree.Node, error) {
	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return tree.Decode(resp.Body)
}

// do sends the request and maps transport failures and non-2xx responses
// onto the package's sentinel errors. The caller closes the body on success.
func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	reqID := uuid.New().String()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		logging.Debugf("%s %s id=%s failed: %v", method, path, reqID, err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	logging.Debugf("%s %s id=%s status=%d in %s", method, path, reqID, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s %s: %d - %s", ErrRejected, method, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp, nil
}
