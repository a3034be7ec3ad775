// Package certapi implements the CertificateAPI port against the learning
// platform's certificates REST backend.
package certapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/certpanel/internal/domain/model"
	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CertificateAPI = (*Client)(nil)

// maxErrorBody bounds how much of a failed response body is kept in a StatusError.
const maxErrorBody = 512

// StatusError is returned for non-2xx responses that have no dedicated sentinel.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client implements the driven.CertificateAPI port over HTTP.
type Client struct {
	http    *http.Client
	baseURL string
	token   string

	// cache is nil when the client was built without the caching transport.
	cache *httpcache.MemoryCache

	mu       sync.Mutex
	listKeys map[string]struct{}
}

// NewClient creates a certificates API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching of list responses)
//  2. go-github-ratelimit (waits out rate limit responses instead of failing)
//  3. bearer token auth added per request
func NewClient(baseURL, token string, timeout time.Duration) (*Client, error) {
	cache := httpcache.NewMemoryCache()
	cacheTransport := httpcache.NewTransport(cache)
	cacheTransport.MarkCachedResponses = true
	httpClient := github_ratelimit.NewClient(cacheTransport)
	httpClient.Timeout = timeout

	c, err := newClient(httpClient, baseURL, token)
	if err != nil {
		return nil, err
	}
	c.cache = cache
	return c, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and no
// response cache. This constructor is intended for testing, allowing injection
// of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	return newClient(httpClient, baseURL, token)
}

func newClient(httpClient *http.Client, baseURL, token string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parsing base URL: %q is not absolute", baseURL)
	}

	return &Client{
		http:     httpClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		listKeys: make(map[string]struct{}),
	}, nil
}

// ListAll retrieves every certificate across all students.
func (c *Client) ListAll(ctx context.Context) ([]model.Certificate, error) {
	return c.list(ctx, "/api/certificates/admin")
}

// ListByCourse retrieves the certificates of a single course.
func (c *Client) ListByCourse(ctx context.Context, courseID string) ([]model.Certificate, error) {
	if courseID == "" {
		return nil, errors.New("list certificates by course: course ID is required")
	}
	return c.list(ctx, "/api/certificates/course/"+url.PathEscape(courseID))
}

// CreateTemplate creates a certificate template on the backend.
func (c *Client) CreateTemplate(ctx context.Context, req model.TemplateRequest) error {
	body, err := json.Marshal(toTemplatePayload(req))
	if err != nil {
		return fmt.Errorf("encode template payload: %w", err)
	}

	if err := c.mutate(ctx, http.MethodPost, "/api/certificates/create", body); err != nil {
		return fmt.Errorf("create certificate template %q: %w", req.Title, err)
	}
	return nil
}

// Issue issues a certificate for the student in the course.
func (c *Client) Issue(ctx context.Context, courseID, studentID string) error {
	path := "/api/certificates/issue/" + url.PathEscape(courseID) + "/" + url.PathEscape(studentID)
	if err := c.mutate(ctx, http.MethodPost, path, []byte("{}")); err != nil {
		return fmt.Errorf("issue certificate for student %s in course %s: %w", studentID, courseID, err)
	}
	return nil
}

// Delete removes a certificate by ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.mutate(ctx, http.MethodDelete, "/api/certificates/"+url.PathEscape(id), nil); err != nil {
		return fmt.Errorf("delete certificate %s: %w", id, err)
	}
	return nil
}

func (c *Client) list(ctx context.Context, path string) ([]model.Certificate, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	c.rememberListKey(req.URL.String())

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponse(req, resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}

	certs, err := decodeCertificates(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}
	return certs, nil
}

// mutate sends a write request and drops every cached list response so the
// next listing refetches from the backend.
func (c *Client) mutate(ctx context.Context, method, path string, body []byte) error {
	defer c.invalidateLists()

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkResponse(req, resp); err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}

	slog.Debug("certificates api call",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"cached", resp.Header.Get(httpcache.XFromCache) != "",
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return resp, nil
}

func (c *Client) rememberListKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listKeys[key] = struct{}{}
}

func (c *Client) invalidateLists() {
	if c.cache == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.listKeys {
		c.cache.Delete(key)
	}
	clear(c.listKeys)
}

// checkResponse maps non-2xx responses onto port sentinels or a StatusError.
func checkResponse(req *http.Request, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, driven.ErrUnauthorized)
	case http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, driven.ErrCertificateNotFound)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Method:     req.Method,
		Path:       req.URL.Path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}
