package device

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// API is the settings surface of a light node. It is implemented by *Client
// and can be faked in tests.
type API interface {
	FetchConfig(ctx context.Context) (ConfigResponse, error)
	FetchPage(ctx context.Context) (string, error)
	SaveSettings(ctx context.Context, s Settings) error
	Restart(ctx context.Context) error
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// Client talks to a light node's HTTP settings API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultAddress is where a node serves its settings page while its
	// access point is up.
	DefaultAddress   = "192.168.4.1"
	defaultUserAgent = "lightpanel/0.1"
	// DefaultTimeout bounds each request.
	DefaultTimeout = 5 * time.Second

	pathPage    = "/"
	pathConfig  = "/config"
	pathSetting = "/setting"
	pathRestart = "/restart"

	maxPageBytes = 1 << 20
)

// NewClient builds a Client for address, which may be host, host:port or a
// full URL. A non-positive timeout uses DefaultTimeout.
func NewClient(address string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(address)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// BaseURL returns the node address the client targets.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchConfig retrieves the node's configuration document.
func (c *Client) FetchConfig(ctx context.Context) (ConfigResponse, error) {
	if c == nil {
		return ConfigResponse{}, fmt.Errorf("client is nil")
	}
	resp, err := c.get(ctx, &url.URL{Path: pathConfig}, "application/json")
	if err != nil {
		return ConfigResponse{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ConfigResponse{}, fmt.Errorf("read response: %w", err)
	}
	var payload ConfigResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return ConfigResponse{}, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

// FetchPage retrieves the settings page markup the node serves at /.
func (c *Client) FetchPage(ctx context.Context) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	resp, err := c.get(ctx, &url.URL{Path: pathPage}, "text/html")
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}
	return string(body), nil
}

// SaveSettings submits s to /setting. The response body is ignored.
func (c *Client) SaveSettings(ctx context.Context, s Settings) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.fire(ctx, &url.URL{Path: pathSetting, RawQuery: s.Query()})
}

// Restart asks the node to reboot. The response body is ignored.
func (c *Client) Restart(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.fire(ctx, &url.URL{Path: pathRestart})
}

func (c *Client) fire(ctx context.Context, rel *url.URL) error {
	resp, err := c.get(ctx, rel, "*/*")
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

func (c *Client) get(ctx context.Context, rel *url.URL, accept string) (*http.Response, error) {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("device %s returned status %d", rel.Path, resp.StatusCode)
	}
	return resp, nil
}

func parseBaseURL(address string) (*url.URL, error) {
	trimmed := strings.TrimSpace(address)
	if trimmed == "" {
		trimmed = DefaultAddress
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse device address %q: %w", address, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("device address %q has no host", address)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
