package vk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vkbackup/pkg/errors"
	"vkbackup/pkg/logger"
)

const serviceName = "vk"

// Client talks to the VK API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
	userAgent  string
	logger     logger.Logger
}

// Option customises a Client
type Option func(*Client)

// WithBaseURL points the client at another API root (tests, proxies)
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithAPIVersion overrides the v parameter
func WithAPIVersion(version string) Option {
	return func(c *Client) { c.version = version }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a VK API client authenticated with token
func NewClient(token string, timeout time.Duration, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    DefaultBaseURL,
		token:      token,
		version:    DefaultAPIVersion,
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.LogRequest(c.logger, req.Method, req.URL.String(), 0, start)
		return nil, errors.Transport(serviceName, 0, "network error", err)
	}
	logger.LogRequest(c.logger, req.Method, req.URL.String(), resp.StatusCode, start)

	return resp, nil
}

// FetchPhotos calls photos.get and returns the items of the response as-is.
//
// A non-200 status is a transport error, an "error" object is a domain error
// carrying VK's error_code, and a body with neither "response" nor "error"
// is a protocol error.
func (c *Client) FetchPhotos(ctx context.Context, filter PhotosFilter) ([]Photo, error) {
	params := filter.Params()
	params.Set("access_token", c.token)
	params.Set("v", c.version)

	endpoint := MethodURL(c.baseURL, MethodPhotosGet) + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, errors.Transport(serviceName, 0, "failed to create request", err)
	}

	c.logger.DebugWithFields("fetching photos", map[string]interface{}{
		"owner_id": filter.OwnerID,
		"album_id": params.Get("album_id"),
	})

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Transport(serviceName, resp.StatusCode,
			fmt.Sprintf("server error (%d)", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Transport(serviceName, resp.StatusCode, "failed to read response body", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return nil, errors.Protocol(serviceName, resp.StatusCode, "failed to parse JSON", err)
	}

	switch {
	case env.Error != nil:
		return nil, errors.Domain(serviceName, env.Error.Code, "", env.Error.Message)
	case env.Response == nil:
		return nil, errors.Protocol(serviceName, resp.StatusCode, "unknown server error", nil)
	}

	items := env.Response.Items
	if items == nil {
		items = []Photo{}
	}

	c.logger.DebugWithFields("fetched photos", map[string]interface{}{
		"owner_id": filter.OwnerID,
		"count":    len(items),
		"total":    env.Response.Count,
	})

	return items, nil
}

// DownloadPhoto fetches the photo binary with a plain unauthenticated GET
func (c *Client) DownloadPhoto(ctx context.Context, photoURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, photoURL, nil)
	if err != nil {
		return nil, errors.Transport(serviceName, 0, "failed to create request", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Transport(serviceName, resp.StatusCode,
			fmt.Sprintf("download failed (%d)", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Transport(serviceName, resp.StatusCode, "failed to read photo data", err)
	}

	c.logger.DebugWithFields("downloaded photo", map[string]interface{}{
		"size": len(data),
	})

	return data, nil
}
