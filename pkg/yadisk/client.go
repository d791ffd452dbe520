package yadisk

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"vkbackup/pkg/errors"
	"vkbackup/pkg/logger"
)

const (
	// DefaultBaseURL is the Yandex.Disk REST API root
	DefaultBaseURL = "https://cloud-api.yandex.net/v1/disk/"

	// ErrCodeFolderExists is reported when creating a folder that already exists
	ErrCodeFolderExists = "DiskPathPointsToExistentDirectoryError"
	// ErrCodeResourceExists is reported when uploading over a file without overwrite
	ErrCodeResourceExists = "DiskResourceAlreadyExistsError"

	serviceName = "yadisk"
)

// Client talks to the Yandex.Disk REST API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
	logger     logger.Logger
}

// Option customises a Client
type Option func(*Client)

// WithBaseURL points the client at another API root
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Yandex.Disk client authenticated with an OAuth token
func NewClient(token string, timeout time.Duration, log logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    DefaultBaseURL,
		token:      token,
		logger:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsAlreadyExists reports whether err says the target folder or file exists
func IsAlreadyExists(err error) bool {
	var apiErr *errors.Error
	if !stderrors.As(err, &apiErr) || apiErr.Type != errors.ErrorTypeDomain {
		return false
	}
	return apiErr.ProviderCode == ErrCodeFolderExists || apiErr.ProviderCode == ErrCodeResourceExists
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
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

// resourceURL joins the API base and a resource name, with or without a
// trailing slash on base
func resourceURL(baseURL, name string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(name, "/")
}

// request performs an authenticated API call and decodes a 2xx body into target
func (c *Client) request(ctx context.Context, method, name string, params url.Values, target interface{}) error {
	endpoint := resourceURL(c.baseURL, name)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return errors.Transport(serviceName, 0, "failed to create request", err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Transport(serviceName, resp.StatusCode, "failed to read response body", err)
	}

	if resp.StatusCode/100 != 2 {
		return c.responseError(resp.StatusCode, body)
	}

	if target == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.Protocol(serviceName, resp.StatusCode, "failed to parse JSON", err)
	}
	return nil
}

func (c *Client) responseError(status int, body []byte) error {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error == "" {
		c.logger.WarnWithFields("unexpected error response", map[string]interface{}{
			"status": status,
		})
		return errors.Transport(serviceName, status, fmt.Sprintf("server error (%d)", status), nil)
	}

	description := apiErr.Description
	if description == "" {
		description = apiErr.Message
	}
	return errors.Domain(serviceName, status, apiErr.Error, description)
}

// Capacity returns general information about the user's disk
func (c *Client) Capacity(ctx context.Context) (*DiskInfo, error) {
	var info DiskInfo
	if err := c.request(ctx, http.MethodGet, "", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// CreateFolder creates a folder at path. An existing folder is reported as a
// domain error recognised by IsAlreadyExists.
func (c *Client) CreateFolder(ctx context.Context, path string) (*Link, error) {
	params := url.Values{}
	params.Set("path", path)

	var link Link
	if err := c.request(ctx, http.MethodPut, "resources", params, &link); err != nil {
		return nil, err
	}

	c.logger.DebugWithFields("folder created", map[string]interface{}{
		"path": path,
	})
	return &link, nil
}

// UploadLink requests the one-off upload location for path
func (c *Client) UploadLink(ctx context.Context, path string, overwrite bool) (*Link, error) {
	params := url.Values{}
	params.Set("path", path)
	params.Set("overwrite", strconv.FormatBool(overwrite))

	var link Link
	if err := c.request(ctx, http.MethodGet, "resources/upload", params, &link); err != nil {
		return nil, err
	}
	if link.Href == "" {
		return nil, errors.Protocol(serviceName, http.StatusOK, "upload link without href", nil)
	}
	if link.Method == "" {
		link.Method = http.MethodPut
	}
	return &link, nil
}

// UploadFile stores data at path in two phases: it asks for an upload link,
// then sends the raw bytes to it. The second request carries no credentials.
func (c *Client) UploadFile(ctx context.Context, data []byte, path string, overwrite bool) error {
	link, err := c.UploadLink(ctx, path, overwrite)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, link.Method, link.Href, bytes.NewReader(data))
	if err != nil {
		return errors.Transport(serviceName, 0, "failed to create upload request", err)
	}
	req.ContentLength = int64(len(data))

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if uploadErr := errors.UploadStatusError(serviceName, resp.StatusCode); uploadErr != nil {
		return uploadErr
	}

	c.logger.DebugWithFields("file uploaded", map[string]interface{}{
		"path": path,
		"size": len(data),
	})
	return nil
}
