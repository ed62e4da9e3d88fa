package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"igflash/pkg/config"
	errs "igflash/pkg/errors"
	"igflash/pkg/logger"
	"igflash/pkg/ratelimit"
	"igflash/pkg/retry"
)

// DefaultTimeout bounds a single attempt when the caller passes no timeout
const DefaultTimeout = 20 * time.Second

// maxBodySize caps how much of a response body is read
const maxBodySize = 32 << 20

// Doer performs GET requests against the provider
type Doer interface {
	Get(ctx context.Context, rawURL string, params Params, headers map[string]string, timeout time.Duration) (*Response, error)
}

// Response is a fully read HTTP response
type Response struct {
	URL    string
	Status int
	Header http.Header
	Body   []byte
}

// ResponseError carries a non-2xx response. It is wrapped in an *errs.Error
// typed after the status code.
type ResponseError struct {
	Response *Response
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Response.Status)
}

// ResponseOf returns the response attached to err, or nil when the failure
// happened before a response was received
func ResponseOf(err error) *Response {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Response
	}
	return nil
}

// Client is the HTTP transport used to reach the provider
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	limiter    ratelimit.Limiter
	retry      *retry.Config
	logger     logger.Logger
}

// NewClient creates a transport with the default retry policy and no throttle
func NewClient(log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.Logger = log

	return &Client{
		httpClient: &http.Client{},
		headers: map[string]string{
			"User-Agent": "igflash/1.0",
			"Accept":     "application/json",
		},
		limiter: ratelimit.Unlimited{},
		retry:   retryCfg,
		logger:  log,
	}
}

// NewClientFromConfig creates a transport using the retry and throttle settings of cfg
func NewClientFromConfig(cfg *config.Config, log logger.Logger) *Client {
	c := NewClient(log)
	c.SetRetry(&retry.Config{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Backoff:     &retry.ConstantBackoff{Delay: cfg.Retry.Delay},
		RetryIf:     retry.DefaultRetryIf,
		Logger:      c.logger,
	})
	c.SetLimiter(ratelimit.NewPerMinute(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize))
	return c
}

// SetHeader sets a header sent with every request
func (c *Client) SetHeader(key, value string) {
	c.headers[key] = value
}

// SetHTTPClient replaces the underlying HTTP client
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// SetLimiter installs a client-side throttle
func (c *Client) SetLimiter(l ratelimit.Limiter) {
	if l == nil {
		l = ratelimit.Unlimited{}
	}
	c.limiter = l
}

// SetRetry replaces the retry policy
func (c *Client) SetRetry(cfg *retry.Config) {
	c.retry = cfg
}

// Get performs a GET request with params merged into the URL query. Each
// attempt is bounded by timeout; transient failures are retried according to
// the retry policy. A non-2xx response yields an error from which ResponseOf
// recovers the response.
func (c *Client) Get(ctx context.Context, rawURL string, params Params, headers map[string]string, timeout time.Duration) (*Response, error) {
	target, err := buildURL(rawURL, params)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, "failed to create request", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return retry.DoWithResult(ctx, func(ctx context.Context) (*Response, error) {
		return c.do(ctx, target, headers, timeout)
	}, c.retry)
}

// do performs a single attempt
func (c *Client) do(ctx context.Context, target string, headers map[string]string, timeout time.Duration) (*Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, "failed to create request", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    target,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// The caller gave up; nothing to retry
			return nil, ctx.Err()
		}
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      target,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errs.Wrap(errs.ErrorTypeNetwork, "failed to read response body", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"url":      target,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	response := &Response{
		URL:    target,
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   body,
	}
	if err := c.checkResponseStatus(response); err != nil {
		return nil, err
	}
	return response, nil
}

// checkResponseStatus maps non-2xx responses to typed errors carrying the response
func (c *Client) checkResponseStatus(resp *Response) error {
	if resp.Status >= 200 && resp.Status < 300 {
		return nil
	}

	errType := errs.TypeForStatus(resp.Status)
	c.logger.WarnWithFields("unexpected status from provider", map[string]interface{}{
		"status": resp.Status,
		"url":    resp.URL,
		"type":   string(errType),
	})
	return &errs.Error{
		Type:    errType,
		Message: http.StatusText(resp.Status),
		Code:    resp.Status,
		Err:     &ResponseError{Response: resp},
	}
}

func buildURL(rawURL string, params Params) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if len(params) == 0 {
		return u.String(), nil
	}
	query := u.Query()
	for _, param := range params {
		query.Set(param.Key, param.Value)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}
