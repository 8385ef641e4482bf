// Package client talks to the course content API. Every operation returns
// the server's envelope as is; the error result is reserved for transport
// failures, so callers branch on Envelope.Success for business outcomes.
package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

const (
	HeaderCSRFToken = "X-CSRF-Token"

	// csrfRejection is the error text the server uses for a stale or missing token.
	csrfRejection = "invalid csrf token"

	defaultTimeout = 10 * time.Second
)

type Config struct {
	// BaseURL is the server root, e.g. http://localhost:8080.
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

type Client struct {
	cfg    Config
	log    *utils.Logger
	tokens *TokenCache

	mu        sync.RWMutex
	authToken string
}

func New(cfg Config, log *utils.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if log == nil {
		log = utils.NopLogger()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:       cfg,
		log:       log.With("component", "content-client"),
		authToken: cfg.AuthToken,
	}
	c.tokens = NewTokenCache(c.fetchCSRFToken)
	return c
}

// Tokens exposes the CSRF token cache.
func (c *Client) Tokens() *TokenCache {
	return c.tokens
}

func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.authToken = token
	c.mu.Unlock()
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   interface{}
}

// call performs one round trip. Non-GET requests carry the CSRF token.
func call[T any](ctx context.Context, c *Client, r request) (*models.Envelope[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, c.transportError(r, 0, err)
	}

	var csrf string
	if r.method != fiber.MethodGet {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, c.transportError(r, 0, errors.Wrap(err, "obtain csrf token"))
		}
		csrf = token
	}

	uri := c.cfg.BaseURL + r.path
	if len(r.query) > 0 {
		uri += "?" + encodeQuery(r.query)
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(r.method)
	req.SetRequestURI(uri)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if token := c.AuthToken(); token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	if csrf != "" {
		a.Set(HeaderCSRFToken, csrf)
	}
	if r.body != nil {
		a.JSON(r.body)
	}
	a.Timeout(c.timeout(ctx))

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return nil, c.transportError(r, 0, err)
	}
	status, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, c.transportError(r, status, errs[0])
	}

	env, err := decodeEnvelope[T](body)
	if err != nil {
		return nil, c.transportError(r, status, err)
	}
	if !env.Success && status == fiber.StatusForbidden && env.Error == csrfRejection {
		c.log.Warn("csrf token rejected, dropping cached token", "op", r.op)
		c.tokens.Invalidate()
	}
	return env, nil
}

func decodeEnvelope[T any](body []byte) (*models.Envelope[T], error) {
	var head struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal(body, &head); err != nil {
		return nil, errors.Wrap(err, "decode envelope")
	}
	if head.Success == nil {
		return nil, errors.New("response is not an envelope")
	}

	var env models.Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, errors.Wrap(err, "decode envelope data")
	}
	return &env, nil
}

// timeout is the configured timeout, shortened to the context deadline.
func (c *Client) timeout(ctx context.Context) time.Duration {
	timeout := c.cfg.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		timeout = time.Millisecond
	}
	return timeout
}

func (c *Client) transportError(r request, status int, err error) error {
	terr := &TransportError{
		Op:     r.op,
		Status: status,
		Err:    errors.Wrapf(err, "%s %s", r.method, r.path),
	}
	c.log.Error("content api transport failure", "op", r.op, "status", status, "error", err)
	return terr
}

func (c *Client) fetchCSRFToken(ctx context.Context) (string, time.Time, error) {
	env, err := call[models.CSRFToken](ctx, c, request{
		op:     "FetchCSRFToken",
		method: fiber.MethodGet,
		path:   "/api/csrf-token",
	})
	if err != nil {
		return "", time.Time{}, err
	}
	if !env.Success {
		return "", time.Time{}, errors.New(env.Failure())
	}
	return env.Data.Token, env.Data.ExpiresAt, nil
}

// pathID escapes one id for use as a path segment.
func pathID(id string) string {
	return url.PathEscape(id)
}

// encodeQuery escapes each value but keeps list separators literal, so
// ids=a,b reaches the server as two ids.
func encodeQuery(q url.Values) string {
	parts := make([]string, 0, len(q))
	for key, values := range q {
		escaped := make([]string, 0, len(values))
		for _, v := range values {
			escaped = append(escaped, url.QueryEscape(v))
		}
		parts = append(parts, url.QueryEscape(key)+"="+strings.Join(escaped, ","))
	}
	return strings.Join(parts, "&")
}

func idList(key string, ids []string) url.Values {
	return url.Values{key: ids}
}
