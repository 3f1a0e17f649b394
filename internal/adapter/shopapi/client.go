package shopapi

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
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/cloudshop/internal/core/domain"
)

const (
	defaultTimeout   = 10 * time.Second
	maxResponseBytes = 4 << 20

	RequestIDHeader = "X-Request-Id"
)

type Opt func(*clientOpts) error

type clientOpts struct {
	httpClient *http.Client
	timeout    time.Duration
}

func HTTPClientOpt(c *http.Client) Opt {
	return func(o *clientOpts) error {
		if c == nil {
			return errors.New("http client is nil")
		}
		o.httpClient = c
		return nil
	}
}

func TimeoutOpt(d time.Duration) Opt {
	return func(o *clientOpts) error {
		if d <= 0 {
			return fmt.Errorf("non-positive timeout %s", d)
		}
		o.timeout = d
		return nil
	}
}

// A Client talks to the Cloud Shop REST API. Every call is a single attempt.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

func New(baseURL string, opts ...Opt) (Client, error) {
	const op = "shopapi.New"

	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return Client{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidBaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Client{}, fmt.Errorf("%s: %w: %q", op, ErrInvalidBaseURL, baseURL)
	}

	o := clientOpts{timeout: defaultTimeout}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return Client{}, fmt.Errorf("%s: %w", op, err)
		}
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}

	return Client{baseURL: u, http: o.httpClient}, nil
}

type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

type response struct {
	envelope envelope
	header   http.Header
}

// do sends the request and returns the envelope of a successful response.
func (c Client) do(ctx context.Context, r request) (response, error) {
	const op = "Client.do"

	reqID := uuid.NewString()
	log := slog.With("op", op, "requestID", reqID, "method", r.method, "path", r.path)

	httpReq, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return response{}, fmt.Errorf("%s: %w", op, err)
	}
	httpReq.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	httpRes, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn("request failed", "err", err)
		return response{}, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := httpRes.Body.Close(); err != nil {
			log.Warn("failed to close response body", "err", err)
		}
	}()

	log.Debug("response received",
		"status", httpRes.StatusCode, "elapsed", time.Since(start),
	)

	env, err := c.readEnvelope(httpRes)
	if err != nil {
		return response{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := checkEnvelope(env); err != nil {
		return response{}, err
	}

	return response{envelope: env, header: httpRes.Header}, nil
}

func (c Client) newHTTPRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL.JoinPath(r.path)
	if len(r.query) != 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		b, err := json.Marshal(r.body)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if r.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+r.token)
	}
	return httpReq, nil
}

func (c Client) readEnvelope(res *http.Response) (envelope, error) {
	b, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return envelope{}, err
	}

	var env envelope
	decodeErr := json.Unmarshal(b, &env)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if decodeErr == nil && env.Code != 0 {
			return env, nil
		}
		return envelope{}, &HTTPError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
		}
	}

	if decodeErr != nil {
		return envelope{}, fmt.Errorf("invalid response body: %w", decodeErr)
	}
	return env, nil
}

func checkEnvelope(env envelope) error {
	switch env.Code {
	case CodeSuccess:
		return nil
	case CodeAuthExpired:
		return domain.ErrAuthExpired
	}

	msg := env.Msg
	if msg == "" {
		var s string
		if json.Unmarshal(env.Data, &s) == nil {
			msg = s
		}
	}
	return &APIError{Code: env.Code, Msg: msg}
}

func decodeData[T any](env envelope) (T, error) {
	var v T
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return v, nil
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		return v, fmt.Errorf("invalid response data: %w", err)
	}
	return v, nil
}
