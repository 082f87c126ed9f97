// Package client sends signed requests to Alibaba Cloud RPC-style APIs and
// classifies the replies into typed results or *apierr.Error values.
//
// A Client holds one set of credentials and is safe for concurrent use. It
// never retries; see apierr.RetryWithBackoff for caller-side retry.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/alnah/go-aliyun/internal/json"
	"github.com/alnah/go-aliyun/pkg/apierr"
	"github.com/alnah/go-aliyun/pkg/signing"
)

const (
	// Response size limit to prevent OOM from malformed responses (10MB)
	defaultMaxResponseSize = 10 * 1024 * 1024

	paramAction = "Action"
)

// HTTPDoer abstracts the HTTP transport.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sender sends one signed request and returns the raw JSON reply.
type Sender interface {
	Send(ctx context.Context, endpoint string, params signing.Params) (RawResponse, error)
}

// Compile-time interface compliance check.
var _ Sender = (*Client)(nil)

// Credentials identify the caller. The secret never appears in logs, errors
// or formatted output.
type Credentials struct {
	AccessKeyID     string
	AccessKeySecret string
}

func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{AccessKeyID: %q, AccessKeySecret: <redacted>}", c.AccessKeyID)
}

// GoString keeps the secret out of %#v.
func (c Credentials) GoString() string { return c.String() }

// RawResponse is a reply whose body is syntactically valid JSON. The HTTP
// status is informational; classification is by body shape.
type RawResponse struct {
	StatusCode int
	Body       json.RawMessage
}

// Client signs and dispatches requests.
type Client struct {
	creds           Credentials
	httpClient      HTTPDoer
	httpTimeout     time.Duration
	algorithm       signing.Algorithm
	nonce           func() string
	clock           func() time.Time
	logger          logrus.FieldLogger
	metrics         *Metrics
	maxResponseSize int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the transport. Default is an *http.Client using the
// timeout from WithHTTPTimeout.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = doer
	}
}

// WithHTTPTimeout sets the timeout of the default transport. Zero means no
// timeout; the context still applies.
func WithHTTPTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpTimeout = timeout
		}
	}
}

// WithAlgorithm sets the SignatureMethod used when the caller does not set
// one. Default is signing.DefaultAlgorithm.
func WithAlgorithm(alg signing.Algorithm) Option {
	return func(c *Client) {
		c.algorithm = alg
	}
}

// WithNonce replaces the SignatureNonce generator (default: random UUIDv4).
func WithNonce(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.nonce = fn
		}
	}
}

// WithClock replaces the source of the Timestamp parameter.
func WithClock(fn func() time.Time) Option {
	return func(c *Client) {
		if fn != nil {
			c.clock = fn
		}
	}
}

// WithLogger sets the logger. Default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records request counts and latencies into m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithMaxResponseSize caps the number of body bytes read.
func WithMaxResponseSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResponseSize = n
		}
	}
}

// New creates a Client. Empty credentials are accepted; the provider rejects
// such requests.
func New(creds Credentials, opts ...Option) *Client {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	c := &Client{
		creds:           creds,
		algorithm:       signing.DefaultAlgorithm,
		nonce:           uuid.NewString,
		clock:           time.Now,
		logger:          discard,
		maxResponseSize: defaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Create HTTP client after options are applied (timeout may be customized)
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.httpTimeout}
	}
	return c
}

// AccessKeyID returns the identifier the client signs with.
func (c *Client) AccessKeyID() string { return c.creds.AccessKeyID }

// Send signs params and issues a single GET to https://{endpoint}/.
//
// params is not modified. A JSON body is returned whatever the HTTP status.
// Every failure is an *apierr.Error: timeouts and connection failures are
// KindRequestFailure, as is a non-JSON body with a non-2xx status. A non-JSON
// 2xx body, a signing failure and caller cancellation are KindInternal.
func (c *Client) Send(ctx context.Context, endpoint string, params signing.Params) (RawResponse, error) {
	action := params[paramAction]
	start := time.Now()
	log := c.logger.WithFields(logrus.Fields{"action": action, "endpoint": endpoint})

	raw, err := c.send(ctx, endpoint, params)
	elapsed := time.Since(start)

	c.metrics.observe(action, outcomeOf(err), elapsed)
	if err != nil {
		if e, ok := apierr.AsError(err); ok && e.Kind == apierr.KindRequestFailure {
			log.WithFields(logrus.Fields{"failure": e.Failure.String(), "status": e.Status}).
				Warn("aliyun request failed")
		} else {
			log.WithError(err).Debug("aliyun request failed")
		}
		return RawResponse{}, err
	}

	log.WithFields(logrus.Fields{"status": raw.StatusCode, "elapsed": elapsed}).Debug("aliyun request")
	return raw, nil
}

func (c *Client) send(ctx context.Context, endpoint string, params signing.Params) (RawResponse, error) {
	assembled := signing.Assemble(params, c.creds.AccessKeyID, c.algorithm, c.nonce(), c.clock())
	signed, err := signing.SignParams(assembled, c.creds.AccessKeySecret)
	if err != nil {
		return RawResponse{}, apierr.NewInternal("sign request", err)
	}

	target := "https://" + endpoint + "/?" + signing.CanonicalString(signed)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		// The URL carries the signature; report the endpoint only.
		return RawResponse{}, apierr.NewInternal(fmt.Sprintf("build request for endpoint %q", endpoint), stripURL(err))
	}

	status, body, err := c.exchange(req)
	if err != nil {
		return RawResponse{}, classifyTransportError(err)
	}

	if !json.Valid(body) {
		if status < 200 || status > 299 {
			return RawResponse{}, apierr.NewRequestFailure(apierr.FailureStatus, status,
				fmt.Sprintf("non-JSON response body (%d bytes)", len(body)), nil)
		}
		return RawResponse{}, apierr.NewInternal(fmt.Sprintf("non-JSON response body with status %d", status), errNotJSON)
	}

	return RawResponse{StatusCode: status, Body: body}, nil
}

// exchange performs the HTTP round trip and reads the capped body.
func (c *Client) exchange(req *http.Request) (status int, body []byte, err error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	body, err = io.ReadAll(io.LimitReader(resp.Body, c.maxResponseSize))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
