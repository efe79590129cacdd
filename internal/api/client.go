package api

import (
	"bytes"
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

	"github.com/MaximoGamba/DemoEcommers/internal/config"
	appErrors "github.com/MaximoGamba/DemoEcommers/internal/errors"
	"github.com/MaximoGamba/DemoEcommers/internal/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Identity supplies the headers that attribute cart and order requests to a
// session and user. The session Manager implements it.
type Identity interface {
	SessionID() string
	UserID() string
	Token() string
}

// Client is the typed REST client for the storefront backend. Every payload
// travels inside the {success, message, data} envelope; errors are mapped to
// the AppError taxonomy in exactly one place so callers can branch on
// business rejection versus transport failure.
type Client struct {
	http     *http.Client
	baseURL  string
	identity Identity
	logger   *slog.Logger
}

func NewClient(cfg *config.Backend, identity Identity, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		identity: identity,
		logger:   logger,
	}
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type requestSpec struct {
	method string
	// concrete request path, e.g. /carrito/items/42
	path string
	// endpoint is the metric label, e.g. /carrito/items/{itemId}
	endpoint string
	query    url.Values
	body     any
	identity bool
	headers  map[string]string
}

const (
	msgUnreachable = "Could not reach the store. Try again."
	msgUnexpected  = "The store returned an unexpected response. Try again."
)

func (c *Client) newRequest(ctx context.Context, spec requestSpec) (*http.Request, error) {
	target := c.baseURL + spec.path
	if len(spec.query) > 0 {
		target += "?" + spec.query.Encode()
	}

	var body io.Reader

	if spec.body != nil {
		data, err := json.Marshal(spec.body)
		if err != nil {
			return nil, appErrors.InternalError("Failed to encode request").WithError(err)
		}

		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, target, body)
	if err != nil {
		return nil, appErrors.InternalError("Failed to build request").WithError(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	if spec.identity {
		req.Header.Set("X-Session-Id", c.identity.SessionID())
		req.Header.Set("X-User-Id", c.identity.UserID())
	}

	if token := c.identity.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	for k, v := range spec.headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// execute runs the request and returns the status code plus raw body.
// Network-level failures come back as transport errors; HTTP status mapping
// is left to the caller.
func (c *Client) execute(req *http.Request, endpoint string) (int, []byte, error) {
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(req.Method, endpoint, "error", time.Since(start))
		c.logger.Warn("backend request failed",
			slog.String("method", req.Method),
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)

		return 0, nil, appErrors.TransportError(msgUnreachable).WithError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	metrics.ObserveAPIRequest(req.Method, endpoint, strconv.Itoa(resp.StatusCode), time.Since(start))

	if err != nil {
		return resp.StatusCode, nil, appErrors.TransportError(msgUnreachable).WithError(err)
	}

	return resp.StatusCode, body, nil
}

// call performs a round-trip and decodes the envelope's data field.
func call[T any](ctx context.Context, c *Client, spec requestSpec) (T, error) {
	var zero T

	req, err := c.newRequest(ctx, spec)
	if err != nil {
		return zero, err
	}

	status, body, err := c.execute(req, spec.endpoint)
	if err != nil {
		return zero, err
	}

	if err := mapStatus(status, body); err != nil {
		return zero, err
	}

	var env envelope[T]

	if err := json.Unmarshal(body, &env); err != nil {
		return zero, appErrors.TransportError(msgUnexpected).WithError(err)
	}

	if !env.Success {
		return zero, appErrors.BusinessError(messageOr(env.Message, msgUnexpected))
	}

	return env.Data, nil
}

// mapStatus turns a non-2xx response into the right error class: 5xx is a
// transport fault, 404 a not-found, 402 a declined payment, any other 4xx a
// business rejection carrying the server's message.
func mapStatus(status int, body []byte) error {
	if status < 400 {
		return nil
	}

	message := envelopeMessage(body)

	switch {
	case status >= 500:
		return appErrors.TransportError(msgUnreachable).
			WithDetail(fmt.Sprintf("status %d", status))
	case status == http.StatusNotFound:
		return appErrors.NotFoundError(messageOr(message, "Resource not found"))
	case status == http.StatusPaymentRequired:
		return appErrors.PaymentDeclinedError(messageOr(message, "El pago fue rechazado"))
	default:
		return appErrors.BusinessError(messageOr(message, msgUnexpected))
	}
}

func envelopeMessage(body []byte) string {
	var env envelope[json.RawMessage]

	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}

	return env.Message
}

func messageOr(message, fallback string) string {
	if message != "" {
		return message
	}

	return fallback
}
