package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/guarzo/nequiapi/common"
)

// GatewayClient performs the agents gateway operations. It never obtains tokens
// itself: every call takes the Authorization value to send.
type GatewayClient interface {
	Invoke(ctx context.Context, op Operation, body interface{}, params map[string]string) ([]byte, error)

	CashIn(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error)
	CashOut(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error)
	CashOutConsult(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error)
	ValidateClient(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error)
	ReverseTransaction(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error)
	GetPublicKey(ctx context.Context, authorization string) (string, error)
}

type gatewayClient struct {
	baseURL    string
	httpClient common.HttpClient
	logger     *zap.Logger
	metrics    *common.Metrics
}

// NewGatewayClient creates a GatewayClient. An empty baseURL means DefaultBaseURL,
// a nil httpClient gets the default transport, and logger and metrics may be nil.
func NewGatewayClient(baseURL string, httpClient common.HttpClient, logger *zap.Logger, metrics *common.Metrics) GatewayClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = common.NewHttpClient(common.DefaultUserAgent, nil, common.DefaultTimeout)
	}
	return &gatewayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     common.LoggerOrNop(logger),
		metrics:    metrics,
	}
}

// ---------------------------------------------------
// Typed operations
// ---------------------------------------------------

func (c *gatewayClient) CashIn(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error) {
	return c.invokeJSON(ctx, opCashIn, body, authorization)
}

func (c *gatewayClient) CashOut(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error) {
	return c.invokeJSON(ctx, opCashOut, body, authorization)
}

func (c *gatewayClient) CashOutConsult(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error) {
	return c.invokeJSON(ctx, opCashOutConsult, body, authorization)
}

func (c *gatewayClient) ValidateClient(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error) {
	return c.invokeJSON(ctx, opValidateClient, body, authorization)
}

func (c *gatewayClient) ReverseTransaction(ctx context.Context, body interface{}, authorization string) (json.RawMessage, error) {
	return c.invokeJSON(ctx, opReverseTransaction, body, authorization)
}

// GetPublicKey returns the response body as-is.
func (c *gatewayClient) GetPublicKey(ctx context.Context, authorization string) (string, error) {
	data, err := c.Invoke(ctx, opGetPublicKey, nil, authParams(authorization))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *gatewayClient) invokeJSON(ctx context.Context, op Operation, body interface{}, authorization string) (json.RawMessage, error) {
	data, err := c.Invoke(ctx, op, body, authParams(authorization))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(data), nil
}

func authParams(authorization string) map[string]string {
	return map[string]string{"Authorization": authorization}
}

// ---------------------------------------------------
// Generic invoke
// ---------------------------------------------------

// Invoke runs op with the given body and bound parameters and returns the raw
// response body. Non-2xx responses come back as *common.HTTPError; nothing is retried.
func (c *gatewayClient) Invoke(ctx context.Context, op Operation, body interface{}, params map[string]string) ([]byte, error) {
	start := time.Now()
	requestID := uuid.NewString()
	log := c.logger.With(
		zap.String(common.KeyOperation, op.Name),
		zap.String(common.KeyPath, op.Path),
		zap.String(common.KeyRequestID, requestID),
	)

	data, status, err := c.doRequest(ctx, op, body, params)
	c.metrics.RecordGateway(op.Name, err, time.Since(start))
	if err != nil {
		log.Debug("gateway call failed", zap.Int(common.KeyStatus, status), zap.Error(err))
		return nil, err
	}
	log.Debug("gateway call completed", zap.Int(common.KeyStatus, status), zap.Duration(common.KeyDuration, time.Since(start)))
	return data, nil
}

func (c *gatewayClient) doRequest(ctx context.Context, op Operation, body interface{}, params map[string]string) ([]byte, int, error) {
	urlStr, err := c.buildURL(op, params)
	if err != nil {
		return nil, 0, err
	}

	var bodyReader io.Reader
	if op.HasBody {
		payload, err := encodeBody(body)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, op.Method, urlStr, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if op.HasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, b := range op.Bindings {
		if b.In == InHeader {
			if v, ok := params[b.Name]; ok {
				req.Header.Set(b.Name, v)
			}
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &common.TransportError{Op: op.Method, URL: urlStr, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &common.TransportError{Op: op.Method, URL: urlStr, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, &common.HTTPError{StatusCode: resp.StatusCode, Body: data}
	}
	if op.ReturnsJSON && !json.Valid(data) {
		return nil, resp.StatusCode, &common.MalformedResponseError{Reason: op.Name + " response is not valid JSON", Body: data}
	}
	return data, resp.StatusCode, nil
}

// buildURL appends the operation path to the base URL and applies query bindings.
// The base keeps its own path (e.g. /agents/v2), so this is a join, not a resolve.
func (c *gatewayClient) buildURL(op Operation, params map[string]string) (string, error) {
	u, err := url.Parse(c.baseURL + op.Path)
	if err != nil {
		return "", fmt.Errorf("invalid gateway URL: %w", err)
	}
	q := u.Query()
	for _, b := range op.Bindings {
		if b.In == InQuery {
			if v, ok := params[b.Name]; ok {
				q.Set(b.Name, v)
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// encodeBody passes raw JSON through untouched and marshals everything else.
func encodeBody(body interface{}) ([]byte, error) {
	switch v := body.(type) {
	case json.RawMessage:
		return v, nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(v)
	}
}
