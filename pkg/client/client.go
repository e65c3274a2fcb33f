// Package client provides a small gateway client for the HTTP transport. It
// speaks the same closed method set the server routes and maps wire error
// objects back onto the structured error type, so callers branch on error
// kinds rather than raw codes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/contextworks/mcp-gateway/pkg/errors"
	"github.com/contextworks/mcp-gateway/pkg/protocol"
)

// Client talks to a gateway over HTTP POST /rpc.
type Client struct {
	endpoint string
	http     *http.Client
	nextID   atomic.Int64

	name    string
	version string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// WithClientInfo sets the identity reported by Initialize.
func WithClientInfo(name, version string) Option {
	return func(c *Client) {
		c.name = name
		c.version = version
	}
}

// New creates a client for the gateway at baseURL (e.g. "http://localhost:8137").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint: baseURL + "/rpc",
		http:     &http.Client{Timeout: 30 * time.Second},
		name:     "mcp-gateway-client",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call sends one request and decodes its result into out (which may be nil).
// Wire error objects come back as *errors.Error with the kind resolved from
// the code.
func (c *Client) Call(ctx context.Context, method string, params, out interface{}) error {
	req, err := protocol.NewRequest(c.nextID.Add(1), method, params)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var resp protocol.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.Error != nil {
		kind, _ := errors.KindForCode(resp.Error.Code)
		return errors.New(kind, resp.Error.Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// Initialize performs the initialize handshake.
func (c *Client) Initialize(ctx context.Context) (*protocol.InitializeResult, error) {
	var result protocol.InitializeResult
	params := protocol.InitializeParams{Name: c.name, Version: c.version}
	if err := c.Call(ctx, protocol.MethodInitialize, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks liveness, echoing a client timestamp.
func (c *Client) Ping(ctx context.Context) (*protocol.PingResult, error) {
	var result protocol.PingResult
	params := protocol.PingParams{Timestamp: time.Now().UnixMilli()}
	if err := c.Call(ctx, protocol.MethodPing, params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListTools returns the server's registered tools.
func (c *Client) ListTools(ctx context.Context) ([]protocol.ToolDescriptor, error) {
	var result protocol.ListToolsResult
	if err := c.Call(ctx, protocol.MethodListTools, protocol.ListToolsParams{}, &result); err != nil {
		return nil, err
	}
	return result.Tools, nil
}

// CallTool invokes a tool and decodes its payload into out (which may be nil).
func (c *Client) CallTool(ctx context.Context, name string, arguments, out interface{}) error {
	rawArgs, err := json.Marshal(arguments)
	if err != nil {
		return fmt.Errorf("encode arguments: %w", err)
	}
	params := protocol.CallToolParams{Name: name, Arguments: rawArgs}
	return c.Call(ctx, protocol.MethodCallTool, params, out)
}

// ListResources returns the server's registered resources.
func (c *Client) ListResources(ctx context.Context) ([]protocol.ResourceDescriptor, error) {
	var result protocol.ListResourcesResult
	if err := c.Call(ctx, protocol.MethodListResources, protocol.ListResourcesParams{}, &result); err != nil {
		return nil, err
	}
	return result.Resources, nil
}

// ReadResource fetches one resource's contents.
func (c *Client) ReadResource(ctx context.Context, uri string) (*protocol.ResourceContents, error) {
	var result protocol.ReadResourceResult
	params := protocol.ReadResourceParams{URI: uri}
	if err := c.Call(ctx, protocol.MethodReadResource, params, &result); err != nil {
		return nil, err
	}
	return &result.Contents, nil
}
