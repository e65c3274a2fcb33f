package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/contextworks/mcp-gateway/pkg/errors"
	"github.com/contextworks/mcp-gateway/pkg/observability"
	"github.com/contextworks/mcp-gateway/pkg/protocol"
	"github.com/contextworks/mcp-gateway/pkg/resources"
	"github.com/contextworks/mcp-gateway/pkg/result"
	"github.com/contextworks/mcp-gateway/pkg/router"
	"github.com/contextworks/mcp-gateway/pkg/tools"
)

// SystemController answers the session-level methods: initialize and ping.
type SystemController struct {
	name         string
	version      string
	capabilities map[string]bool
}

// NewSystemController creates the controller describing this server.
func NewSystemController(name, version string, capabilities map[string]bool) *SystemController {
	return &SystemController{name: name, version: version, capabilities: capabilities}
}

// Mount registers the controller's methods on the router.
func (c *SystemController) Mount(r *router.Router) error {
	if err := r.Register(protocol.MethodInitialize, router.HandlerFunc(c.handleInitialize)); err != nil {
		return err
	}
	return r.Register(protocol.MethodPing, router.HandlerFunc(c.handlePing))
}

func (c *SystemController) handleInitialize(ctx context.Context, params json.RawMessage) result.Result[interface{}] {
	var initParams protocol.InitializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &initParams); err != nil {
			return result.Err[interface{}](errors.InvalidParams(protocol.MethodInitialize, err))
		}
	}
	return result.Ok[interface{}](&protocol.InitializeResult{
		ProtocolVersion: protocol.ProtocolRevision,
		Name:            c.name,
		Version:         c.version,
		Capabilities:    c.capabilities,
	})
}

func (c *SystemController) handlePing(ctx context.Context, params json.RawMessage) result.Result[interface{}] {
	var pingParams protocol.PingParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &pingParams); err != nil {
			return result.Err[interface{}](errors.InvalidParams(protocol.MethodPing, err))
		}
	}
	timestamp := pingParams.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().UnixMilli()
	}
	return result.Ok[interface{}](&protocol.PingResult{Timestamp: timestamp})
}

// ToolsController answers tools/list and tools/call against the tool
// registry. The tool context is borrowed by handlers per call.
type ToolsController struct {
	registry *tools.Registry
	context  *tools.Context
	metrics  *observability.Metrics
}

// NewToolsController creates the controller over registry. metrics may be
// nil.
func NewToolsController(registry *tools.Registry, tc *tools.Context, metrics *observability.Metrics) *ToolsController {
	return &ToolsController{registry: registry, context: tc, metrics: metrics}
}

// Mount registers the controller's methods on the router.
func (c *ToolsController) Mount(r *router.Router) error {
	if err := r.Register(protocol.MethodListTools, router.HandlerFunc(c.handleList)); err != nil {
		return err
	}
	return r.Register(protocol.MethodCallTool, router.HandlerFunc(c.handleCall))
}

func (c *ToolsController) handleList(ctx context.Context, params json.RawMessage) result.Result[interface{}] {
	return result.Ok[interface{}](&protocol.ListToolsResult{Tools: c.registry.List()})
}

func (c *ToolsController) handleCall(ctx context.Context, params json.RawMessage) result.Result[interface{}] {
	var callParams protocol.CallToolParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return result.Err[interface{}](errors.InvalidParams(protocol.MethodCallTool, err))
	}
	if callParams.Name == "" {
		return result.Err[interface{}](errors.New(errors.KindInvalidParams, "tool name is required"))
	}

	res := c.registry.Invoke(ctx, callParams.Name, callParams.Arguments, c.context)

	outcome := "ok"
	if res.IsErr() {
		outcome = "error"
	}
	c.metrics.ObserveToolCall(callParams.Name, outcome)

	// The handler's Result passes through unchanged.
	return res
}

// ResourcesController answers resources/list and resources/read against the
// resource registry.
type ResourcesController struct {
	registry *resources.Registry
}

// NewResourcesController creates the controller over registry.
func NewResourcesController(registry *resources.Registry) *ResourcesController {
	return &ResourcesController{registry: registry}
}

// Mount registers the controller's methods on the router.
func (c *ResourcesController) Mount(r *router.Router) error {
	if err := r.Register(protocol.MethodListResources, router.HandlerFunc(c.handleList)); err != nil {
		return err
	}
	return r.Register(protocol.MethodReadResource, router.HandlerFunc(c.handleRead))
}

func (c *ResourcesController) handleList(ctx context.Context, params json.RawMessage) result.Result[interface{}] {
	return result.Ok[interface{}](&protocol.ListResourcesResult{Resources: c.registry.List()})
}

func (c *ResourcesController) handleRead(ctx context.Context, params json.RawMessage) result.Result[interface{}] {
	var readParams protocol.ReadResourceParams
	if err := json.Unmarshal(params, &readParams); err != nil {
		return result.Err[interface{}](errors.InvalidParams(protocol.MethodReadResource, err))
	}
	if readParams.URI == "" {
		return result.Err[interface{}](errors.New(errors.KindInvalidParams, "resource uri is required"))
	}

	res := c.registry.Read(ctx, readParams.URI)
	if res.IsErr() {
		return result.Err[interface{}](res.Err())
	}
	return result.Ok[interface{}](&protocol.ReadResourceResult{Contents: res.Value()})
}
