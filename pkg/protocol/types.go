package protocol

import "encoding/json"

// ProtocolRevision identifies the revision of the gateway protocol reported
// by initialize.
const ProtocolRevision = "2025-06-18"

// InitializeParams identifies the connecting client.
type InitializeParams struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

// InitializeResult reports the server identity and enabled capabilities.
type InitializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Name            string          `json:"name"`
	Version         string          `json:"version"`
	Capabilities    map[string]bool `json:"capabilities,omitempty"`
}

// PingParams optionally carries a client timestamp to echo.
type PingParams struct {
	Timestamp int64 `json:"timestamp,omitempty"`
}

// PingResult echoes the client timestamp, or reports the server's.
type PingResult struct {
	Timestamp int64 `json:"timestamp"`
}

// ListToolsParams is the (empty) parameter shape of tools/list.
type ListToolsParams struct{}

// ToolDescriptor is the wire shape of one registered tool.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// ListToolsResult lists registered tools in registration order.
type ListToolsResult struct {
	Tools []ToolDescriptor `json:"tools"`
}

// CallToolParams names a tool and carries its raw, not-yet-validated
// arguments.
type CallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ListResourcesParams is the (empty) parameter shape of resources/list.
type ListResourcesParams struct{}

// ResourceDescriptor is the wire shape of one registered resource.
type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ListResourcesResult lists registered resources in registration order.
type ListResourcesResult struct {
	Resources []ResourceDescriptor `json:"resources"`
}

// ReadResourceParams names the resource to read.
type ReadResourceParams struct {
	URI string `json:"uri"`
}

// ResourceContents is the payload of one read resource.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text"`
}

// ReadResourceResult wraps the contents of a read resource.
type ReadResourceResult struct {
	Contents ResourceContents `json:"contents"`
}
