// Package protocol defines the wire contract of the gateway: JSON-RPC 2.0
// request and response envelopes, the closed set of protocol methods, and the
// parameter and result shapes for each method. The package is pure data; it
// performs no dispatch and holds no state.
package protocol

import (
	"encoding/json"
	"fmt"
)

// JSONRPCVersion is the protocol version tag carried by every envelope.
const JSONRPCVersion = "2.0"

// Request is a JSON-RPC 2.0 request envelope. ID is the correlation id and
// may be a string or a number; Params stays opaque until the method is routed.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewRequest creates a request envelope with marshaled params.
func NewRequest(id interface{}, method string, params interface{}) (*Request, error) {
	var raw json.RawMessage
	if params != nil {
		var err error
		raw, err = json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("marshal params: %w", err)
		}
	}
	return &Request{JSONRPC: JSONRPCVersion, ID: id, Method: method, Params: raw}, nil
}

// IsNotification reports whether the request carries no correlation id and
// therefore expects no response.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Response is a JSON-RPC 2.0 response envelope. Exactly one of Result and
// Error is populated, never both and never neither.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ErrorObject    `json:"error,omitempty"`
}

// ErrorObject is the JSON-RPC 2.0 error member. Code is for machines, Message
// is for humans, Data carries optional structured detail.
type ErrorObject struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewResponse creates a success response echoing the correlation id.
func NewResponse(id interface{}, result interface{}) (*Response, error) {
	var raw json.RawMessage
	if result != nil {
		var err error
		raw, err = json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("marshal result: %w", err)
		}
	}
	if raw == nil {
		raw = json.RawMessage("null")
	}
	return &Response{JSONRPC: JSONRPCVersion, ID: id, Result: raw}, nil
}

// NewErrorResponse creates an error response echoing the correlation id.
func NewErrorResponse(id interface{}, code int, message string, data interface{}) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &ErrorObject{Code: code, Message: message, Data: data},
	}
}

// Valid reports whether the response satisfies the envelope invariant:
// exactly one of result and error populated.
func (r *Response) Valid() bool {
	hasResult := len(r.Result) > 0
	hasError := r.Error != nil
	return hasResult != hasError
}
