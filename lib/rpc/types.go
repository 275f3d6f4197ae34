package rpc

import (
	"encoding/json"
	"fmt"
)

// JSON-RPC 2.0 error codes.
// Reference: https://www.jsonrpc.org/specification
const (
	ErrCodeParseError     = -32700 // Invalid JSON received by server
	ErrCodeInvalidRequest = -32600 // JSON is not a valid Request object
	ErrCodeMethodNotFound = -32601 // Method does not exist
	ErrCodeInvalidParams  = -32602 // Invalid method parameters
	ErrCodeInternalError  = -32603 // Internal JSON-RPC error

	// Implementation-defined codes from the -32000 to -32099 range.
	ErrCodeAuthRequired = -32000 // Authentication token required
	ErrCodeAuthFailed   = -32001 // Authentication failed (invalid password)
	ErrCodeUnavailable  = -32003 // Clock information not available
)

// Request represents a JSON-RPC 2.0 request. A missing ID marks a notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("JSON-RPC error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// ParseRequest parses a JSON-RPC 2.0 request from raw bytes, checking the
// protocol version and method name.
func ParseRequest(data []byte) (*Request, error) {
	if len(data) == 0 {
		return nil, NewRPCError(ErrCodeParseError, "empty request")
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, NewRPCErrorWithData(ErrCodeParseError, "invalid JSON", err.Error())
	}
	if req.JSONRPC != "2.0" {
		return nil, NewRPCErrorWithData(ErrCodeInvalidRequest, "invalid JSON-RPC version",
			fmt.Sprintf("expected \"2.0\", got %q", req.JSONRPC))
	}
	if req.Method == "" {
		return nil, NewRPCError(ErrCodeInvalidRequest, "missing method name")
	}
	return &req, nil
}

// IsNotification reports whether the request has no ID. The server must not
// reply to notifications.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Marshal encodes r as JSON.
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// NewSuccessResponse builds a response carrying result.
func NewSuccessResponse(id interface{}, result interface{}) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

// NewErrorResponse builds a response carrying err. id is nil when the
// request could not be parsed.
func NewErrorResponse(id interface{}, err *RPCError) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: err}
}

// NewRPCError returns an error object without data.
func NewRPCError(code int, message string) *RPCError {
	return &RPCError{Code: code, Message: message}
}

// NewRPCErrorWithData returns an error object with additional data.
func NewRPCErrorWithData(code int, message string, data interface{}) *RPCError {
	return &RPCError{Code: code, Message: message, Data: data}
}
