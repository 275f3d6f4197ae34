package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-i2p/logger"
)

// RPCHandler processes one JSON-RPC method. Returned errors should be
// *RPCError; anything else is reported as an internal error.
type RPCHandler interface {
	Handle(ctx context.Context, params json.RawMessage) (interface{}, error)
}

// RPCHandlerFunc adapts a function to RPCHandler.
type RPCHandlerFunc func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Handle calls f(ctx, params).
func (f RPCHandlerFunc) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return f(ctx, params)
}

// MethodRegistry maps method names to handlers. Safe for concurrent use.
type MethodRegistry struct {
	handlers map[string]RPCHandler
	mu       sync.RWMutex
}

// NewMethodRegistry returns an empty registry.
func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{handlers: make(map[string]RPCHandler)}
}

// Register adds or replaces the handler for method.
func (mr *MethodRegistry) Register(method string, handler RPCHandler) {
	replaced := mr.IsRegistered(method)

	mr.mu.Lock()
	mr.handlers[method] = handler
	mr.mu.Unlock()

	log.WithFields(logger.Fields{
		"at":       "MethodRegistry.Register",
		"method":   method,
		"replaced": replaced,
	}).Debug("registered RPC method")
}

// IsRegistered reports whether a handler exists for method.
func (mr *MethodRegistry) IsRegistered(method string) bool {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	_, exists := mr.handlers[method]
	return exists
}

// ListMethods returns the registered method names in sorted order.
func (mr *MethodRegistry) ListMethods() []string {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	methods := make([]string, 0, len(mr.handlers))
	for method := range mr.handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// Dispatch invokes the handler registered for method.
func (mr *MethodRegistry) Dispatch(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	mr.mu.RLock()
	handler, exists := mr.handlers[method]
	mr.mu.RUnlock()

	if !exists {
		log.WithFields(logger.Fields{
			"at":     "MethodRegistry.Dispatch",
			"method": method,
			"reason": "method_not_found",
		}).Warn("attempted to call unregistered method")
		return nil, NewRPCError(ErrCodeMethodNotFound, fmt.Sprintf("method %q not found", method))
	}

	result, err := handler.Handle(ctx, params)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return nil, rpcErr
		}
		log.WithFields(logger.Fields{
			"at":     "MethodRegistry.Dispatch",
			"method": method,
		}).WithError(err).Error("method handler returned error")
		return nil, NewRPCErrorWithData(ErrCodeInternalError, "internal error", err.Error())
	}
	return result, nil
}

// HandleRequest parses and dispatches a raw request. It returns nil for
// notifications; every other outcome, errors included, is a Response.
func (mr *MethodRegistry) HandleRequest(ctx context.Context, requestData []byte) *Response {
	req, err := ParseRequest(requestData)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return NewErrorResponse(nil, rpcErr)
		}
		return NewErrorResponse(nil, NewRPCError(ErrCodeParseError, err.Error()))
	}
	return mr.HandleParsedRequest(ctx, req)
}

// HandleParsedRequest dispatches an already parsed request.
func (mr *MethodRegistry) HandleParsedRequest(ctx context.Context, req *Request) *Response {
	if req.IsNotification() {
		_, _ = mr.Dispatch(ctx, req.Method, req.Params)
		return nil
	}

	result, err := mr.Dispatch(ctx, req.Method, req.Params)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return NewErrorResponse(req.ID, rpcErr)
		}
		return NewErrorResponse(req.ID, NewRPCError(ErrCodeInternalError, err.Error()))
	}
	return NewSuccessResponse(req.ID, result)
}
