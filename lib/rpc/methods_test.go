package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodRegistry(t *testing.T) {
	mr := NewMethodRegistry()
	mr.Register("Echo", NewEchoHandler())
	mr.Register("LeapYear", NewLeapYearHandler())

	assert.True(t, mr.IsRegistered("Echo"))
	assert.False(t, mr.IsRegistered("Now"))
	assert.Equal(t, []string{"Echo", "LeapYear"}, mr.ListMethods())
}

// TestRegisterReplaces verifies a second registration replaces the handler.
func TestRegisterReplaces(t *testing.T) {
	mr := NewMethodRegistry()
	mr.Register("Echo", NewEchoHandler())
	mr.Register("Echo", RPCHandlerFunc(func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return "replaced", nil
	}))

	result, err := mr.Dispatch(context.Background(), "Echo", nil)
	require.NoError(t, err)
	assert.Equal(t, "replaced", result)
	assert.Equal(t, []string{"Echo"}, mr.ListMethods())
}

func TestDispatch(t *testing.T) {
	mr := NewMethodRegistry()
	mr.Register("Echo", NewEchoHandler())

	result, err := mr.Dispatch(context.Background(), "Echo", json.RawMessage(`{"Echo":"hello"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"Result": "hello"}, result)

	_, err = mr.Dispatch(context.Background(), "Missing", nil)
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, ErrCodeMethodNotFound, rpcErr.Code)
}

func TestDispatchWrapsPlainErrors(t *testing.T) {
	mr := NewMethodRegistry()
	mr.Register("Fail", RPCHandlerFunc(func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		return nil, errors.New("boom")
	}))

	_, err := mr.Dispatch(context.Background(), "Fail", nil)
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, ErrCodeInternalError, rpcErr.Code)
	assert.Equal(t, "boom", rpcErr.Data)
}

func TestHandleRequest(t *testing.T) {
	mr := NewMethodRegistry()
	mr.Register("Echo", NewEchoHandler())
	ctx := context.Background()

	resp := mr.HandleRequest(ctx, []byte(`{"jsonrpc":"2.0","id":"a","method":"Echo","params":{"Echo":3}}`))
	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "a", resp.ID)
	assert.Equal(t, map[string]interface{}{"Result": float64(3)}, resp.Result)

	resp = mr.HandleRequest(ctx, []byte(`not json`))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeParseError, resp.Error.Code)
	assert.Nil(t, resp.ID)

	resp = mr.HandleRequest(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"Missing"}`))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeMethodNotFound, resp.Error.Code)
	assert.Equal(t, float64(2), resp.ID)
}

func TestHandleRequestNotification(t *testing.T) {
	called := false
	mr := NewMethodRegistry()
	mr.Register("Ping", RPCHandlerFunc(func(ctx context.Context, params json.RawMessage) (interface{}, error) {
		called = true
		return "pong", nil
	}))

	assert.Nil(t, mr.HandleRequest(context.Background(), []byte(`{"jsonrpc":"2.0","method":"Ping"}`)))
	assert.True(t, called)
}
