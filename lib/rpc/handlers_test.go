package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-i2p/go-gtime/lib/gtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClockStatus struct {
	offset      gtime.Duration
	initialized bool
	wellSynced  bool
	failures    int
	servers     []string
}

func (m *mockClockStatus) Offset() gtime.Duration   { return m.offset }
func (m *mockClockStatus) IsInitialized() bool      { return m.initialized }
func (m *mockClockStatus) IsWellSynced() bool       { return m.wellSynced }
func (m *mockClockStatus) ConsecutiveFailures() int { return m.failures }
func (m *mockClockStatus) Servers() []string        { return m.servers }

func fixedClock(at gtime.Instant) gtime.Clock {
	return gtime.ClockFunc(func() gtime.Instant { return at })
}

func rpcCode(t *testing.T, err error) int {
	t.Helper()
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr), "expected *RPCError, got %v", err)
	return rpcErr.Code
}

func TestEchoHandler(t *testing.T) {
	result, err := NewEchoHandler().Handle(context.Background(), json.RawMessage(`{"Echo":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"Result": "hi"}, result)

	_, err = NewEchoHandler().Handle(context.Background(), json.RawMessage(`[1,2]`))
	assert.Equal(t, ErrCodeInvalidParams, rpcCode(t, err))
}

func TestNowHandler(t *testing.T) {
	at := gtime.Unix(1700000000, 5)
	h := NewNowHandler(fixedClock(at), "%s")

	result, err := h.Handle(context.Background(), nil)
	require.NoError(t, err)
	m := result.(map[string]interface{})
	assert.Equal(t, int64(1700000000), m["Unix"])
	assert.Equal(t, int64(5), m["Nanosecond"])
	assert.Equal(t, int64(1700000000000), m["UnixMilli"])
	assert.Equal(t, at.Weekday().String(), m["Weekday"])
	assert.Equal(t, gtime.LocalZoneName(), m["Zone"])

	want, err := at.Format("%s")
	require.NoError(t, err)
	assert.Equal(t, want, m["Formatted"])
}

func TestNowHandlerLayoutOverride(t *testing.T) {
	at := gtime.Unix(1700000000, 0)
	h := NewNowHandler(fixedClock(at), gtime.DefaultLayout)

	result, err := h.Handle(context.Background(), json.RawMessage(`{"Layout":"%Y"}`))
	require.NoError(t, err)
	want, err := at.Format("%Y")
	require.NoError(t, err)
	assert.Equal(t, want, result.(map[string]interface{})["Formatted"])
}

func TestSinceHandler(t *testing.T) {
	h := NewSinceHandler(fixedClock(gtime.Unix(1700000002, 500000000)))

	result, err := h.Handle(context.Background(), json.RawMessage(`{"Unix":1700000000}`))
	require.NoError(t, err)
	m := result.(map[string]interface{})
	assert.Equal(t, int64(2500000000), m["Nanoseconds"])
	assert.Equal(t, 2.5, m["Seconds"])
	assert.Equal(t, "2.5s", m["Duration"])

	_, err = h.Handle(context.Background(), json.RawMessage(`{}`))
	assert.Equal(t, ErrCodeInvalidParams, rpcCode(t, err))
}

func TestSinceHandlerFuture(t *testing.T) {
	h := NewSinceHandler(fixedClock(gtime.Unix(100, 0)))

	result, err := h.Handle(context.Background(), json.RawMessage(`{"Unix":101,"Nanosecond":500000000}`))
	require.NoError(t, err)
	m := result.(map[string]interface{})
	assert.Equal(t, int64(-1500000000), m["Nanoseconds"])
	assert.Equal(t, "-1.5s", m["Duration"])
}

func TestLeapYearHandler(t *testing.T) {
	tests := []struct {
		year int64
		leap bool
	}{
		{2000, true},
		{1900, false},
		{2024, true},
		{2023, false},
	}
	h := NewLeapYearHandler()
	for _, tt := range tests {
		params, err := json.Marshal(map[string]int64{"Year": tt.year})
		require.NoError(t, err)
		result, err := h.Handle(context.Background(), params)
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"Year": tt.year, "LeapYear": tt.leap}, result)
	}

	_, err := h.Handle(context.Background(), nil)
	assert.Equal(t, ErrCodeInvalidParams, rpcCode(t, err))
}

func TestClockHandlerSystem(t *testing.T) {
	result, err := NewClockHandler("system", nil).Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"Source": "system"}, result)
}

func TestClockHandlerNTP(t *testing.T) {
	status := &mockClockStatus{
		offset:      -250 * gtime.Millisecond,
		initialized: true,
		wellSynced:  true,
		failures:    1,
		servers:     []string{"a.example", "b.example"},
	}
	result, err := NewClockHandler("ntp", status).Handle(context.Background(), nil)
	require.NoError(t, err)
	m := result.(map[string]interface{})
	assert.Equal(t, "ntp", m["Source"])
	assert.Equal(t, "-0.25s", m["Offset"])
	assert.Equal(t, int64(-250000000), m["OffsetNanoseconds"])
	assert.Equal(t, true, m["WellSynced"])
	assert.Equal(t, 1, m["ConsecutiveFailures"])
	assert.Equal(t, []string{"a.example", "b.example"}, m["Servers"])
}

func TestClockHandlerNotInitialized(t *testing.T) {
	_, err := NewClockHandler("ntp", &mockClockStatus{}).Handle(context.Background(), nil)
	assert.Equal(t, ErrCodeUnavailable, rpcCode(t, err))
}
