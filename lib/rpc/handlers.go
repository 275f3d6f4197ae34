package rpc

import (
	"context"
	"encoding/json"

	"github.com/go-i2p/go-gtime/lib/gtime"
)

// ClockStatus reports NTP synchronization state. *sntp.Timestamper implements it.
type ClockStatus interface {
	Offset() gtime.Duration
	IsInitialized() bool
	IsWellSynced() bool
	ConsecutiveFailures() int
	Servers() []string
}

func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return NewRPCErrorWithData(ErrCodeInvalidParams, "invalid parameters", err.Error())
	}
	return nil
}

// EchoHandler implements the Echo RPC method.
//
// Request params:
//
//	{"Echo": "any_value"}
//
// Response:
//
//	{"Result": "any_value"}
type EchoHandler struct{}

// NewEchoHandler returns the Echo handler.
func NewEchoHandler() *EchoHandler {
	return &EchoHandler{}
}

// Handle returns the Echo parameter unchanged.
func (h *EchoHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Echo interface{} `json:"Echo"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return map[string]interface{}{"Result": req.Echo}, nil
}

// NowHandler implements the Now RPC method.
//
// Request params:
//
//	{"Layout": "%H:%M:%S"}   // optional
//
// Response:
//
//	{"Unix": 1700000000, "Nanosecond": 5, "UnixMilli": 1700000000000,
//	 "Formatted": "22:13:20", "Weekday": "Tuesday", "Zone": "UTC"}
type NowHandler struct {
	clock  gtime.Clock
	layout string
}

// NewNowHandler reads clock and formats with layout unless the request names one.
func NewNowHandler(clock gtime.Clock, layout string) *NowHandler {
	return &NowHandler{clock: clock, layout: layout}
}

// Handle reads the clock once and renders it with the request or default layout.
func (h *NowHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Layout string `json:"Layout"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	layout := h.layout
	if req.Layout != "" {
		layout = req.Layout
	}

	now := h.clock.Now()
	formatted, err := now.Format(layout)
	if err != nil {
		return nil, NewRPCErrorWithData(ErrCodeInvalidParams, "invalid Layout", err.Error())
	}
	return map[string]interface{}{
		"Unix":       now.Unix(),
		"Nanosecond": now.Nanosecond(),
		"UnixMilli":  now.UnixMilli(),
		"Formatted":  formatted,
		"Weekday":    now.Weekday().String(),
		"Zone":       gtime.LocalZoneName(),
	}, nil
}

// SinceHandler implements the Since RPC method.
//
// Request params:
//
//	{"Unix": 1700000000, "Nanosecond": 0}
//
// Response:
//
//	{"Nanoseconds": 2500000000, "Seconds": 2.5, "Duration": "2.5s"}
type SinceHandler struct {
	clock gtime.Clock
}

// NewSinceHandler measures elapsed time against clock.
func NewSinceHandler(clock gtime.Clock) *SinceHandler {
	return &SinceHandler{clock: clock}
}

// Handle returns the time elapsed since the given instant, negative when it
// lies in the future.
func (h *SinceHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Unix       *int64 `json:"Unix"`
		Nanosecond int64  `json:"Nanosecond"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	if req.Unix == nil {
		return nil, NewRPCError(ErrCodeInvalidParams, "missing Unix parameter")
	}

	d := h.clock.Now().Sub(gtime.Unix(*req.Unix, req.Nanosecond))
	return map[string]interface{}{
		"Nanoseconds": int64(d),
		"Seconds":     d.Seconds(),
		"Duration":    d.String(),
	}, nil
}

// LeapYearHandler implements the LeapYear RPC method.
//
// Request params:
//
//	{"Year": 2000}
//
// Response:
//
//	{"Year": 2000, "LeapYear": true}
type LeapYearHandler struct{}

// NewLeapYearHandler returns the LeapYear handler.
func NewLeapYearHandler() *LeapYearHandler {
	return &LeapYearHandler{}
}

// Handle reports whether Year is a leap year.
func (h *LeapYearHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Year *int64 `json:"Year"`
	}
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	if req.Year == nil {
		return nil, NewRPCError(ErrCodeInvalidParams, "missing Year parameter")
	}
	return map[string]interface{}{
		"Year":     *req.Year,
		"LeapYear": gtime.IsLeapYear(*req.Year),
	}, nil
}

// ClockHandler implements the Clock RPC method, reporting the clock source
// and, for NTP, its synchronization state.
type ClockHandler struct {
	source string
	status ClockStatus
}

// NewClockHandler describes source. status may be nil for the system clock.
func NewClockHandler(source string, status ClockStatus) *ClockHandler {
	return &ClockHandler{source: source, status: status}
}

// Handle reports the clock source and, when status is set, its NTP state.
func (h *ClockHandler) Handle(ctx context.Context, params json.RawMessage) (interface{}, error) {
	result := map[string]interface{}{"Source": h.source}
	if h.status == nil {
		return result, nil
	}
	if !h.status.IsInitialized() {
		return nil, NewRPCError(ErrCodeUnavailable, "clock not yet synchronized")
	}
	offset := h.status.Offset()
	result["Offset"] = offset.String()
	result["OffsetNanoseconds"] = int64(offset)
	result["WellSynced"] = h.status.IsWellSynced()
	result["ConsecutiveFailures"] = h.status.ConsecutiveFailures()
	result["Servers"] = h.status.Servers()
	return result, nil
}
