// Package rpc implements a JSON-RPC 2.0 time service.
//
// Clients authenticate once with the configured password and pass the
// returned token with every other call:
//
//	{"jsonrpc":"2.0","id":1,"method":"Authenticate","params":{"API":1,"Password":"gtime"}}
//	{"jsonrpc":"2.0","id":2,"method":"Now","params":{"Token":"...","Layout":"%H:%M:%S"}}
//
// Methods:
//
//   - Authenticate: exchanges the password for a token
//   - Echo: returns the Echo parameter
//   - Now: current time from the server's clock
//   - Since: elapsed time since a given instant
//   - LeapYear: leap-year check for a year
//   - Clock: NTP synchronization status
//   - Logout: revokes the calling token
//
// Prometheus metrics from the supplied gatherer are served on /metrics.
package rpc
