package sntp

import (
	"github.com/beevik/ntp"
)

// NTPClient performs a single NTP exchange.
type NTPClient interface {
	QueryWithOptions(host string, options ntp.QueryOptions) (*ntp.Response, error)
}

// DefaultNTPClient queries real servers through github.com/beevik/ntp.
type DefaultNTPClient struct{}

// QueryWithOptions queries host through ntp.QueryWithOptions.
func (c *DefaultNTPClient) QueryWithOptions(host string, options ntp.QueryOptions) (*ntp.Response, error) {
	return ntp.QueryWithOptions(host, options)
}
