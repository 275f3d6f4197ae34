// Package config provides configuration management for go-gtime.
//
// Settings are read through viper from $HOME/.go-gtime/config.yaml, or from
// the file named by CfgFile. A file holding the defaults is written the first
// time the default location is used.
//
// Recognized keys:
//
//	clock.source            system | ntp
//	format.layout           strftime layout used by Instant.String-style output
//	ntp.servers             NTP pool host names
//	ntp.query_frequency     interval between background NTP queries
//	ntp.concurring_servers  samples per query cycle (1..4)
//	ntp.timeout             per-query network timeout
//	ntp.max_variance        largest accepted offset between samples
//	skew.max                largest accepted age or lead of published timestamps
//	rpc.address             listen address of `gtime serve`
//	rpc.password            password exchanged for RPC tokens
//	rpc.token_expiration    lifetime of RPC tokens
//	rpc.use_https           serve TLS using rpc.cert_file and rpc.key_file
//
// Defaults returns the built-in values, CurrentConfig the values currently
// visible through viper, and Validate checks either for sane bounds.
package config
