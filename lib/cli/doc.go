// Package cli implements the gtime command line tool.
package cli
