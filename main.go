package main

import (
	"fmt"
	"os"

	"github.com/go-i2p/go-gtime/lib/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
