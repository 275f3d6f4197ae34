//go:build !linux

package gtime

import "time"

func sleep(d Duration) {
	time.Sleep(d.Std())
}
