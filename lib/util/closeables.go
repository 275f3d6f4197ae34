package util

import (
	"io"
	"sync"

	"github.com/go-i2p/logger"
)

var (
	closeOnExit []io.Closer
	closeMutex  sync.Mutex
)

// RegisterCloser registers c to be closed by CloseAll. Safe for concurrent use.
func RegisterCloser(c io.Closer) {
	closeMutex.Lock()
	defer closeMutex.Unlock()
	closeOnExit = append(closeOnExit, c)
	log.WithFields(logger.Fields{
		"at":    "RegisterCloser",
		"count": len(closeOnExit),
	}).Debug("registered closer")
}

// CloseAll closes every registered closer, most recently registered first,
// and clears the list. Closers run without the registry lock held and may
// register new closers for a later CloseAll. It returns the number of
// closers that failed.
func CloseAll() int {
	closeMutex.Lock()
	pending := closeOnExit
	closeOnExit = nil
	closeMutex.Unlock()

	failed := 0
	for i := len(pending) - 1; i >= 0; i-- {
		if err := pending[i].Close(); err != nil {
			failed++
			log.WithFields(logger.Fields{
				"at":    "CloseAll",
				"index": i,
			}).WithError(err).Warn("error closing resource")
		}
	}
	if len(pending) > 0 {
		log.WithFields(logger.Fields{
			"at":     "CloseAll",
			"count":  len(pending),
			"failed": failed,
		}).Debug("closed registered closers")
	}
	return failed
}
