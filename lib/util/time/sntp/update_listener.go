package sntp

import (
	"reflect"

	"github.com/go-i2p/go-gtime/lib/gtime"
)

// UpdateListener is an interface that listeners must implement to receive time updates.
type UpdateListener interface {
	SetNow(now gtime.Instant, stratum uint8)
}

// ExtendedUpdateListener is an optional interface that listeners may implement
// to receive additional notifications about NTP synchronization state changes.
// Implementations are checked via type assertion.
type ExtendedUpdateListener interface {
	UpdateListener
	// OnInitialized is called when the first query cycle completes.
	OnInitialized()
	// OnSyncFailure is called when an NTP query cycle fails.
	OnSyncFailure(consecutiveFails int)
	// OnSyncLost is called when consecutive failures reach the backoff threshold.
	OnSyncLost()
}

// ListenerIdentifier is an optional interface that listeners may implement
// to provide a stable identity for removal via RemoveListener. When implemented,
// RemoveListener compares ListenerID() values instead of using equality.
type ListenerIdentifier interface {
	ListenerID() string
}

// sameListener matches by ListenerID when both sides provide one, otherwise
// by equality. Values of incomparable types (structs holding slices or maps)
// never match unless they implement ListenerIdentifier.
func sameListener(a, b UpdateListener) bool {
	ai, aok := a.(ListenerIdentifier)
	bi, bok := b.(ListenerIdentifier)
	if aok && bok {
		return ai.ListenerID() == bi.ListenerID()
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}
