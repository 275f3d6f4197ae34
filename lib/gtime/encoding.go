package gtime

import (
	"encoding/binary"

	"github.com/go-i2p/common/data"
	"github.com/go-i2p/logger"
	"github.com/samber/oops"
)

/*
Binary layouts

Instant: 12 bytes, big-endian
	[0:8)  seconds since the epoch, two's complement
	[8:12) nanoseconds, 0..999999999

Millis: 8 bytes, big-endian milliseconds since the epoch. Zero means unset.
*/
const (
	InstantSize = 12
	MillisSize  = 8
)

// Bytes returns the 12-byte encoding of t.
func (t Instant) Bytes() []byte {
	b := make([]byte, InstantSize)
	binary.BigEndian.PutUint64(b[:8], uint64(t.sec))
	binary.BigEndian.PutUint32(b[8:], uint32(t.nsec))
	return b
}

// ReadInstant decodes an Instant from the first InstantSize bytes of data
// and returns the rest.
func ReadInstant(data []byte) (t Instant, remainder []byte, err error) {
	if len(data) < InstantSize {
		log.WithFields(logger.Fields{
			"at":     "ReadInstant",
			"length": len(data),
			"want":   InstantSize,
		}).Error("data is too short")
		err = oops.Errorf("ReadInstant: data is too short (%d < %d)", len(data), InstantSize)
		return
	}
	sec := int64(binary.BigEndian.Uint64(data[:8]))
	nsec := int64(binary.BigEndian.Uint32(data[8:InstantSize]))
	if nsec >= nanosPerSecond {
		err = oops.Errorf("ReadInstant: nanoseconds out of range: %d", nsec)
		return
	}
	t = Instant{sec: sec, nsec: nsec}
	remainder = data[InstantSize:]
	return
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (t Instant) MarshalBinary() ([]byte, error) {
	return t.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (t *Instant) UnmarshalBinary(data []byte) error {
	if len(data) != InstantSize {
		return oops.Errorf("UnmarshalBinary: want %d bytes, got %d", InstantSize, len(data))
	}
	v, _, err := ReadInstant(data)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MillisBytes returns the 8-byte I2P Date encoding of t. Sub-millisecond
// precision is dropped. Instants before the epoch cannot be encoded.
func (t Instant) MillisBytes() ([]byte, error) {
	if t.sec < 0 {
		return nil, oops.Errorf("MillisBytes: %d.%09d is before the epoch", t.sec, t.nsec)
	}
	date, err := data.DateFromTime(t.Time())
	if err != nil {
		return nil, oops.Wrapf(err, "MillisBytes: cannot encode %d.%09d", t.sec, t.nsec)
	}
	return date.Bytes(), nil
}

// ReadMillis decodes an I2P Date from the first MillisSize bytes of data and
// returns the rest. A zero Date decodes to the zero Instant.
func ReadMillis(b []byte) (t Instant, remainder []byte, err error) {
	date, remainder, err := data.ReadDate(b)
	if err != nil {
		log.WithFields(logger.Fields{
			"at":       "ReadMillis",
			"data_len": len(b),
		}).Debug("short millisecond date")
		err = oops.Wrapf(err, "ReadMillis: data is too short (%d < %d)", len(b), MillisSize)
		return
	}
	ms := FromTime(date.Time()).UnixMilli()
	t = Unix(ms/1000, (ms%1000)*int64(Millisecond))
	return
}
