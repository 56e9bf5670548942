package timelock

import (
	"encoding/json"
	"time"

	"github.com/iov-one/timelock/errors"
)

// UnixTime is a point in time with seconds precision, stored as the number
// of seconds since the epoch. Unlock times and block times are compared in
// this representation.
type UnixTime int64

// AsUnixTime converts given Time structure into its UNIX time representation.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

// Time returns the same moment as a time.Time value.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero returns true if this time represents a zero value.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add returns the time moved by given duration. Anything below a second is
// dropped.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

// Validate returns an error for times before the epoch.
func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

// String formats the time in UTC.
func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// UnmarshalJSON accepts either a number of seconds or an RFC 3339 string.
// The string form is handy in a genesis file.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var val UnixTime
	var unix int64
	var stdtime time.Time
	switch {
	case json.Unmarshal(raw, &unix) == nil:
		val = UnixTime(unix)
	case json.Unmarshal(raw, &stdtime) == nil:
		val = AsUnixTime(stdtime)
	default:
		return errors.Wrap(errors.ErrInput, "invalid time format")
	}
	if val < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = val
	return nil
}
