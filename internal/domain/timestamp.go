package domain

import "time"

// TimestampLayout is the wire format of every timestamp the gateway emits.
// No offset is written; the value is wall-clock time in the display location.
const TimestampLayout = "2006-01-02T15:04:05"

// Timestamp is an instant rendered in the gateway's display location.
type Timestamp struct {
	time.Time
}

// FromEpoch converts terminal epoch seconds into a Timestamp in loc.
// A nil loc means time.Local.
func FromEpoch(sec int64, loc *time.Location) Timestamp {
	if loc == nil {
		loc = time.Local
	}
	return Timestamp{Time: time.Unix(sec, 0).In(loc)}
}

// String formats the timestamp using TimestampLayout.
func (t Timestamp) String() string {
	return t.Time.Format(TimestampLayout)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	b := make([]byte, 0, len(TimestampLayout)+2)
	b = append(b, '"')
	b = t.Time.AppendFormat(b, TimestampLayout)
	return append(b, '"'), nil
}
