package domain

import "strings"

// Timeframe is the terminal's bar aggregation period identifier.
type Timeframe int

// Values match the terminal's TIMEFRAME_* constants.
const (
	TimeframeM1  Timeframe = 1
	TimeframeM5  Timeframe = 5
	TimeframeM15 Timeframe = 15
	TimeframeM30 Timeframe = 30
	TimeframeH1  Timeframe = 16385
	TimeframeH4  Timeframe = 16388
	TimeframeD1  Timeframe = 16408
	TimeframeW1  Timeframe = 32769
	TimeframeMN1 Timeframe = 49153
)

// DefaultTimeframe is used for absent or unrecognized codes.
const DefaultTimeframe = TimeframeH1

// Timeframes lists every supported period in ascending duration.
var Timeframes = []Timeframe{
	TimeframeM1, TimeframeM5, TimeframeM15, TimeframeM30,
	TimeframeH1, TimeframeH4, TimeframeD1, TimeframeW1, TimeframeMN1,
}

// ParseTimeframe resolves a symbolic period code (M1, M5, M15, M30, H1, H4,
// D1, W1, MN1). Anything else resolves to DefaultTimeframe without error.
func ParseTimeframe(code string) Timeframe {
	switch strings.TrimSpace(code) {
	case "M1":
		return TimeframeM1
	case "M5":
		return TimeframeM5
	case "M15":
		return TimeframeM15
	case "M30":
		return TimeframeM30
	case "H1":
		return TimeframeH1
	case "H4":
		return TimeframeH4
	case "D1":
		return TimeframeD1
	case "W1":
		return TimeframeW1
	case "MN1":
		return TimeframeMN1
	default:
		return DefaultTimeframe
	}
}

// String returns the symbolic code of the timeframe.
func (tf Timeframe) String() string {
	switch tf {
	case TimeframeM1:
		return "M1"
	case TimeframeM5:
		return "M5"
	case TimeframeM15:
		return "M15"
	case TimeframeM30:
		return "M30"
	case TimeframeH1:
		return "H1"
	case TimeframeH4:
		return "H4"
	case TimeframeD1:
		return "D1"
	case TimeframeW1:
		return "W1"
	case TimeframeMN1:
		return "MN1"
	default:
		return "UNKNOWN"
	}
}
