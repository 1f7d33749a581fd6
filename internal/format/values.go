package format

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatSize renders a file size such as "6.9 MB". Links and directories
// have no size and render as "".
func FormatSize(size *int64) string {
	if size == nil || *size < 0 {
		return ""
	}
	return humanize.Bytes(uint64(*size))
}

// FormatMTime renders a millisecond timestamp relative to now, e.g.
// "3 minutes ago".
func FormatMTime(ms *int64) string {
	if ms == nil {
		return ""
	}
	return humanize.Time(time.UnixMilli(*ms))
}

// FormatFlagValue renders a decoded JSON flag value the way it was given.
func FormatFlagValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case json.Number:
		return v.String()
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
