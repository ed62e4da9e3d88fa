package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Header names the provider uses to publish its quota
const (
	HeaderReset     = "X-RateLimit-All-Reset"
	HeaderRemaining = "X-RateLimit-All-Remaining"
	HeaderLimit     = "X-RateLimit-All-Limit"
)

// NoLimitsData is the summary rendered when the quota headers are missing
const NoLimitsData = "No limits data"

// TimeLayout renders reset times with their UTC offset
const TimeLayout = "2006-01-02 15:04:05-07:00"

// Info is the provider quota read from one response
type Info struct {
	// Reset is the number of seconds until the quota resets
	Reset     *int
	Remaining *int
	Limit     *int
}

// FromHeaders reads the quota headers. A nil header set yields an empty Info.
func FromHeaders(h http.Header) Info {
	if h == nil {
		return Info{}
	}
	return Info{
		Reset:     headerInt(h, HeaderReset),
		Remaining: headerInt(h, HeaderRemaining),
		Limit:     headerInt(h, HeaderLimit),
	}
}

// Summary renders "<remaining> of <limit> until <reset time>" with the reset
// time computed from now and shown in loc. It returns NoLimitsData unless both
// the reset and remaining values are known.
func (i Info) Summary(now time.Time, loc *time.Location) string {
	if i.Reset == nil || i.Remaining == nil {
		return NoLimitsData
	}
	if loc == nil {
		loc = time.UTC
	}

	limit := "?"
	if i.Limit != nil {
		limit = strconv.Itoa(*i.Limit)
	}
	resetAt := now.Add(time.Duration(*i.Reset) * time.Second).In(loc)
	return fmt.Sprintf("%d of %s until %s", *i.Remaining, limit, resetAt.Format(TimeLayout))
}

// headerInt returns the first value of the header as an int, or nil when it
// is missing or not numeric
func headerInt(h http.Header, name string) *int {
	values := h.Values(name)
	if len(values) == 0 {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(values[0]))
	if err != nil {
		return nil
	}
	return &n
}
