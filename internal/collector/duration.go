package collector

import (
	"regexp"
	"strconv"
)

// isoDurationRE matches the ISO-8601 duration subset the video API emits:
// days plus a time component, e.g. "PT4M13S", "PT1H2M3S", "P1DT2H".
var isoDurationRE = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseDurationSeconds converts an ISO-8601 duration string to total seconds.
// Malformed input yields 0 rather than an error: a bad duration must never
// fail an otherwise valid candidate.
func ParseDurationSeconds(s string) int64 {
	m := isoDurationRE.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	part := func(v string) int64 {
		if v == "" {
			return 0
		}
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return part(m[1])*86400 + part(m[2])*3600 + part(m[3])*60 + part(m[4])
}
