package vixenimport

import (
	"strconv"
	"strings"
)

// ParseISODuration parses ISO 8601 duration strings such as "PT1M53.606S"
// or "P0DT0H5M30.500S" and returns the total in seconds.
func ParseISODuration(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "P") {
		return 0, false
	}
	s = s[1:]

	var total float64
	var num strings.Builder
	inTime := false

	flush := func(scale float64) bool {
		if num.Len() == 0 {
			return false
		}
		v, err := strconv.ParseFloat(num.String(), 64)
		if err != nil {
			return false
		}
		total += v * scale
		num.Reset()
		return true
	}

	for _, ch := range s {
		switch {
		case ch == 'T':
			inTime = true
			num.Reset()
		case ch == 'D':
			if !flush(86400) {
				return 0, false
			}
		case ch == 'H' && inTime:
			if !flush(3600) {
				return 0, false
			}
		case ch == 'M' && inTime:
			if !flush(60) {
				return 0, false
			}
		case ch == 'S' && inTime:
			if !flush(1) {
				return 0, false
			}
		default:
			num.WriteRune(ch)
		}
	}

	return total, true
}
