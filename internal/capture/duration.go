package capture

import (
	"strconv"
	"strings"
	"time"
)

// parseElapsed parses the peer's HH:MM:SS.fff elapsed-time form. The grammar
// is strict: two-digit hours and minutes, two-digit seconds, exactly three
// fractional digits, ASCII digits only (no signs, no spaces). Anything else
// fails closed with a zero duration.
func parseElapsed(s string) (time.Duration, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, false
	}
	secPart, fracPart, ok := strings.Cut(parts[2], ".")
	if !ok {
		return 0, false
	}
	if !isDigits(parts[0], 2) || !isDigits(parts[1], 2) || !isDigits(secPart, 2) || !isDigits(fracPart, 3) {
		return 0, false
	}

	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	seconds, _ := strconv.Atoi(secPart)
	millis, _ := strconv.Atoi(fracPart)
	if minutes > 59 || seconds > 59 {
		return 0, false
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return d, true
}

// isDigits reports whether s is exactly n ASCII digits. strconv.Atoi alone
// would admit a leading sign.
func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
