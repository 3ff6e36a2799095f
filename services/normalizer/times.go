package normalizer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are tried in order; the first that parses wins.
// They correspond to "h:mm AM/PM", "h AM/PM" and "HH:mm".
var timeLayouts = []struct {
	layout   string
	twelveHr bool
}{
	{"3:04PM", true},
	{"3PM", true},
	{"15:04", false},
}

var meridiemNoise = strings.NewReplacer(".", "", " ", "", "\t", "")

// cleanTimePhrase upper-cases the phrase and strips a leading "at"/"@" plus the spacing and dots
// people put around AM/PM ("10:30 a.m." becomes "10:30AM").
func cleanTimePhrase(phrase string) string {
	s := strings.ToUpper(strings.TrimSpace(phrase))
	s = strings.TrimSpace(strings.TrimPrefix(s, "@"))
	if strings.HasPrefix(s, "AT ") {
		s = s[len("AT "):]
	}
	return meridiemNoise.Replace(s)
}

// parseTime returns the wall-clock hour and minute of phrase.
func parseTime(phrase string) (hour, minute int, err error) {
	s := cleanTimePhrase(phrase)
	if s == "" {
		return 0, 0, fmt.Errorf("time phrase is empty")
	}
	for _, l := range timeLayouts {
		t, err := time.Parse(l.layout, s)
		if err != nil {
			continue
		}
		// time.Parse accepts hour 0 for 12-hour clocks; "0 PM" is not a time anyone writes.
		if l.twelveHr && leadingNumber(s) == 0 {
			continue
		}
		return t.Hour(), t.Minute(), nil
	}
	return 0, 0, fmt.Errorf("time %q matches none of h:mm AM/PM, h AM/PM, HH:mm", phrase)
}

func leadingNumber(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return -1
	}
	return n
}

// FormatClock renders hour and minute as zero-padded 24-hour "HH:mm".
func FormatClock(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
