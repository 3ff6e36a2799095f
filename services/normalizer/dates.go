package normalizer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateRule resolves one family of relative date phrases. Rules are evaluated in order and the
// first whose Match reports true wins, so more specific phrases must come first.
type DateRule struct {
	Name    string
	Match   func(lowerPhrase string) bool
	Resolve func(ref time.Time) time.Time
}

// Contains matches phrases holding keyword as a substring.
func Contains(keyword string) func(string) bool {
	return func(lowerPhrase string) bool {
		return strings.Contains(lowerPhrase, keyword)
	}
}

// NextWeekday resolves to day in the week after the reference week. Weeks start on Sunday, so
// the result is always 7 days after that weekday of the reference week, whatever day ref is.
func NextWeekday(day time.Weekday) func(time.Time) time.Time {
	return func(ref time.Time) time.Time {
		weekStart := ref.AddDate(0, 0, -int(ref.Weekday()))
		return weekStart.AddDate(0, 0, int(day)+7)
	}
}

// OffsetDays resolves to ref shifted by n calendar days.
func OffsetDays(n int) func(time.Time) time.Time {
	return func(ref time.Time) time.Time {
		return ref.AddDate(0, 0, n)
	}
}

// DefaultDateRules is the keyword decision list: "next friday", "tomorrow", "today".
func DefaultDateRules() []DateRule {
	return []DateRule{
		{Name: "next friday", Match: Contains("next friday"), Resolve: NextWeekday(time.Friday)},
		{Name: "tomorrow", Match: Contains("tomorrow"), Resolve: OffsetDays(1)},
		{Name: "today", Match: Contains("today"), Resolve: OffsetDays(0)},
	}
}

// bareNumber matches phrases dateparse would read as a year alone or a Unix timestamp.
var bareNumber = regexp.MustCompile(`^[+-]?\d+(?:\.\d+)?$`)

// parseCalendarDate handles phrases no keyword rule matched ("2025-10-05", "Oct 5, 2025").
// Day/month-ambiguous forms such as "05/10/2025" are rejected rather than guessed, as are bare
// numbers, which name no month and day.
func parseCalendarDate(phrase string, loc *time.Location) (time.Time, error) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return time.Time{}, fmt.Errorf("date phrase is empty")
	}
	if bareNumber.MatchString(phrase) {
		return time.Time{}, fmt.Errorf("date %q has no month and day", phrase)
	}
	if _, err := dateparse.ParseStrict(phrase); err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", phrase, err)
	}
	t, err := dateparse.ParseIn(phrase, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: %w", phrase, err)
	}
	if t.Year() == 0 {
		return time.Time{}, fmt.Errorf("date %q has no year", phrase)
	}
	return t.In(loc), nil
}
