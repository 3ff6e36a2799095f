package extraction

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
)

const weekdays = `monday|tuesday|wednesday|thursday|friday|saturday|sunday`
const months = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bnext\s+(?:` + weekdays + `)\b`),
	regexp.MustCompile(`(?i)\btomorrow\b`),
	regexp.MustCompile(`(?i)\btoday\b`),
	regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
	regexp.MustCompile(`\b\d{4}/\d{2}/\d{2}\b`),
	regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(?:` + months + `)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:` + months + `)\b(?:,?\s+\d{4})?`),
	regexp.MustCompile(`(?i)\b(?:this\s+|on\s+)?(?:` + weekdays + `)\b`),
}

// unresolvableDates are phrases the normalizer's keyword rules would misread ("day after
// tomorrow" matches "tomorrow"). Finding one leaves the date unset.
var unresolvableDates = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bday\s+after\s+tomorrow\b`),
}

var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b\d{1,2}(?::[0-5]\d)?\s*(?:[ap]\.m\.|[ap]m\b)`),
	regexp.MustCompile(`\b(?:[01]?\d|2[0-3]):[0-5]\d\b`),
}

// RuleExtractor finds phrases with keyword and pattern matching. It needs no network and is
// the fallback when the model is unavailable.
type RuleExtractor struct {
	department *regexp.Regexp
}

// NewRuleExtractor matches departments against keywords. Keywords are tried longest first so a
// multi-word keyword beats a shorter one starting at the same position.
func NewRuleExtractor(keywords []string) *RuleExtractor {
	sorted := append([]string(nil), keywords...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	quoted := make([]string, 0, len(sorted))
	for _, k := range sorted {
		if k = strings.TrimSpace(k); k != "" {
			quoted = append(quoted, regexp.QuoteMeta(k))
		}
	}
	r := &RuleExtractor{}
	if len(quoted) > 0 {
		r.department = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return r
}

func (r *RuleExtractor) Extract(_ context.Context, text string) (*models.ExtractedEntities, error) {
	e := &models.ExtractedEntities{Extractor: NameRules}
	if r.department != nil {
		e.DepartmentPhrase = r.department.FindString(text)
	}
	if !matchesAny(text, unresolvableDates) {
		e.DatePhrase = earliestMatch(text, datePatterns)
	}
	e.TimePhrase = earliestMatch(text, timePatterns)

	found := 0
	for _, s := range []string{e.DepartmentPhrase, e.DatePhrase, e.TimePhrase} {
		if s != "" {
			found++
		}
	}
	e.Confidence = ruleConfidence(found)

	if c := checkComplete(e); c != nil {
		return nil, c
	}
	return e, nil
}

// ruleConfidence is the fraction of the three fields found, rounded to two decimals.
func ruleConfidence(found int) float64 {
	return math.Round(float64(found)/3*100) / 100
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// earliestMatch returns the match starting first in text; on a tie the longer one wins.
func earliestMatch(text string, patterns []*regexp.Regexp) string {
	best, bestStart, bestLen := "", -1, 0
	for _, p := range patterns {
		loc := p.FindStringIndex(text)
		if loc == nil {
			continue
		}
		start, length := loc[0], loc[1]-loc[0]
		if bestStart == -1 || start < bestStart || (start == bestStart && length > bestLen) {
			best, bestStart, bestLen = text[loc[0]:loc[1]], start, length
		}
	}
	return strings.TrimSpace(best)
}
