// Package normalizer turns free-text date and time phrases into an unambiguous, zone-qualified
// calendar date and wall-clock time, resolved against an explicit reference clock.
package normalizer

import (
	"strings"
	"time"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
	"github.com/Riya-Singh-4103/Appointment-Sheduler/services/guardrail"
)

// Confidence is attached to every successful normalization. Parsing is deterministic, so the
// value marks "parsed, not guessed" rather than measuring ambiguity.
const Confidence = 0.90

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Normalizer is safe for concurrent use; it holds no mutable state.
type Normalizer struct {
	clock Clock
	loc   *time.Location
	rules []DateRule
}

type Option func(*Normalizer)

// WithDateRules appends rules after the default keyword rules and before generic date parsing.
func WithDateRules(rules ...DateRule) Option {
	return func(n *Normalizer) {
		n.rules = append(n.rules, rules...)
	}
}

func New(clock Clock, loc *time.Location, opts ...Option) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	n := &Normalizer{
		clock: clock,
		loc:   loc,
		rules: DefaultDateRules(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Location returns the zone appointments are normalized into.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize resolves datePhrase and timePhrase. Every failure comes back as a
// *guardrail.Clarification naming "date", "time" or both; nothing else is returned as an error.
func (n *Normalizer) Normalize(datePhrase, timePhrase string) (*models.NormalizedDatetime, error) {
	var (
		failed  guardrail.FieldSet
		details []string
	)

	day, err := n.resolveDate(datePhrase)
	if err != nil {
		failed.Add(guardrail.FieldDate)
		details = append(details, err.Error())
	}
	hour, minute, err := parseTime(timePhrase)
	if err != nil {
		failed.Add(guardrail.FieldTime)
		details = append(details, err.Error())
	}
	if c := failed.Clarify(guardrail.ReasonNormalizationFailure, guardrail.PrefixNormalization); c != nil {
		return nil, c.WithDetails("%s", strings.Join(details, "; "))
	}

	y, m, d := day.Date()
	at := time.Date(y, m, d, hour, minute, 0, 0, n.loc)
	// time.Date silently moves wall times that fall into a DST gap.
	if at.Hour() != hour || at.Minute() != minute {
		return nil, guardrail.Missing(guardrail.ReasonNormalizationFailure, guardrail.PrefixNormalization, guardrail.FieldTime).
			WithDetails("%s does not exist on %s in %s", FormatClock(hour, minute), day.Format(DateLayout), n.loc)
	}

	return &models.NormalizedDatetime{
		Date:       at.Format(DateLayout),
		Time:       at.Format(TimeLayout),
		Timezone:   n.loc.String(),
		Confidence: Confidence,
	}, nil
}

// resolveDate walks the rule list, falling back to generic calendar parsing.
func (n *Normalizer) resolveDate(phrase string) (time.Time, error) {
	lower := strings.ToLower(strings.TrimSpace(phrase))
	if lower != "" {
		ref := n.clock.Now().In(n.loc)
		for _, rule := range n.rules {
			if rule.Match(lower) {
				return rule.Resolve(ref), nil
			}
		}
	}
	return parseCalendarDate(phrase, n.loc)
}
