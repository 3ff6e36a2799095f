// Package builder assembles the final appointment from extracted entities and a normalized
// datetime.
package builder

import (
	"strings"

	"github.com/Riya-Singh-4103/Appointment-Sheduler/models"
)

// DefaultDepartments maps the keywords people use to canonical department names.
var DefaultDepartments = map[string]string{
	"dentist":         "Dentistry",
	"dental":          "Dentistry",
	"teeth":           "Dentistry",
	"cardiologist":    "Cardiology",
	"cardiology":      "Cardiology",
	"heart":           "Cardiology",
	"dermatologist":   "Dermatology",
	"skin":            "Dermatology",
	"doctor":          "General Medicine",
	"physician":       "General Medicine",
	"gp":              "General Medicine",
	"pediatrician":    "Pediatrics",
	"paediatrician":   "Pediatrics",
	"orthopedic":      "Orthopedics",
	"orthopedist":     "Orthopedics",
	"bone":            "Orthopedics",
	"eye":             "Ophthalmology",
	"ophthalmologist": "Ophthalmology",
	"neurologist":     "Neurology",
	"ent":             "ENT",
	"gynecologist":    "Gynecology",
	"psychiatrist":    "Psychiatry",
	"therapist":       "Psychiatry",
}

// Builder resolves department phrases through a fixed lookup table.
type Builder struct {
	departments map[string]string
}

// New returns a Builder over DefaultDepartments with overrides applied on top. Override keys are
// matched case-insensitively like every other key.
func New(overrides map[string]string) *Builder {
	table := make(map[string]string, len(DefaultDepartments)+len(overrides))
	for k, v := range DefaultDepartments {
		table[k] = v
	}
	for k, v := range overrides {
		table[normalizeKey(k)] = v
	}
	return &Builder{departments: table}
}

// Keywords lists every department key the builder knows, for extractors that search text for them.
func (b *Builder) Keywords() []string {
	keys := make([]string, 0, len(b.departments))
	for k := range b.departments {
		keys = append(keys, k)
	}
	return keys
}

// ResolveDepartment returns the canonical name for phrase, or phrase unchanged when unmapped.
func (b *Builder) ResolveDepartment(phrase string) string {
	if name, ok := b.departments[normalizeKey(phrase)]; ok {
		return name
	}
	return phrase
}

// Build combines the department and an already-normalized datetime. It cannot fail: presence of
// every field was checked upstream.
func (b *Builder) Build(entities models.ExtractedEntities, normalized models.NormalizedDatetime) models.ScheduleResult {
	return models.ScheduleResult{
		Appointment: models.AppointmentPayload{
			Department: b.ResolveDepartment(entities.DepartmentPhrase),
			Date:       normalized.Date,
			Time:       normalized.Time,
			TZ:         normalized.Timezone,
		},
		Status: models.StatusOK,
	}
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
