// internal/normalize/normalize.go
package normalize

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"oppsync/internal/core/domain"
)

var typeSynonyms = map[string]domain.OpportunityType{
	"internship":     domain.TypeInternship,
	"scholarship":    domain.TypeScholarship,
	"summer program": domain.TypeSummerProgram,
	"summer-program": domain.TypeSummerProgram,
	"summer_program": domain.TypeSummerProgram,
	"research":       domain.TypeResearch,
	"competition":    domain.TypeCompetition,
	"contest":        domain.TypeCompetition,
	"award":          domain.TypeScholarship,
	"grant":          domain.TypeScholarship,
	"fellowship":     domain.TypeScholarship,
	"program":        domain.TypeSummerProgram,
	"workshop":       domain.TypeSummerProgram,
	"course":         domain.TypeSummerProgram,
	"training":       domain.TypeSummerProgram,
}

var levelSynonyms = map[string]domain.EducationLevel{
	"high school":   domain.LevelHighSchool,
	"high-school":   domain.LevelHighSchool,
	"high_school":   domain.LevelHighSchool,
	"highschool":    domain.LevelHighSchool,
	"secondary":     domain.LevelHighSchool,
	"undergraduate": domain.LevelUndergraduate,
	"college":       domain.LevelUndergraduate,
	"university":    domain.LevelUndergraduate,
	"bachelor":      domain.LevelUndergraduate,
	"graduate":      domain.LevelGraduate,
	"masters":       domain.LevelGraduate,
	"master":        domain.LevelGraduate,
	"postgraduate":  domain.LevelPostgraduate,
	"phd":           domain.LevelPostgraduate,
	"doctorate":     domain.LevelPostgraduate,
	"all levels":    domain.LevelAll,
	"all-levels":    domain.LevelAll,
	"all_levels":    domain.LevelAll,
	"any":           domain.LevelAll,
	"open":          domain.LevelAll,
}

// Country maps a country name to its ISO alpha-2 code. Unmapped text is
// returned trimmed but otherwise unchanged; empty text is domain.CountryUnknown.
func Country(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.CountryUnknown
	}
	if code, ok := countryCodes[text]; ok {
		return code
	}
	return text
}

// Type maps free text to an opportunity type, defaulting to COMPETITION.
func Type(text string) domain.OpportunityType {
	if t, ok := typeSynonyms[strings.ToLower(strings.TrimSpace(text))]; ok {
		return t
	}
	return domain.TypeCompetition
}

// EducationLevel maps free text to a level, defaulting to ALL_LEVELS.
func EducationLevel(text string) domain.EducationLevel {
	if l, ok := levelSynonyms[strings.ToLower(strings.TrimSpace(text))]; ok {
		return l
	}
	return domain.LevelAll
}

// ParseDeadline parses a date in any common layout. Missing or unparseable
// text yields nil. Zone-less dates are read as UTC.
func ParseDeadline(text string) *time.Time {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	t, err := dateparse.ParseIn(text, time.UTC)
	if err != nil || t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}
