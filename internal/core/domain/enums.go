// internal/core/domain/enums.go
package domain

import "strings"

// SourceKind define la estrategia de fetch de una fuente.
type SourceKind string

const (
	// SourceKindFeed syndication documents (RSS, Atom, JSON Feed)
	SourceKindFeed SourceKind = "feed"

	// SourceKindAPI structured-data HTTP endpoints
	SourceKindAPI SourceKind = "api"

	// SourceKindMarkup HTML pages scraped with selectors
	SourceKindMarkup SourceKind = "markup"

	// SourceKindTabular comma-separated text payloads
	SourceKindTabular SourceKind = "tabular"
)

// legacyKinds maps the historical kind spellings onto the current ones.
var legacyKinds = map[string]SourceKind{
	"rss":  SourceKindFeed,
	"atom": SourceKindFeed,
	"json": SourceKindAPI,
	"html": SourceKindMarkup,
	"csv":  SourceKindTabular,
}

// ParseSourceKind accepts both current and legacy spellings, case-insensitive.
func ParseSourceKind(s string) (SourceKind, bool) {
	k := SourceKind(strings.ToLower(strings.TrimSpace(s)))
	if k.IsValid() {
		return k, true
	}
	if legacy, ok := legacyKinds[string(k)]; ok {
		return legacy, true
	}
	return "", false
}

// IsValid verifica si el kind es válido.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindFeed, SourceKindAPI, SourceKindMarkup, SourceKindTabular:
		return true
	default:
		return false
	}
}

// String returns the lower-case kind.
func (k SourceKind) String() string {
	return string(k)
}

// SourceType is the upper-cased kind persisted as provenance.
func (k SourceKind) SourceType() string {
	return strings.ToUpper(string(k))
}

// OpportunityType is the closed set of listing categories.
type OpportunityType string

const (
	TypeInternship    OpportunityType = "INTERNSHIP"
	TypeScholarship   OpportunityType = "SCHOLARSHIP"
	TypeSummerProgram OpportunityType = "SUMMER_PROGRAM"
	TypeResearch      OpportunityType = "RESEARCH"
	TypeCompetition   OpportunityType = "COMPETITION"
)

// IsValid reports whether t belongs to the enumeration.
func (t OpportunityType) IsValid() bool {
	switch t {
	case TypeInternship, TypeScholarship, TypeSummerProgram, TypeResearch, TypeCompetition:
		return true
	default:
		return false
	}
}

// String returns the enumeration value.
func (t OpportunityType) String() string {
	return string(t)
}

// EducationLevel is the closed set of target audiences.
type EducationLevel string

const (
	LevelHighSchool    EducationLevel = "HIGH_SCHOOL"
	LevelUndergraduate EducationLevel = "UNDERGRADUATE"
	LevelGraduate      EducationLevel = "GRADUATE"
	LevelPostgraduate  EducationLevel = "POSTGRADUATE"
	LevelAll           EducationLevel = "ALL_LEVELS"
)

// IsValid reports whether l belongs to the enumeration.
func (l EducationLevel) IsValid() bool {
	switch l {
	case LevelHighSchool, LevelUndergraduate, LevelGraduate, LevelPostgraduate, LevelAll:
		return true
	default:
		return false
	}
}

// String returns the enumeration value.
func (l EducationLevel) String() string {
	return string(l)
}

// CountryUnknown is stored when no country text was supplied.
const CountryUnknown = "Unknown"

// SourceStatus is the final per-source status reported in a Summary.
type SourceStatus string

const (
	SourceStatusSuccess SourceStatus = "success"
	SourceStatusNoItems SourceStatus = "no_items"
	SourceStatusError   SourceStatus = "error"
)

// SourceState representa el estado de una fuente durante un sweep.
//
//	Pending -> Fetching -> Idle                 (no items)
//	Pending -> Fetching -> Reconciling -> Done
//	any     -> Failed                           (uncaught failure)
type SourceState int

const (
	StatePending SourceState = iota
	StateFetching
	StateIdle
	StateReconciling
	StateDone
	StateFailed
)

var stateNames = [...]string{"pending", "fetching", "idle", "reconciling", "done", "failed"}

// String returns the lower-case state name.
func (s SourceState) String() string {
	if int(s) < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s SourceState) Terminal() bool {
	return s == StateIdle || s == StateDone || s == StateFailed
}

// CanTransition verifica si la transición de s a next es válida.
func (s SourceState) CanTransition(next SourceState) bool {
	if next == StateFailed {
		return !s.Terminal()
	}
	switch s {
	case StatePending:
		return next == StateFetching
	case StateFetching:
		return next == StateIdle || next == StateReconciling
	case StateReconciling:
		return next == StateDone
	default:
		return false
	}
}

// Outcome is the result of reconciling one candidate.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeCreated
	OutcomeUpdated
)

// String returns the outcome label used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "skipped"
	}
}

// ApprovalPolicy decides how the approved flag is computed.
type ApprovalPolicy string

const (
	// ApprovalAuto approves any record with a resolved application URL.
	ApprovalAuto ApprovalPolicy = "auto"

	// ApprovalManual creates records unapproved and never touches approval on update.
	ApprovalManual ApprovalPolicy = "manual"
)

// ParseApprovalPolicy falls back to ApprovalAuto for unknown input.
func ParseApprovalPolicy(s string) ApprovalPolicy {
	if ApprovalPolicy(strings.ToLower(strings.TrimSpace(s))) == ApprovalManual {
		return ApprovalManual
	}
	return ApprovalAuto
}
