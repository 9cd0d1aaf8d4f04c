// internal/core/domain/enums_test.go
package domain

import (
	"testing"

	"oppsync/internal/testutil"
)

func TestParseSourceKind(t *testing.T) {
	tests := []struct {
		input string
		want  SourceKind
		ok    bool
	}{
		{"feed", SourceKindFeed, true},
		{" Markup ", SourceKindMarkup, true},
		{"rss", SourceKindFeed, true},
		{"json", SourceKindAPI, true},
		{"html", SourceKindMarkup, true},
		{"CSV", SourceKindTabular, true},
		{"xlsx", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseSourceKind(tt.input)
			testutil.AssertEqual(t, ok, tt.ok, "parsed")
			testutil.AssertEqual(t, got, tt.want, "kind")
		})
	}
}

func TestSourceKind_SourceType(t *testing.T) {
	testutil.AssertEqual(t, SourceKindTabular.SourceType(), "TABULAR", "provenance")
}

func TestEnums_IsValid(t *testing.T) {
	testutil.AssertTrue(t, TypeSummerProgram.IsValid(), "summer program")
	testutil.AssertFalse(t, OpportunityType("WORKSHOP").IsValid(), "unknown type")
	testutil.AssertTrue(t, LevelAll.IsValid(), "all levels")
	testutil.AssertFalse(t, EducationLevel("PHD").IsValid(), "unknown level")
}

func TestSourceState_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from SourceState
		to   SourceState
		want bool
	}{
		{"start fetching", StatePending, StateFetching, true},
		{"skip fetch", StatePending, StateReconciling, false},
		{"fetched nothing", StateFetching, StateIdle, true},
		{"fetched items", StateFetching, StateReconciling, true},
		{"finish", StateReconciling, StateDone, true},
		{"fail while pending", StatePending, StateFailed, true},
		{"fail while reconciling", StateReconciling, StateFailed, true},
		{"done is terminal", StateDone, StateFailed, false},
		{"idle is terminal", StateIdle, StateReconciling, false},
		{"failed is terminal", StateFailed, StateFetching, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, tt.from.CanTransition(tt.to), tt.want, tt.from.String()+" -> "+tt.to.String())
		})
	}
}

func TestSourceState_String(t *testing.T) {
	testutil.AssertEqual(t, StateReconciling.String(), "reconciling", "name")
	testutil.AssertEqual(t, SourceState(42).String(), "unknown", "out of range")
}

func TestParseApprovalPolicy(t *testing.T) {
	testutil.AssertEqual(t, ParseApprovalPolicy("MANUAL"), ApprovalManual, "manual")
	testutil.AssertEqual(t, ParseApprovalPolicy("auto"), ApprovalAuto, "auto")
	testutil.AssertEqual(t, ParseApprovalPolicy("bogus"), ApprovalAuto, "fallback")
}
