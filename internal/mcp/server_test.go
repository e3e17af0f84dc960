package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/claude/trainload/internal/autoreg"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no
// value is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestRecoveryToolDescribesWireStatuses keeps the recovery tool's
// description in sync with the status values the engine emits.
func TestRecoveryToolDescribesWireStatuses(t *testing.T) {
	for _, status := range []autoreg.RecoveryStatus{
		autoreg.StatusOptimal,
		autoreg.StatusUnderRecovered,
		autoreg.StatusUnderStimulated,
	} {
		if !strings.Contains(toolGetRecovery.Description, string(status)) {
			t.Errorf("get_recovery_analysis description missing status %q", status)
		}
	}
}

// TestClampWeeks verifies the history window bounds.
func TestClampWeeks(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-3, 1},
		{4, 4},
		{26, 26},
		{100, historyWeeksMax},
	}
	for _, tc := range cases {
		if got := clampWeeks(tc.in); got != tc.want {
			t.Errorf("clampWeeks(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
