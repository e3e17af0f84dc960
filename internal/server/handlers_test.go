package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/program"
	"github.com/claude/trainload/internal/resolver"
)

// testServer builds a Server with the engine wired but no database, for
// handlers that never touch storage.
func testServer(t *testing.T) *Server {
	t.Helper()
	kb, err := knowledge.Load()
	if err != nil {
		t.Fatalf("loading knowledge base: %v", err)
	}
	res := resolver.New(kb)
	return &Server{
		kb:        kb,
		resolver:  res,
		validator: program.New(kb, res),
	}
}

// TestHandleMeDefault verifies /api/v1/me returns the dev user identity
// when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
}

// TestHandleMeTailscaleUser verifies /api/v1/me returns the identity set
// in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
}

func TestHandleResolveExercise(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/exercises/resolve?name=Incline+DB+Press", nil)
	rec := httptest.NewRecorder()

	s.handleResolveExercise(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Primary   string   `json:"primary"`
		Secondary []string `json:"secondary"`
		Matched   bool     `json:"matched"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Primary != "chest" {
		t.Errorf("primary = %q, want %q", resp.Primary, "chest")
	}
}

func TestHandleResolveExerciseMissingName(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/exercises/resolve", nil)
	rec := httptest.NewRecorder()

	s.handleResolveExercise(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleValidateProgram(t *testing.T) {
	s := testServer(t)
	body := `{
		"experience": "intermediate",
		"program": {
			"name": "Upper only",
			"sessions": [
				{"name": "Upper", "exercises": [
					{"name": "Bench Press", "sets": 4},
					{"name": "Barbell Row", "sets": 4}
				]}
			]
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/programs/validate", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleValidateProgram(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var result program.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if result.IsValid {
		t.Error("IsValid = true, want false for a program with no lower body work")
	}
}

func TestHandleValidateProgramBadJSON(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/programs/validate", strings.NewReader("{"))
	rec := httptest.NewRecorder()

	s.handleValidateProgram(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleValidateProgramMissingProgram(t *testing.T) {
	s := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/programs/validate", strings.NewReader(`{"experience":"beginner"}`))
	rec := httptest.NewRecorder()

	s.handleValidateProgram(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWeeksParam(t *testing.T) {
	cases := []struct {
		query string
		want  int
	}{
		{"", 4},
		{"weeks=8", 8},
		{"weeks=0", 4},
		{"weeks=abc", 4},
		{"weeks=100", historyWeeksMax},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		if got := weeksParam(req, 4); got != tc.want {
			t.Errorf("weeksParam(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}
