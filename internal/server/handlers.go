package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/claude/trainload/internal/autoreg"
	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/mesocycle"
	"github.com/claude/trainload/internal/models"
	"github.com/claude/trainload/internal/volume"
	"github.com/google/uuid"
)

// historyWeeksMax bounds the volume history window a client can request.
const historyWeeksMax = 26

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfo(r))
}

func (s *Server) handleResolveExercise(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name parameter required"})
		return
	}

	res := s.resolver.Resolve(name)
	def := s.resolver.Definition(name)
	resp := map[string]any{
		"name":      name,
		"primary":   res.Primary,
		"secondary": res.Secondary,
		"matched":   def != nil,
	}
	if def != nil {
		resp["canonical"] = def.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

type appendLogRequest struct {
	Date      time.Time                  `json:"date"`
	Session   string                     `json:"session"`
	Exercises []models.CompletedExercise `json:"exercises"`
	Feedback  models.RawFeedback         `json:"feedback"`
}

func (s *Server) handleAppendLog(w http.ResponseWriter, r *http.Request) {
	var req appendLogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(req.Exercises) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "at least one exercise required"})
		return
	}
	if req.Date.IsZero() {
		req.Date = time.Now()
	}

	userID, err := s.currentUser(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	log := models.WorkoutLog{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      req.Date,
		Session:   req.Session,
		Exercises: req.Exercises,
		Feedback:  models.NormalizeFeedback(req.Feedback),
	}
	if err := s.db.AppendWorkoutLog(r.Context(), log); err != nil {
		s.log.Error("append workout log", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUser(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	logs, err := s.db.RecentWorkoutLogs(r.Context(), userID, weeksParam(r, 4), time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleVolumeReport(w http.ResponseWriter, r *http.Request) {
	_, profile, logs, err := s.userContext(r, 2)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.agg.WeeklyVolume(logs, profile.Experience, time.Now()))
}

func (s *Server) handleVolumeHistory(w http.ResponseWriter, r *http.Request) {
	weeks := weeksParam(r, 4)
	_, profile, logs, err := s.userContext(r, weeks+1)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.agg.VolumeHistory(logs, profile.Experience, weeks, time.Now()))
}

func (s *Server) handleVolumeSummary(w http.ResponseWriter, r *http.Request) {
	_, profile, logs, err := s.userContext(r, 2)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.agg.VolumeSummary(logs, profile.Experience, time.Now()))
}

type validateProgramRequest struct {
	Program    *models.Program `json:"program"`
	Experience string          `json:"experience,omitempty"`
}

func (s *Server) handleValidateProgram(w http.ResponseWriter, r *http.Request) {
	var req validateProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Program == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "program required"})
		return
	}

	profile := models.UserProfile{
		Experience: knowledge.ParseTier(req.Experience),
		Goal:       knowledge.GoalHypertrophy,
	}
	writeJSON(w, http.StatusOK, s.validator.Validate(req.Program, profile))
}

func (s *Server) handleSaveProgram(w http.ResponseWriter, r *http.Request) {
	var p models.Program
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if len(p.Sessions) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "program needs at least one session"})
		return
	}

	userID, err := s.currentUser(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	p.ID = uuid.New()
	p.UserID = userID
	p.CreatedAt = time.Now()

	if err := s.db.SaveProgram(r.Context(), &p); err != nil {
		s.log.Error("save program", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// handleCurrentProgram returns the stored baseline, or the phase-scaled
// view of it when display=1 is passed.
func (s *Server) handleCurrentProgram(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUser(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	p, err := s.db.CurrentProgram(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no current program"})
		return
	}

	if r.URL.Query().Get("display") == "1" {
		state, err := s.db.GetMesocycle(r.Context(), userID, time.Now())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"program":   mesocycle.DisplayProgram(p, state),
			"mesocycle": state,
		})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGenerateProgram(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "program generation not configured"})
		return
	}

	userID, profile, logs, err := s.userContext(r, 2)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	report := s.agg.WeeklyVolume(logs, profile.Experience, time.Now())
	p, result, err := s.llm.GenerateProgram(r.Context(), profile, volume.PromptBlock(report), s.validator)
	if err != nil {
		s.log.Error("generate program", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	p.ID = uuid.New()
	p.UserID = userID
	p.CreatedAt = time.Now()
	if err := s.db.SaveProgram(r.Context(), p); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"program":    p,
		"validation": result,
	})
}

// handleAdjustProgram applies the current recovery recommendation to the
// stored baseline and saves the adjusted program as the new baseline.
func (s *Server) handleAdjustProgram(w http.ResponseWriter, r *http.Request) {
	userID, _, logs, err := s.userContext(r, 2)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	p, err := s.db.CurrentProgram(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no current program"})
		return
	}

	adjusted, rec := autoreg.Apply(p, logs)
	if adjusted != p {
		adjusted.ID = uuid.New()
		adjusted.CreatedAt = time.Now()
		if err := s.db.SaveProgram(r.Context(), adjusted); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"program":        adjusted,
		"recommendation": rec,
		"changed":        adjusted != p,
	})
}

func (s *Server) handleRecovery(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUser(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	logs, err := s.db.RecentWorkoutLogs(r.Context(), userID, 2, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	analysis := autoreg.Analyze(logs, autoreg.DefaultWindow)
	writeJSON(w, http.StatusOK, map[string]any{
		"analysis":       analysis,
		"recommendation": autoreg.Recommend(analysis),
	})
}

func (s *Server) handleMesocycle(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUser(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	state, err := s.db.GetMesocycle(r.Context(), userID, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleAdvanceMesocycle(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUser(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	state, err := s.db.GetMesocycle(r.Context(), userID, time.Now())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	next := mesocycle.AdvanceWeek(state)
	if err := s.db.SaveMesocycle(r.Context(), userID, next); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, next)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := s.currentUser(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	profile, err := s.db.GetProfile(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type putProfileRequest struct {
	Experience string   `json:"experience"`
	Goal       string   `json:"goal"`
	Injuries   []string `json:"injuries"`
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	var req putProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	userID, err := s.currentUser(r)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	profile := models.UserProfile{
		UserID:     userID,
		Experience: knowledge.ParseTier(req.Experience),
		Goal:       parseGoal(req.Goal),
		Injuries:   req.Injuries,
	}
	if err := s.db.UpsertProfile(r.Context(), profile); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

type chatRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "chat not configured"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Question == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question required"})
		return
	}

	_, profile, logs, err := s.userContext(r, 2)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	report := s.agg.WeeklyVolume(logs, profile.Experience, time.Now())
	answer, err := s.llm.Chat(r.Context(), req.Question, volume.PromptBlock(report))
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// currentUser maps the request identity to a database user ID.
func (s *Server) currentUser(r *http.Request) (int, error) {
	info := userInfo(r)
	return s.db.GetOrCreateUser(r.Context(), info.Login, info.DisplayName)
}

// userContext loads the pieces most handlers need: the user ID, their
// profile, and their recent logs covering the given number of weeks.
func (s *Server) userContext(r *http.Request, weeks int) (int, models.UserProfile, []models.WorkoutLog, error) {
	userID, err := s.currentUser(r)
	if err != nil {
		return 0, models.UserProfile{}, nil, err
	}
	profile, err := s.db.GetProfile(r.Context(), userID)
	if err != nil {
		return 0, models.UserProfile{}, nil, err
	}
	logs, err := s.db.RecentWorkoutLogs(r.Context(), userID, weeks, time.Now())
	if err != nil {
		return 0, models.UserProfile{}, nil, err
	}
	return userID, profile, logs, nil
}

func weeksParam(r *http.Request, fallback int) int {
	v := r.URL.Query().Get("weeks")
	if v == "" {
		return fallback
	}
	weeks, err := strconv.Atoi(v)
	if err != nil || weeks < 1 {
		return fallback
	}
	if weeks > historyWeeksMax {
		return historyWeeksMax
	}
	return weeks
}

func parseGoal(s string) knowledge.Goal {
	switch knowledge.Goal(s) {
	case knowledge.GoalStrength, knowledge.GoalHypertrophy, knowledge.GoalEndurance:
		return knowledge.Goal(s)
	}
	return knowledge.GoalHypertrophy
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
