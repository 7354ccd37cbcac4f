package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/edumate/internal/grading"
	"github.com/abhisek/edumate/internal/recommender"
	"github.com/abhisek/edumate/internal/rewards"
	"github.com/abhisek/edumate/internal/schedule"
	"github.com/abhisek/edumate/internal/validate"
	"github.com/abhisek/edumate/internal/wellbeing"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":     "ok",
		"llm":        s.app.Provider != nil,
		"vision":     s.app.Vision != nil,
		"embeddings": s.app.Config.Embed.Provider,
	}
	if err := s.app.Store.DB().PingContext(r.Context()); err != nil {
		status["status"] = "degraded"
		status["store"] = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// --- content ---

func (s *Server) recommender(w http.ResponseWriter, r *http.Request) (*recommender.Service, bool) {
	rec, err := s.app.Recommender(r.Context())
	if err != nil {
		s.logger.Error("recommender unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "knowledge base unavailable", nil)
		return nil, false
	}
	return rec, true
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommender.RecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, ok := s.recommender(w, r)
	if !ok {
		return
	}
	res, err := rec.Recommend(r.Context(), req)
	if err != nil {
		s.retrievalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req recommender.AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, ok := s.recommender(w, r)
	if !ok {
		return
	}
	res, err := rec.Answer(r.Context(), req)
	if err != nil {
		s.retrievalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleWorksheet(w http.ResponseWriter, r *http.Request) {
	var req recommender.WorksheetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec, ok := s.recommender(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec.Worksheet(r.Context(), req))
}

func (s *Server) retrievalError(w http.ResponseWriter, err error) {
	s.logger.Error("retrieval failed", zap.Error(err))
	writeError(w, http.StatusServiceUnavailable, err.Error(), nil)
}

// --- grading ---

type hintsRequest struct {
	Answer  string `json:"answer" validate:"required"`
	Subject string `json:"subject" validate:"required"`
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req grading.GradeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.app.Grading.Grade(r.Context(), req))
}

// handleGradeImage takes multipart form fields image, correct_answer,
// subject and optional max_score.
func (s *Server) handleGradeImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid form: %v", err), nil)
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file is required", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("read image: %v", err), nil)
		return
	}

	req := grading.ImageGradeRequest{
		Image:         data,
		MIMEType:      header.Header.Get("Content-Type"),
		CorrectAnswer: r.FormValue("correct_answer"),
		Subject:       r.FormValue("subject"),
	}
	if req.CorrectAnswer == "" || req.Subject == "" {
		writeError(w, http.StatusBadRequest, "validation failed", map[string]string{
			"correct_answer": "correct_answer and subject are required",
		})
		return
	}
	if v := r.FormValue("max_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "max_score must be a non-negative integer", nil)
			return
		}
		req.MaxScore = n
	}
	writeJSON(w, http.StatusOK, s.app.Grading.GradeImage(r.Context(), req))
}

func (s *Server) handleHints(w http.ResponseWriter, r *http.Request) {
	var req hintsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.app.Grading.Hints(r.Context(), req.Answer, req.Subject))
}

// --- wellbeing ---

type reflectRequest struct {
	Text string `json:"text" validate:"required"`
}

type reflectResponse struct {
	Analysis      wellbeing.Analysis         `json:"analysis"`
	Interventions wellbeing.InterventionPlan `json:"interventions"`
}

type peerSupportRequest struct {
	Concern string `json:"concern" validate:"required"`
}

func (s *Server) handleReflect(w http.ResponseWriter, r *http.Request) {
	var req reflectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	analysis := s.app.Wellbeing.Analyze(r.Context(), req.Text)
	plan := s.app.Wellbeing.Interventions(r.Context(), analysis)
	writeJSON(w, http.StatusOK, reflectResponse{Analysis: analysis, Interventions: plan})
}

func (s *Server) handleWellbeingReport(w http.ResponseWriter, r *http.Request) {
	days, ok := intQuery(w, r, "days")
	if !ok {
		return
	}
	report, err := s.app.Wellbeing.Report(r.Context(), days)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handlePeerSupport(w http.ResponseWriter, r *http.Request) {
	var req peerSupportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.app.Wellbeing.PeerSupport(r.Context(), req.Concern))
}

// --- schedule ---

type idResponse struct {
	ID string `json:"id"`
}

type completeRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Kind   string `json:"kind" validate:"omitempty,oneof=student teacher"`
	Score  *int   `json:"score" validate:"omitempty,gte=0,lte=100"`
}

func (s *Server) handleAddClass(w http.ResponseWriter, r *http.Request) {
	var req schedule.ClassInput
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := s.app.Schedule.AddClass(r.Context(), req)
	if err != nil {
		s.scheduleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleAddAssignment(w http.ResponseWriter, r *http.Request) {
	var req schedule.AssignmentInput
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := s.app.Schedule.AddAssignment(r.Context(), req)
	if err != nil {
		s.scheduleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, idResponse{ID: id})
}

func (s *Server) handleToday(w http.ResponseWriter, r *http.Request) {
	classes, err := s.app.Schedule.Today(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, classes)
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days, ok := intQuery(w, r, "days")
	if !ok {
		return
	}
	up, err := s.app.Schedule.Upcoming(r.Context(), days)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, up)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	var req completeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	kind, _ := rewards.ParseKind(req.Kind)
	res, err := s.app.Schedule.Complete(r.Context(), chi.URLParam(r, "id"), req.UserID, kind, req.Score)
	if err != nil {
		s.scheduleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	res, err := s.app.Schedule.Conflicts(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSuggestTime(w http.ResponseWriter, r *http.Request) {
	minutes, ok := intQuery(w, r, "minutes")
	if !ok {
		return
	}
	res, err := s.app.Schedule.SuggestTime(r.Context(), r.URL.Query().Get("subject"), minutes)
	if err != nil {
		s.scheduleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) scheduleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, schedule.ErrAlreadyCompleted):
		writeError(w, http.StatusConflict, err.Error(), nil)
	case validate.IsError(err):
		writeValidationError(w, err)
	default:
		s.internalError(w, err)
	}
}

// --- rewards ---

type pointsRequest struct {
	Points int    `json:"points" validate:"gte=0,lte=10000"`
	Reason string `json:"reason" validate:"required"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r.URL.Query().Get("kind"))
	if !ok {
		return
	}
	top, ok := intQuery(w, r, "top")
	if !ok {
		return
	}
	board, err := s.app.Rewards.Leaderboard(r.Context(), kind, top)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (s *Server) handleLeaderboardExport(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, r.URL.Query().Get("kind"))
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-leaderboard.xlsx"`, kind))
	if err := s.app.Rewards.ExportLeaderboard(r.Context(), w, kind); err != nil {
		s.logger.Error("leaderboard export failed", zap.Error(err))
	}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, chi.URLParam(r, "kind"))
	if !ok {
		return
	}
	p, err := s.app.Rewards.Profile(r.Context(), chi.URLParam(r, "userID"), kind)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if !p.Found {
		writeError(w, http.StatusNotFound, "user not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAddPoints(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, chi.URLParam(r, "kind"))
	if !ok {
		return
	}
	var req pointsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := s.app.Rewards.AddPoints(r.Context(), chi.URLParam(r, "userID"), kind, req.Points, req.Reason)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleRewardSuggestions(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindParam(w, chi.URLParam(r, "kind"))
	if !ok {
		return
	}
	res, err := s.app.Rewards.Suggest(r.Context(), chi.URLParam(r, "userID"), kind)
	if err != nil {
		s.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// --- helpers ---

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error", nil)
}

func kindParam(w http.ResponseWriter, v string) (rewards.Kind, bool) {
	kind, ok := rewards.ParseKind(v)
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be student or teacher", nil)
	}
	return kind, ok
}

// intQuery parses an optional non-negative integer query parameter. Zero
// means "use the default".
func intQuery(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a non-negative integer", name), nil)
		return 0, false
	}
	return n, true
}
