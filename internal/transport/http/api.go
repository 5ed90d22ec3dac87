package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kyoto-kentei/internal/app"
)

// API exposes QuizService as JSON over HTTP.
type API struct {
	service      *app.QuizService
	defaultCount int
}

type startRequest struct {
	Level string `json:"level"`
	Count *int   `json:"count"`
}

type answerRequest struct {
	Index *int `json:"index"`
}

func (a *API) startQuiz(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	count := a.defaultCount
	if req.Count != nil {
		count = *req.Count
	}
	state, err := a.service.Start(r.Context(), req.Level, count)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (a *API) quizState(w http.ResponseWriter, r *http.Request) {
	state, err := a.service.State(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (a *API) answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		writeBadRequest(w, "body must be {\"index\": <0-3>}")
		return
	}
	feedback, err := a.service.Answer(r.Context(), chi.URLParam(r, "quizID"), *req.Index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedback)
}

func (a *API) next(w http.ResponseWriter, r *http.Request) {
	state, err := a.service.Next(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (a *API) result(w http.ResponseWriter, r *http.Request) {
	result, err := a.service.Finish(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) abandonQuiz(w http.ResponseWriter, r *http.Request) {
	if err := a.service.Abandon(r.Context(), chi.URLParam(r, "quizID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) reportQuestion(w http.ResponseWriter, r *http.Request) {
	report, err := a.service.Report(r.Context(), chi.URLParam(r, "questionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (a *API) listReports(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.Reports(r.Context()))
}

func (a *API) clearReports(w http.ResponseWriter, r *http.Request) {
	a.service.ClearReports(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.History(r.Context()))
}

func (a *API) historySummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.Summary(r.Context()))
}

func (a *API) clearHistory(w http.ResponseWriter, r *http.Request) {
	a.service.ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
