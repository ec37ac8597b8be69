package jobs

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jobbook/core/pkg/database"
	"github.com/jobbook/core/pkg/logger"
	"github.com/jobbook/core/pkg/models"
	"github.com/jobbook/core/pkg/models/api"
	"github.com/jobbook/core/pkg/recurrence"
	"github.com/jobbook/core/pkg/services"
)

// Handler serves the job schedule endpoints and the manual
// trigger-materialization endpoint.
type Handler struct {
	queries      *database.Queries
	materializer *services.MaterializerService
	logger       *logger.Logger
}

func NewHandler(queries *database.Queries, materializer *services.MaterializerService, log *logger.Logger) *Handler {
	return &Handler{
		queries:      queries,
		materializer: materializer,
		logger:       log,
	}
}

// List handles GET /api/jobs?date=YYYY-MM-DD (defaults to today).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	day := recurrence.Day(time.Now().UTC())
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = recurrence.Day(parsed)
	}

	jobs, err := h.queries.ListJobsByDate(r.Context(), day)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("action", "list_jobs_failed").
			Str("date", day.Format("2006-01-02")).
			Msg("Failed to list jobs")
		writeError(w, http.StatusInternalServerError, "failed to list jobs")
		return
	}

	response := make([]api.JobResponse, 0, len(jobs))
	for i := range jobs {
		response = append(response, toJobResponse(&jobs[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

type materializeRequest struct {
	Date string `json:"date,omitempty"`
}

// Materialize handles POST /api/jobs/materialize: one catch-up pass for
// the requested day (default today). Safe to call repeatedly; a second
// call for the same day reports zero jobs created.
func (h *Handler) Materialize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	target := time.Now().UTC()
	if r.Body != nil && r.ContentLength != 0 {
		var req materializeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Date != "" {
			parsed, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
				return
			}
			target = parsed
		}
	}

	created, err := h.materializer.Materialize(r.Context(), target)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTargetDate) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error().
			Err(err).
			Str("action", "materialize_failed").
			Str("target_date", target.Format("2006-01-02")).
			Msg("Manual materialization pass failed")
		writeError(w, http.StatusInternalServerError, "materialization pass failed")
		return
	}

	writeJSON(w, http.StatusOK, api.MaterializeResponse{
		TargetDate:  recurrence.Day(target).Format("2006-01-02"),
		JobsCreated: created,
	})
}

func toJobResponse(j *models.ScheduledJob) api.JobResponse {
	return api.JobResponse{
		ID:          j.ID.String(),
		CustomerID:  j.CustomerID.String(),
		JobDate:     j.JobDate.Format("2006-01-02"),
		Status:      string(j.Status),
		Origin:      string(j.Origin),
		CompletedAt: j.CompletedAt,
		CreatedAt:   j.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}
