package customers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jobbook/core/pkg/logger"
	"github.com/jobbook/core/pkg/models"
	"github.com/jobbook/core/pkg/models/api"
	"github.com/jobbook/core/pkg/recurrence"
	"github.com/jobbook/core/pkg/services"
)

const defaultUpcomingHorizon = 30

// Handler serves customer contract endpoints.
type Handler struct {
	service *services.CustomerService
	logger  *logger.Logger
}

func NewHandler(service *services.CustomerService, log *logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

// Customers dispatches /api/customers: GET lists, POST creates.
func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.ListCustomers(r.Context())
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("action", "list_customers_failed").
			Msg("Failed to list customers")
		writeError(w, http.StatusInternalServerError, "failed to list customers")
		return
	}

	response := make([]api.CustomerResponse, 0, len(customers))
	for i := range customers {
		response = append(response, toCustomerResponse(&customers[i]))
	}
	writeJSON(w, http.StatusOK, response)
}

type createRequest struct {
	Name       string `json:"name"`
	Rule       string `json:"recurrence_rule"`
	Selector   *int16 `json:"selector,omitempty"`
	AnchorDate string `json:"anchor_date,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := services.CreateCustomerParams{
		Name:     req.Name,
		Rule:     req.Rule,
		Selector: req.Selector,
	}
	if req.AnchorDate != "" {
		anchor, err := time.Parse("2006-01-02", req.AnchorDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "anchor_date must be YYYY-MM-DD")
			return
		}
		params.AnchorDate = anchor
	}

	customer, err := h.service.CreateCustomer(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Info().
		Str("action", "customer_created").
		Str("customer_id", customer.ID.String()).
		Str("rule", string(customer.Rule)).
		Msg("Customer created")

	writeJSON(w, http.StatusCreated, toCustomerResponse(&customer))
}

// Upcoming handles /api/customers/{id}/upcoming: a read-only preview of
// the contract's next due days, computed without touching the job store.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Path shape: /api/customers/{id}/upcoming
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[3] != "upcoming" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	horizon := defaultUpcomingHorizon
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			writeError(w, http.StatusBadRequest, "days must be 1-365")
			return
		}
		horizon = parsed
	}

	customer, err := h.service.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}

	from := recurrence.Day(time.Now().UTC())
	due := h.service.UpcomingDates(&customer, from, horizon)

	dueDates := make([]string, 0, len(due))
	for _, d := range due {
		dueDates = append(dueDates, d.Format("2006-01-02"))
	}

	writeJSON(w, http.StatusOK, api.UpcomingResponse{
		CustomerID: customer.ID.String(),
		From:       from.Format("2006-01-02"),
		Horizon:    horizon,
		DueDates:   dueDates,
	})
}

func toCustomerResponse(c *models.Customer) api.CustomerResponse {
	return api.CustomerResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Slug:           c.Slug,
		AnchorDate:     c.AnchorDate.Format("2006-01-02"),
		RecurrenceRule: string(c.Rule),
		Selector:       c.Selector,
		CreatedAt:      c.CreatedAt,
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
