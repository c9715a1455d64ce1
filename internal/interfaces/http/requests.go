package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"spendpal/internal/domain/request"
	"spendpal/internal/session"
)

const dateLayout = "2006-01-02"

type RequestHandler struct {
	sess *session.Session
	now  func() time.Time
}

func NewRequestHandler(sess *session.Session) *RequestHandler {
	return &RequestHandler{sess: sess, now: time.Now}
}

type SubmitRequestBody struct {
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Date         string          `json:"date,omitempty"`
	Approvers    []string        `json:"approvers"`
	Notes        string          `json:"notes,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	SelfApproval bool            `json:"selfApproval,omitempty"`
}

type ReviewRequestBody struct {
	Status request.Status `json:"status"`
	Notes  string         `json:"notes,omitempty"`
}

// HandleSubmit creates a spending request. date is YYYY-MM-DD and defaults to today.
func (h *RequestHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequestBody
	if !decodeJSON(w, r, &req) {
		return
	}

	date := h.now()
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "date must be formatted as YYYY-MM-DD"})
			return
		}
		date = parsed
	}

	created, err := h.sess.SubmitRequest(r.Context(), request.SubmitParams{
		Amount:       req.Amount,
		Description:  req.Description,
		Category:     req.Category,
		Date:         date,
		Approvers:    req.Approvers,
		Notes:        req.Notes,
		ImageURL:     req.ImageURL,
		SelfApproval: req.SelfApproval,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *RequestHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequestBody
	if !decodeJSON(w, r, &req) {
		return
	}
	reviewed, err := h.sess.ReviewRequest(r.Context(), request.ReviewParams{
		RequestID: mux.Vars(r)["id"],
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewed)
}
