package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"spendpal/internal/domain/partner"
	"spendpal/internal/session"
)

type PartnerHandler struct {
	sess *session.Session
}

func NewPartnerHandler(sess *session.Session) *PartnerHandler {
	return &PartnerHandler{sess: sess}
}

type AddPartnerRequest struct {
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Role  partner.Role `json:"role"`
}

type CheckUsersRequest struct {
	Emails []string `json:"emails"`
}

type CheckUsersResponse struct {
	Registered []string `json:"registered"`
}

func (h *PartnerHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req AddPartnerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.sess.AddPartner(r.Context(), partner.AddParams{Name: req.Name, Email: req.Email, Role: req.Role})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *PartnerHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.RemovePartner(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch finds registered users by name, email or username (?q=)
func (h *PartnerHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	matches, err := h.sess.SearchPartners(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

func (h *PartnerHandler) HandleCheckUsers(w http.ResponseWriter, r *http.Request) {
	var req CheckUsersRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	registered, err := h.sess.CheckRegisteredUsers(r.Context(), req.Emails)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckUsersResponse{Registered: registered})
}

func (h *PartnerHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	var req partner.Invitation
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.sess.InvitePartner(r.Context(), req); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
