package http

import (
	"net/http"

	"spendpal/internal/domain/user"
	"spendpal/internal/session"
)

type SessionHandler struct {
	sess *session.Session
}

func NewSessionHandler(sess *session.Session) *SessionHandler {
	return &SessionHandler{sess: sess}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type OfflineRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// HandleInfo returns the session status and profile
func (h *SessionHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sess.Info())
}

func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.sess.Login(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sess.Info())
}

func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	err := h.sess.Register(r.Context(), user.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Username: req.Username,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.sess.Info())
}

// HandleOffline starts a session that never reaches the backend
func (h *SessionHandler) HandleOffline(w http.ResponseWriter, r *http.Request) {
	var req OfflineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.sess.ContinueOffline(req.Name, req.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.sess.Info())
}

func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req user.UpdateProfileParams
	if !decodeJSON(w, r, &req) {
		return
	}
	profile, err := h.sess.UpdateProfile(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
