package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"spendpal/internal/domain/messaging"
	"spendpal/internal/session"
)

// MessageHandler serves conversations and notifications
type MessageHandler struct {
	sess *session.Session
}

func NewMessageHandler(sess *session.Session) *MessageHandler {
	return &MessageHandler{sess: sess}
}

type SendMessageRequest struct {
	Recipient string `json:"recipient"`
	Text      string `json:"text"`
	RequestID string `json:"requestId,omitempty"`
}

// HandleOpen returns the thread and marks it read
func (h *MessageHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.sess.OpenConversation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	if msgs == nil {
		msgs = []messaging.Message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := h.sess.SendMessage(r.Context(), messaging.SendParams{
		ConversationID: mux.Vars(r)["id"],
		Recipient:      req.Recipient,
		Text:           req.Text,
		RequestID:      req.RequestID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *MessageHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.MarkMessagesRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MessageHandler) HandleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.MarkNotificationRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MessageHandler) HandleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.sess.MarkAllNotificationsRead(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
