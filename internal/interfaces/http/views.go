package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"spendpal/internal/domain/request"
	"spendpal/internal/session"
	"spendpal/internal/view"
)

type ViewHandler struct {
	sess *session.Session
}

func NewViewHandler(sess *session.Session) *ViewHandler {
	return &ViewHandler{sess: sess}
}

// HandleView renders one screen. The response names the screen actually
// shown, which differs from the one asked for when the router falls back.
// Query parameters: conversation selects the chat thread, status filters
// the history screen.
func (h *ViewHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ui := view.UIState{
		Screen:         view.Screen(mux.Vars(r)["screen"]),
		ConversationID: q.Get("conversation"),
	}
	if status := request.Status(q.Get("status")); status != "" {
		if !request.IsValidStatus(status) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "status must be pending, approved or rejected"})
			return
		}
		ui.StatusFilter = status
	}

	writeJSON(w, http.StatusOK, view.Route(ui, h.sess.Authenticated(), h.sess.Snapshot()))
}
