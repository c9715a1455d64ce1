package http

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"spendpal/internal/export"
	"spendpal/internal/session"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	sess *session.Session
	now  func() time.Time
}

func NewExportHandler(sess *session.Session) *ExportHandler {
	return &ExportHandler{sess: sess, now: time.Now}
}

// HandleXLSX downloads the session's requests and transactions as a workbook
func (h *ExportHandler) HandleXLSX(w http.ResponseWriter, r *http.Request) {
	if !h.sess.Authenticated() {
		writeError(w, session.ErrNotAuthenticated)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, h.sess.Snapshot()); err != nil {
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("spendpal-%s.xlsx", h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}
