package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"spendpal/internal/session"
	"spendpal/internal/shared/middleware"
)

// RouterConfig configures the local view API.
type RouterConfig struct {
	AllowedHosts []string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

// NewRouter exposes sess as a JSON API for a local front end.
func NewRouter(sess *session.Session, cfg RouterConfig) http.Handler {
	sessions := NewSessionHandler(sess)
	views := NewViewHandler(sess)
	requests := NewRequestHandler(sess)
	partners := NewPartnerHandler(sess)
	messages := NewMessageHandler(sess)
	wallet := NewWalletHandler(sess)
	exports := NewExportHandler(sess)

	r := mux.NewRouter()
	r.Use(middleware.Tracing)

	r.HandleFunc("/health", HandleHealth).Methods(http.MethodGet)
	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics).Methods(http.MethodGet)
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/session", sessions.HandleInfo).Methods(http.MethodGet)
	api.HandleFunc("/session/login", sessions.HandleLogin).Methods(http.MethodPost)
	api.HandleFunc("/session/register", sessions.HandleRegister).Methods(http.MethodPost)
	api.HandleFunc("/session/offline", sessions.HandleOffline).Methods(http.MethodPost)
	api.HandleFunc("/session/logout", sessions.HandleLogout).Methods(http.MethodPost)
	api.HandleFunc("/profile", sessions.HandleUpdateProfile).Methods(http.MethodPut)

	api.HandleFunc("/views/{screen}", views.HandleView).Methods(http.MethodGet)

	api.HandleFunc("/requests", requests.HandleSubmit).Methods(http.MethodPost)
	api.HandleFunc("/requests/{id}/review", requests.HandleReview).Methods(http.MethodPost)

	api.HandleFunc("/partners", partners.HandleAdd).Methods(http.MethodPost)
	api.HandleFunc("/partners/search", partners.HandleSearch).Methods(http.MethodGet)
	api.HandleFunc("/partners/check-users", partners.HandleCheckUsers).Methods(http.MethodPost)
	api.HandleFunc("/partners/invite", partners.HandleInvite).Methods(http.MethodPost)
	api.HandleFunc("/partners/{id}", partners.HandleRemove).Methods(http.MethodDelete)

	api.HandleFunc("/conversations/{id}/messages", messages.HandleOpen).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/messages", messages.HandleSend).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/read", messages.HandleMarkRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/read-all", messages.HandleMarkAllNotificationsRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}/read", messages.HandleMarkNotificationRead).Methods(http.MethodPost)

	api.HandleFunc("/wallet/add-funds", wallet.HandleAddFunds).Methods(http.MethodPost)
	api.HandleFunc("/wallet/withdraw", wallet.HandleWithdraw).Methods(http.MethodPost)

	api.HandleFunc("/export.xlsx", exports.HandleXLSX).Methods(http.MethodGet)

	var h http.Handler = r
	h = middleware.AllowHosts(cfg.AllowedHosts)(h)
	h = middleware.CORS(cfg.AllowedHosts)(h)
	h = middleware.SecurityHeaders(h)
	h = middleware.Logging(h)
	h = middleware.Telemetry(h)
	return h
}

// HandleHealth returns a simple health check response.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
