package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"spendpal/internal/capture"
	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/domain/user"
	"spendpal/internal/domain/wallet"
	"spendpal/internal/infrastructure/backend"
	"spendpal/internal/session"
	"spendpal/internal/store"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	badRequest = []error{
		request.ErrInvalidAmount, request.ErrDescriptionRequired, request.ErrCategoryRequired,
		request.ErrApproversRequired, request.ErrInvalidStatus,
		partner.ErrNameRequired, partner.ErrInvalidEmail, partner.ErrInvalidRole, partner.ErrQueryRequired,
		messaging.ErrConversationRequired, messaging.ErrRecipientRequired, messaging.ErrEmptyMessage,
		wallet.ErrInvalidAmount, wallet.ErrInsufficientFunds,
		user.ErrEmailRequired, user.ErrPasswordTooShort, user.ErrInvalidUsername, user.ErrNameRequired,
		capture.ErrNotDataURL, capture.ErrUnsupportedImage, capture.ErrNotBase64, capture.ErrEmptyImage,
		capture.ErrImageTooLarge,
	}
	notFound = []error{request.ErrNotFound, partner.ErrNotFound, notification.ErrNotificationNotFound}
	conflict = []error{
		request.ErrAlreadyReviewed, session.ErrAlreadyAuthenticated, session.ErrDuplicateRegistration,
		session.ErrUsernameTaken, session.ErrRequiresBackend, store.ErrStaleGeneration,
	}
	unauthorized = []error{session.ErrNotAuthenticated, session.ErrInvalidCredentials}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// statusFor maps a session error onto an HTTP status.
func statusFor(err error) int {
	var apiErr *backend.APIError
	var urlErr *url.Error
	switch {
	case isAny(err, badRequest):
		return http.StatusBadRequest
	case isAny(err, notFound):
		return http.StatusNotFound
	case isAny(err, conflict):
		return http.StatusConflict
	case isAny(err, unauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrBackendUnreachable), errors.Is(err, session.ErrMissingID),
		errors.As(err, &apiErr), errors.As(err, &urlErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the text shown to the user for err. Internal failures
// are logged and replaced by a generic message.
func messageFor(status int, err error) string {
	var apiErr *backend.APIError
	switch {
	case status == http.StatusInternalServerError:
		log.Printf("Error handling local request: %v", err)
		return "Something went wrong. Please try again."
	case isAny(err, []error{session.ErrInvalidCredentials, session.ErrDuplicateRegistration,
		session.ErrUsernameTaken, session.ErrBackendUnreachable}):
		return session.UserMessage(err)
	case errors.As(err, &apiErr):
		return apiErr.Message
	case status == http.StatusBadGateway:
		log.Printf("Error reaching backend: %v", err)
		return session.UserMessage(session.ErrBackendUnreachable)
	default:
		return err.Error()
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	writeJSON(w, status, ErrorResponse{Error: messageFor(status, err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		log.Printf("Error decoding request body: %v", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

// Receipt images travel inline as data URLs.
const maxBodyBytes = 8 << 20
