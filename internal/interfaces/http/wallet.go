package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"spendpal/internal/domain/wallet"
	"spendpal/internal/session"
)

type WalletHandler struct {
	sess *session.Session
}

func NewWalletHandler(sess *session.Session) *WalletHandler {
	return &WalletHandler{sess: sess}
}

type AddFundsRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type WithdrawRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	Instant bool            `json:"instant"`
}

type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

func (h *WalletHandler) HandleAddFunds(w http.ResponseWriter, r *http.Request) {
	var req AddFundsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	balance, err := h.sess.AddFunds(r.Context(), req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}

// HandleWithdraw moves funds out of the wallet; instant withdrawals carry a fee
func (h *WalletHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req WithdrawRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	balance, err := h.sess.Withdraw(r.Context(), wallet.WithdrawParams{Amount: req.Amount, Instant: req.Instant})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}
