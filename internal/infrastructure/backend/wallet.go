package backend

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"spendpal/internal/domain/wallet"
)

const (
	balancePath      = "/wallet/balance"
	addFundsPath     = "/wallet/add-funds"
	withdrawPath     = "/wallet/withdraw"
	transactionsPath = "/wallet/transactions"
)

func (c *Client) GetBalance(ctx context.Context) (decimal.Decimal, error) {
	var resp WalletResponse
	if err := c.do(ctx, http.MethodGet, balancePath, nil, &resp, true); err != nil {
		return decimal.Zero, err
	}
	return resp.Balance, nil
}

func (c *Client) AddFunds(ctx context.Context, amount decimal.Decimal) (*WalletResponse, error) {
	var resp WalletResponse
	if err := c.do(ctx, http.MethodPost, addFundsPath, amountBody{Amount: amount}, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Withdraw moves funds out of the wallet. The backend computes the fee for
// instant withdrawals.
func (c *Client) Withdraw(ctx context.Context, p wallet.WithdrawParams) (*WalletResponse, error) {
	var resp WalletResponse
	if err := c.do(ctx, http.MethodPost, withdrawPath, amountBody{Amount: p.Amount, Instant: p.Instant}, &resp, true); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListTransactions(ctx context.Context) ([]wallet.Transaction, error) {
	var resp transactionsResponse
	if err := c.do(ctx, http.MethodGet, transactionsPath, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Transactions == nil {
		return []wallet.Transaction{}, nil
	}
	return resp.Transactions, nil
}
