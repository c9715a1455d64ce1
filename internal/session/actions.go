package session

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"spendpal/internal/capture"
	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
	"spendpal/internal/domain/partner"
	"spendpal/internal/domain/request"
	"spendpal/internal/domain/user"
	"spendpal/internal/domain/wallet"
	"spendpal/internal/infrastructure/backend"
	"spendpal/internal/store"
)

// SubmitRequest creates a pending request. Online sessions create it on the
// backend first and keep the backend id; on failure nothing changes locally.
func (s *Session) SubmitRequest(ctx context.Context, p request.SubmitParams) (request.Request, error) {
	gen, remote, err := s.begin()
	if err != nil {
		return request.Request{}, err
	}
	if err := p.Validate(); err != nil {
		return request.Request{}, err
	}
	if p.ImageURL != "" {
		if _, err := capture.ParseDataURL(p.ImageURL); err != nil {
			return request.Request{}, err
		}
	}

	id := uuid.NewString()
	if remote {
		created, err := s.api.CreateRequest(ctx, p)
		if err != nil {
			return request.Request{}, fmt.Errorf("failed to create request: %w", err)
		}
		if created.ID == "" {
			return request.Request{}, fmt.Errorf("failed to create request: %w", ErrMissingID)
		}
		id = created.ID
	}

	if err := s.store.DispatchAt(ctx, gen, store.SubmitRequest{Params: p, ID: id}); err != nil {
		return request.Request{}, err
	}
	r, ok := s.store.Snapshot().FindRequest(id)
	if !ok {
		return request.Request{}, fmt.Errorf("submitted request %s missing from store", id)
	}
	return r, nil
}

// ReviewRequest approves or rejects a pending request.
func (s *Session) ReviewRequest(ctx context.Context, p request.ReviewParams) (request.Request, error) {
	gen, remote, err := s.begin()
	if err != nil {
		return request.Request{}, err
	}
	current, ok := s.store.Snapshot().FindRequest(p.RequestID)
	if !ok {
		return request.Request{}, request.ErrNotFound
	}
	if _, err := current.Review(p); err != nil {
		return request.Request{}, err
	}

	if remote {
		if _, err := s.api.UpdateRequestStatus(ctx, p.RequestID, p.Status, p.Notes); err != nil {
			return request.Request{}, fmt.Errorf("failed to update request status: %w", err)
		}
	}

	if err := s.store.DispatchAt(ctx, gen, store.ReviewRequest{Params: p}); err != nil {
		return request.Request{}, err
	}
	r, ok := s.store.Snapshot().FindRequest(p.RequestID)
	if !ok {
		return request.Request{}, fmt.Errorf("reviewed request %s missing from store", p.RequestID)
	}
	return r, nil
}

// SendMessage appends an outgoing message and updates its conversation.
func (s *Session) SendMessage(ctx context.Context, p messaging.SendParams) (messaging.Message, error) {
	gen, remote, err := s.begin()
	if err != nil {
		return messaging.Message{}, err
	}
	if err := p.Validate(); err != nil {
		return messaging.Message{}, err
	}

	id := uuid.NewString()
	if remote {
		sent, err := s.api.SendMessage(ctx, p)
		if err != nil {
			return messaging.Message{}, fmt.Errorf("failed to send message: %w", err)
		}
		if sent.ID == "" {
			return messaging.Message{}, fmt.Errorf("failed to send message: %w", ErrMissingID)
		}
		id = sent.ID
	}

	action := store.SendMessage{Params: p, ID: id, Avatar: partner.Initials(p.Recipient)}
	if err := s.store.DispatchAt(ctx, gen, action); err != nil {
		return messaging.Message{}, err
	}
	for _, m := range s.store.Snapshot().Messages {
		if m.ID == id {
			return m, nil
		}
	}
	return messaging.Message{}, fmt.Errorf("sent message %s missing from store", id)
}

// MarkMessagesRead marks a conversation read. Repeating it is harmless.
func (s *Session) MarkMessagesRead(ctx context.Context, conversationID string) error {
	gen, remote, err := s.begin()
	if err != nil {
		return err
	}
	if conversationID == "" {
		return messaging.ErrConversationRequired
	}
	if remote {
		if err := s.api.MarkConversationRead(ctx, conversationID); err != nil {
			return fmt.Errorf("failed to mark conversation read: %w", err)
		}
	}
	return s.store.DispatchAt(ctx, gen, store.MarkMessagesRead{ConversationID: conversationID})
}

// OpenConversation loads the messages of one conversation and marks it read.
func (s *Session) OpenConversation(ctx context.Context, conversationID string) ([]messaging.Message, error) {
	gen, remote, err := s.begin()
	if err != nil {
		return nil, err
	}
	if conversationID == "" {
		return nil, messaging.ErrConversationRequired
	}
	if remote {
		msgs, err := s.api.ListMessages(ctx, conversationID)
		if err != nil {
			return nil, fmt.Errorf("failed to load messages: %w", err)
		}
		if err := s.store.DispatchAt(ctx, gen, store.HydrateMessages{ConversationID: conversationID, Messages: msgs}); err != nil {
			return nil, err
		}
	}
	if err := s.MarkMessagesRead(ctx, conversationID); err != nil {
		return nil, err
	}
	return messaging.Thread(s.store.Snapshot().Messages, conversationID), nil
}

// AddPartner creates a partner and records a friend_request notification.
// Online sessions use the backend-assigned id; a backend failure leaves the
// store untouched.
func (s *Session) AddPartner(ctx context.Context, p partner.AddParams) (partner.Partner, error) {
	gen, remote, err := s.begin()
	if err != nil {
		return partner.Partner{}, err
	}
	p = p.Normalize()
	if err := p.Validate(); err != nil {
		return partner.Partner{}, err
	}

	created := partner.Partner{
		ID:     uuid.NewString(),
		Name:   p.Name,
		Email:  p.Email,
		Avatar: partner.Initials(p.Name),
		Role:   p.Role,
	}
	if remote {
		resp, err := s.api.AddPartner(ctx, p)
		if err != nil {
			return partner.Partner{}, fmt.Errorf("failed to add partner: %w", err)
		}
		created = *resp
		if created.Avatar == "" {
			created.Avatar = partner.Initials(created.Name)
		}
	}

	if err := s.store.DispatchAt(ctx, gen, store.AddPartner{Partner: created}); err != nil {
		return partner.Partner{}, err
	}
	return created, nil
}

// RemovePartner deletes a partner. The local list changes only after the
// backend confirms.
func (s *Session) RemovePartner(ctx context.Context, id string) error {
	gen, remote, err := s.begin()
	if err != nil {
		return err
	}
	if _, ok := s.store.Snapshot().FindPartner(id); !ok {
		return partner.ErrNotFound
	}
	if remote {
		if err := s.api.RemovePartner(ctx, id); err != nil {
			return fmt.Errorf("failed to remove partner: %w", err)
		}
	}
	return s.store.DispatchAt(ctx, gen, store.RemovePartner{ID: id})
}

func (s *Session) MarkNotificationRead(ctx context.Context, id string) error {
	gen, remote, err := s.begin()
	if err != nil {
		return err
	}
	found := false
	for _, n := range s.store.Snapshot().Notifications {
		if n.ID == id {
			found = true
			break
		}
	}
	if !found {
		return notification.ErrNotificationNotFound
	}
	if remote {
		if err := s.api.MarkNotificationRead(ctx, id); err != nil {
			return fmt.Errorf("failed to mark notification read: %w", err)
		}
	}
	return s.store.DispatchAt(ctx, gen, store.MarkNotificationRead{ID: id})
}

func (s *Session) MarkAllNotificationsRead(ctx context.Context) error {
	gen, remote, err := s.begin()
	if err != nil {
		return err
	}
	if remote {
		if err := s.api.MarkAllNotificationsRead(ctx); err != nil {
			return fmt.Errorf("failed to mark notifications read: %w", err)
		}
	}
	return s.store.DispatchAt(ctx, gen, store.MarkAllNotificationsRead{})
}

// AddFunds deposits into the wallet. The backend owns the balance.
func (s *Session) AddFunds(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	gen, err := s.beginRemote()
	if err != nil {
		return decimal.Zero, err
	}
	if err := wallet.ValidateDeposit(amount); err != nil {
		return decimal.Zero, err
	}
	resp, err := s.api.AddFunds(ctx, amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to add funds: %w", err)
	}
	if err := s.store.DispatchAt(ctx, gen, store.WalletUpdated{Balance: resp.Balance, Transaction: resp.Transaction}); err != nil {
		return decimal.Zero, err
	}
	return resp.Balance, nil
}

// Withdraw moves funds out of the wallet. Instant withdrawals carry a fee
// computed by the backend.
func (s *Session) Withdraw(ctx context.Context, p wallet.WithdrawParams) (decimal.Decimal, error) {
	gen, err := s.beginRemote()
	if err != nil {
		return decimal.Zero, err
	}
	if err := p.Validate(s.store.Snapshot().Balance); err != nil {
		return decimal.Zero, err
	}
	resp, err := s.api.Withdraw(ctx, p)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to withdraw: %w", err)
	}
	if err := s.store.DispatchAt(ctx, gen, store.WalletUpdated{Balance: resp.Balance, Transaction: resp.Transaction}); err != nil {
		return decimal.Zero, err
	}
	return resp.Balance, nil
}

// SearchPartners looks up registered users to add as partners.
func (s *Session) SearchPartners(ctx context.Context, query string) ([]backend.UserMatch, error) {
	if _, err := s.beginRemote(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, partner.ErrQueryRequired
	}
	matches, err := s.api.SearchUsers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search partners: %w", err)
	}
	return matches, nil
}

// CheckRegisteredUsers returns which of emails already have accounts.
func (s *Session) CheckRegisteredUsers(ctx context.Context, emails []string) ([]string, error) {
	if _, err := s.beginRemote(); err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return []string{}, nil
	}
	registered, err := s.api.CheckRegisteredUsers(ctx, emails)
	if err != nil {
		return nil, fmt.Errorf("failed to check users: %w", err)
	}
	return registered, nil
}

// InvitePartner emails an invitation to someone without an account.
func (s *Session) InvitePartner(ctx context.Context, inv partner.Invitation) error {
	if _, err := s.beginRemote(); err != nil {
		return err
	}
	inv.Email = strings.ToLower(strings.TrimSpace(inv.Email))
	if _, err := mail.ParseAddress(inv.Email); err != nil {
		return partner.ErrInvalidEmail
	}
	if err := s.api.InvitePartner(ctx, inv); err != nil {
		return fmt.Errorf("failed to send invitation: %w", err)
	}
	return nil
}

// UpdateProfile edits the signed-in user's profile.
func (s *Session) UpdateProfile(ctx context.Context, p user.UpdateProfileParams) (user.Profile, error) {
	_, remote, err := s.begin()
	if err != nil {
		return user.Profile{}, err
	}
	if err := p.Validate(); err != nil {
		return user.Profile{}, err
	}

	s.mu.Lock()
	updated := s.profile
	s.mu.Unlock()

	if remote {
		resp, err := s.api.UpdateProfile(ctx, p)
		if err != nil {
			return user.Profile{}, fmt.Errorf("failed to update profile: %w", err)
		}
		updated = *resp
	} else {
		if p.Name != nil {
			updated.Name = strings.TrimSpace(*p.Name)
		}
		if p.Username != nil {
			updated.Username = *p.Username
		}
		if p.Avatar != nil {
			updated.Avatar = *p.Avatar
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusUnauthenticated {
		return user.Profile{}, ErrNotAuthenticated
	}
	s.profile = updated
	return updated, nil
}

// beginRemote is begin for actions that only make sense against the backend.
func (s *Session) beginRemote() (uint64, error) {
	gen, remote, err := s.begin()
	if err != nil {
		return 0, err
	}
	if !remote {
		return 0, ErrRequiresBackend
	}
	return gen, nil
}
