package backend

import (
	"context"
	"net/http"

	"spendpal/internal/domain/feed"
	"spendpal/internal/domain/messaging"
	"spendpal/internal/domain/notification"
)

const (
	conversationsPath    = "/messages/conversations"
	messagesPath         = "/messages"
	notificationsPath    = "/notifications"
	notificationsAllPath = "/notifications/read-all"
	feedPath             = "/feed"
)

func (c *Client) ListConversations(ctx context.Context) ([]messaging.Conversation, error) {
	var resp conversationsResponse
	if err := c.do(ctx, http.MethodGet, conversationsPath, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Conversations == nil {
		return []messaging.Conversation{}, nil
	}
	return resp.Conversations, nil
}

func (c *Client) ListMessages(ctx context.Context, conversationID string) ([]messaging.Message, error) {
	var resp messagesResponse
	if err := c.do(ctx, http.MethodGet, conversationsPath+"/"+escape(conversationID), nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Messages == nil {
		return []messaging.Message{}, nil
	}
	return resp.Messages, nil
}

func (c *Client) SendMessage(ctx context.Context, p messaging.SendParams) (*messaging.Message, error) {
	body := sendMessageBody{
		ConversationID: p.ConversationID,
		Recipient:      p.Recipient,
		Text:           p.Text,
		RequestID:      p.RequestID,
	}
	var m messaging.Message
	if err := c.do(ctx, http.MethodPost, messagesPath, body, &m, true); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) MarkConversationRead(ctx context.Context, conversationID string) error {
	return c.do(ctx, http.MethodPost, conversationsPath+"/"+escape(conversationID)+"/read", nil, nil, true)
}

func (c *Client) ListNotifications(ctx context.Context) ([]notification.Notification, error) {
	var resp notificationsResponse
	if err := c.do(ctx, http.MethodGet, notificationsPath, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Notifications == nil {
		return []notification.Notification{}, nil
	}
	return resp.Notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, notificationsPath+"/"+escape(id)+"/read", nil, nil, true)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, notificationsAllPath, nil, nil, true)
}

func (c *Client) ListFeed(ctx context.Context) ([]feed.Item, error) {
	var resp feedResponse
	if err := c.do(ctx, http.MethodGet, feedPath, nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		return []feed.Item{}, nil
	}
	return resp.Items, nil
}
