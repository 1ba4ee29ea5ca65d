// Package models holds notification domain types.
package models

import "time"

// Notification is one message delivered to a user's inbox.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnreadCountResponse is the payload for the unread-count endpoint.
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse reports how many notifications a bulk read touched.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
