package models

import "time"

// ContentGeneratedEvent публикуется после сохранения нового артефакта.
type ContentGeneratedEvent struct {
	ContentID int64       `json:"contentId"`
	UserID    int64       `json:"userId"`
	Type      ContentType `json:"type"`
	CreatedAt time.Time   `json:"createdAt"`
}

// SubscriptionEvent публикуется при активации и отмене премиума.
type SubscriptionEvent struct {
	UserID         int64      `json:"userId"`
	SubscriptionID int64      `json:"subscriptionId,omitempty"`
	Method         string     `json:"paymentMethod,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
}
