package webhook

import "errors"

// EventStatusUpdate is fired after every successful status change.
const EventStatusUpdate = "status_update"

type Webhook struct {
	ID        string   `json:"id"`
	URL       string   `json:"url"`
	Events    []string `json:"events"`
	CreatedAt string   `json:"createdAt"`
	Active    bool     `json:"active"`
}

func (w Webhook) Subscribed(event string) bool {
	for _, e := range w.Events {
		if e == event {
			return true
		}
	}
	return false
}

var ErrNotFound = errors.New("webhook not found")

type RegisterWebhookRequest struct {
	URL    string   `json:"url" binding:"required,url"`
	Events []string `json:"events" binding:"omitempty,dive,min=1"`
}
