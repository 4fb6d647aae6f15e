package jsonfile

import (
	"context"

	"github.com/google/uuid"

	"github.com/fasttrackbd/courier/internal/domain/webhook"
	"github.com/fasttrackbd/courier/internal/observability"
	storefile "github.com/fasttrackbd/courier/internal/store/jsonfile"
)

// WebhooksRepo keeps webhook registrations in the same file-backed store as
// keys and users, so they survive restarts.
type WebhooksRepo struct {
	col  *storefile.Collection[webhook.Webhook]
	prom *observability.Prom
}

func NewWebhooksRepo(col *storefile.Collection[webhook.Webhook], prom *observability.Prom) *WebhooksRepo {
	return &WebhooksRepo{col: col, prom: prom}
}

func (r *WebhooksRepo) List(ctx context.Context) ([]webhook.Webhook, error) {
	var items []webhook.Webhook

	err := r.prom.ObserveStore("webhooks.list", func() error {
		var err error
		items, err = r.col.Load()
		return err
	})

	return items, err
}

func (r *WebhooksRepo) Create(ctx context.Context, url string, events []string) (webhook.Webhook, error) {
	if len(events) == 0 {
		events = []string{webhook.EventStatusUpdate}
	}

	w := webhook.Webhook{
		ID:        uuid.NewString(),
		URL:       url,
		Events:    events,
		CreatedAt: now(),
		Active:    true,
	}

	err := r.prom.ObserveStore("webhooks.create", func() error {
		return r.col.Update(func(items []webhook.Webhook) ([]webhook.Webhook, error) {
			return append(items, w), nil
		})
	})

	if err != nil {
		return webhook.Webhook{}, err
	}

	return w, nil
}

func (r *WebhooksRepo) Delete(ctx context.Context, id string) error {
	return r.prom.ObserveStore("webhooks.delete", func() error {
		return r.col.Update(func(items []webhook.Webhook) ([]webhook.Webhook, error) {
			out := items[:0]
			found := false

			for _, w := range items {
				if w.ID == id {
					found = true
					continue
				}
				out = append(out, w)
			}

			if !found {
				return nil, webhook.ErrNotFound
			}

			return out, nil
		})
	})
}

// ActiveForEvent returns the fan-out targets for one event.
func (r *WebhooksRepo) ActiveForEvent(ctx context.Context, event string) ([]webhook.Webhook, error) {
	items, err := r.List(ctx)

	if err != nil {
		return nil, err
	}

	out := make([]webhook.Webhook, 0, len(items))

	for _, w := range items {
		if w.Active && w.Subscribed(event) {
			out = append(out, w)
		}
	}

	return out, nil
}
