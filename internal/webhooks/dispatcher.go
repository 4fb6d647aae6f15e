// Package webhooks delivers outbound notifications to registered callback
// URLs. Delivery is best-effort and at-most-once: every matching active
// webhook gets one independent POST attempt, failures are collected and
// logged, and nothing is retried.
package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fasttrackbd/courier/internal/domain/webhook"
	"github.com/fasttrackbd/courier/internal/observability"
)

type Delivery struct {
	WebhookID string `json:"webhookId"`
	Success   bool   `json:"success"`
	Status    int    `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

type Source interface {
	ActiveForEvent(ctx context.Context, event string) ([]webhook.Webhook, error)
}

type payload struct {
	Event     string `json:"event"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

type Dispatcher struct {
	src    Source
	client *http.Client
	log    *slog.Logger
	prom   *observability.Prom

	breakerCfg BreakerConfig

	mu       sync.Mutex
	breakers map[string]*breaker // keyed by webhook id
}

func NewDispatcher(src Source, timeout time.Duration, log *slog.Logger, prom *observability.Prom) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Dispatcher{
		src:      src,
		client:   &http.Client{Timeout: timeout},
		log:      log,
		prom:     prom,
		breakers: make(map[string]*breaker),
	}
}

// Dispatch posts the event to every subscribed active webhook and collects
// per-attempt results. A failing webhook does not block the others.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, data any) []Delivery {
	hooks, err := d.src.ActiveForEvent(ctx, event)

	if err != nil {
		d.log.Error("webhook fan-out aborted", "event", event, "err", err)
		return nil
	}

	results := make([]Delivery, 0, len(hooks))

	for _, h := range hooks {
		results = append(results, d.deliver(ctx, event, h, data))
	}

	return results
}

// DispatchAsync runs the fan-out after the triggering write, detached from
// the request. Results are logged, never surfaced to the caller.
func (d *Dispatcher) DispatchAsync(event string, data any) {
	go func() {
		results := d.Dispatch(context.Background(), event, data)

		for _, r := range results {
			if r.Success {
				d.log.Info("webhook delivered", "event", event, "webhook_id", r.WebhookID, "status", r.Status)
				continue
			}
			d.log.Warn("webhook delivery failed", "event", event, "webhook_id", r.WebhookID, "err", r.Error)
		}
	}()
}

func (d *Dispatcher) deliver(ctx context.Context, event string, h webhook.Webhook, data any) Delivery {
	b := d.breakerFor(h.ID)

	if !b.allowRequest() {
		d.prom.ObserveWebhook(event, "skipped", 0)
		return Delivery{WebhookID: h.ID, Success: false, Error: ErrCircuitOpen.Error()}
	}

	start := time.Now()
	status, err := d.post(ctx, event, h.URL, data)
	elapsed := time.Since(start)

	b.afterRequest(err)

	if err != nil {
		d.prom.ObserveWebhook(event, "failed", elapsed)
		return Delivery{WebhookID: h.ID, Success: false, Status: status, Error: err.Error()}
	}

	d.prom.ObserveWebhook(event, "ok", elapsed)
	return Delivery{WebhookID: h.ID, Success: true, Status: status}
}

func (d *Dispatcher) post(ctx context.Context, event, url string, data any) (int, error) {
	body, err := json.Marshal(payload{
		Event:     event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})

	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))

	if err != nil {
		return 0, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Event", event)

	resp, err := d.client.Do(req)

	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}

	return resp.StatusCode, nil
}

func (d *Dispatcher) breakerFor(id string) *breaker {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.breakers[id]

	if !ok {
		b = newBreaker(d.breakerCfg)
		d.breakers[id] = b
	}

	return b
}
