package observability

import "time"

// ObserveStore wraps a logical store operation with duration/error metrics.
// A nil receiver is allowed so repos can run without metrics in tests.
func (p *Prom) ObserveStore(op string, fn func() error) error {
	if p == nil {
		return fn()
	}

	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.StoreErrorsTotal.WithLabelValues(op).Inc()
	}
	p.StoreOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

// ObserveWebhook records one delivery attempt.
func (p *Prom) ObserveWebhook(event, result string, elapsed time.Duration) {
	if p == nil {
		return
	}

	p.WebhookDeliveries.WithLabelValues(event, result).Inc()
	p.WebhookDuration.WithLabelValues(event).Observe(elapsed.Seconds())
}
