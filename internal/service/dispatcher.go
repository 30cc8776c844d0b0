package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"orderflow/internal/model"
	"orderflow/internal/repository"
)

// EventNewOrder fires once per paid order: after a gateway-validated success
// and after a manual approve.
const EventNewOrder = "new_order"

// NewOrderEvent is the payload delivered to new_order subscribers.
type NewOrderEvent struct {
	OrderID        string `json:"orderId"`
	TransactionRef string `json:"transactionReference"`
	Amount         string `json:"amount"`
	CustomerEmail  string `json:"customerEmail"`
	ProductName    string `json:"productName"`
}

// EventDispatcher is the slice of the automation engine the order flows
// depend on.
type EventDispatcher interface {
	DispatchAsync(event string, payload interface{})
}

type eventEnvelope struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Dispatcher fans business events out to the matching active automation
// subscriptions. Deliveries run concurrently, one attempt each, and a
// subscriber failure is logged without affecting the others or the caller.
type Dispatcher struct {
	automationRepo repository.AutomationRepository
	httpClient     *http.Client
	log            *zap.Logger
	inflight       sync.WaitGroup
}

func NewDispatcher(automationRepo repository.AutomationRepository, log *zap.Logger, perCallTimeout time.Duration) *Dispatcher {
	return &Dispatcher{
		automationRepo: automationRepo,
		httpClient: &http.Client{
			Timeout: perCallTimeout,
		},
		log: log,
	}
}

// Dispatch delivers payload to every active subscription for event and waits
// for all attempts. It only errors when the registry itself cannot be read.
func (d *Dispatcher) Dispatch(ctx context.Context, event string, payload interface{}) error {
	subs, err := d.automationRepo.FindActiveByEvent(ctx, event)
	if err != nil {
		return fmt.Errorf("read automation registry: %w", err)
	}

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(sub model.AutomationSubscription) {
			defer wg.Done()
			if err := d.deliver(ctx, &sub, event, payload); err != nil {
				d.log.Warn("webhook delivery failed",
					zap.Uint("subscription_id", sub.ID),
					zap.String("subscription", sub.Name),
					zap.String("event", event),
					zap.Error(err))
			}
		}(sub)
	}
	wg.Wait()

	return nil
}

// DispatchAsync launches a dispatch without making the caller wait on
// subscriber endpoints. In-flight deliveries are tracked so Close can drain
// them on shutdown.
func (d *Dispatcher) DispatchAsync(event string, payload interface{}) {
	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		if err := d.Dispatch(context.Background(), event, payload); err != nil {
			d.log.Error("automation dispatch",
				zap.String("event", event),
				zap.Error(err))
		}
	}()
}

// SendTest posts a synthetic envelope to one subscription so an admin can
// verify connectivity without touching real order data.
func (d *Dispatcher) SendTest(ctx context.Context, sub *model.AutomationSubscription) error {
	return d.deliver(ctx, sub, sub.TriggerEvent, map[string]string{
		"test":    "true",
		"message": "orderflow automation connectivity test",
	})
}

// Close waits for async dispatches still in flight.
func (d *Dispatcher) Close() {
	d.inflight.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, sub *model.AutomationSubscription, event string, payload interface{}) error {
	// the attempt itself is what moves the timestamp, not its outcome
	attemptedAt := time.Now()
	if err := d.automationRepo.TouchLastTriggered(ctx, sub.ID, attemptedAt); err != nil {
		d.log.Warn("update last_triggered_at",
			zap.Uint("subscription_id", sub.ID),
			zap.Error(err))
	}

	body, err := json.Marshal(eventEnvelope{
		Event:     event,
		Timestamp: attemptedAt,
		Data:      payload,
	})
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook endpoint returned %d", resp.StatusCode)
	}

	d.log.Info("webhook delivered",
		zap.Uint("subscription_id", sub.ID),
		zap.String("event", event))

	return nil
}
