// Package events publishes domain events to other systems. Closed sales go
// out on a fanout exchange so kitchen displays and accounting can follow the
// register without polling.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/GabRuby/calcTacos/internal/domain/sales"
)

// SaleClosedType is the AMQP message type and routing key for closed sales.
const SaleClosedType = "sale.closed"

// SaleClosed is the body of a sale.closed message.
type SaleClosed struct {
	Type         string     `json:"type"`
	BusinessDate string     `json:"businessDate"`
	Sale         sales.Sale `json:"sale"`
	OccurredAt   time.Time  `json:"occurredAt"`
}

// NewSaleClosed builds the event for a sale recorded under businessDate.
func NewSaleClosed(businessDate string, sale *sales.Sale, now time.Time) SaleClosed {
	return SaleClosed{
		Type:         SaleClosedType,
		BusinessDate: businessDate,
		Sale:         *sale,
		OccurredAt:   now.UTC(),
	}
}

// Marshal encodes the event body.
func (e SaleClosed) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishSaleClosed(ctx context.Context, event SaleClosed) error
	Close() error
}

// NopPublisher drops every event. Used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) PublishSaleClosed(context.Context, SaleClosed) error { return nil }
func (NopPublisher) Close() error                                       { return nil }

// Recorder keeps published events in memory for tests.
type Recorder struct {
	mu     sync.Mutex
	events []SaleClosed
	Err    error
}

func (r *Recorder) PublishSaleClosed(_ context.Context, event SaleClosed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []SaleClosed {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]SaleClosed(nil), r.events...)
}
