package shared

import "sync"

// Event names a class of ledger mutation that invalidates derived views.
type Event string

const (
	// EventSaleChanged fires when a sale is registered or its installment
	// plan is replaced.
	EventSaleChanged Event = "saleChanged"
	// EventInstallmentsChanged fires when an installment's received flag
	// is toggled.
	EventInstallmentsChanged Event = "installmentsChanged"
	// EventSupplierPaymentChanged fires when a product's supplier-payment
	// record is toggled.
	EventSupplierPaymentChanged Event = "supplierPaymentChanged"
)

// EventBus delivers mutation events to subscribers synchronously, in
// subscription order. Publish returns after every subscriber has run.
type EventBus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a handler for all events.
func (b *EventBus) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	b.subs = append(b.subs, fn)
	b.mu.Unlock()
}

// Publish delivers the event to every subscriber.
func (b *EventBus) Publish(evt Event) {
	if b == nil {
		return
	}
	b.mu.RLock()
	subs := make([]func(Event), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(evt)
	}
}
