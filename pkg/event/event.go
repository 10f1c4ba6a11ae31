// Package event provides a simple synchronous/async event dispatcher.
package event

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/pantry/pkg/logger"
)

// Handler receives an event payload.
type Handler func(ctx context.Context, payload interface{})

// Dispatcher holds listeners by event name.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewDispatcher returns a dispatcher with no listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[string][]Handler{}}
}

// Default is the process-wide dispatcher used by the package functions.
var Default = NewDispatcher()

// Listen registers a handler for the given event name.
func (d *Dispatcher) Listen(event string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[event] = append(d.handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners. A
// panicking listener is logged and does not stop the others.
func (d *Dispatcher) Fire(ctx context.Context, event string, payload interface{}) {
	for _, h := range d.listeners(event) {
		call(ctx, event, h, payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and returns
// immediately. Listeners get a context detached from ctx's cancellation.
func (d *Dispatcher) FireAsync(ctx context.Context, event string, payload interface{}) {
	ctx = context.WithoutCancel(ctx)
	for _, h := range d.listeners(event) {
		go call(ctx, event, h, payload)
	}
}

// Flush removes all listeners (useful in tests).
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = map[string][]Handler{}
}

func (d *Dispatcher) listeners(event string) []Handler {
	d.mu.RLock()
	defer d.mu.RUnlock()
	hs := make([]Handler, len(d.handlers[event]))
	copy(hs, d.handlers[event])
	return hs
}

func call(ctx context.Context, event string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.WithCtx(ctx).Error("event listener panicked", "event", event, "panic", r)
		}
	}()
	h(ctx, payload)
}

// Listen registers handler on Default.
func Listen(event string, handler Handler) { Default.Listen(event, handler) }

// Fire dispatches on Default.
func Fire(ctx context.Context, event string, payload interface{}) { Default.Fire(ctx, event, payload) }

// FireAsync dispatches on Default without waiting.
func FireAsync(ctx context.Context, event string, payload interface{}) {
	Default.FireAsync(ctx, event, payload)
}

// Flush clears Default.
func Flush() { Default.Flush() }
