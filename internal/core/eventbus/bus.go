package eventbus

import (
	"context"
	"sync"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus is an asynchronous, buffered event bus. Publish never blocks:
// when the buffer is full the event is dropped and OnDrop hooks fire.
// Subscribers run on the goroutine that calls Start.
type EventBus struct {
	ch chan envelope

	subMu       sync.RWMutex
	subscribers map[Event][]func(any)

	hooks hooks
}

// New creates a bus with the given buffer size.
func New(buffer int) *EventBus {
	if buffer < 1 {
		buffer = 1
	}
	return &EventBus{
		ch:          make(chan envelope, buffer),
		subscribers: make(map[Event][]func(any)),
	}
}

// Start dispatches events until ctx is cancelled. Events still buffered when
// ctx is cancelled are dispatched before Start returns.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case env := <-bus.ch:
			bus.dispatch(env)
		case <-ctx.Done():
			bus.drain()
			return
		}
	}
}

func (bus *EventBus) drain() {
	for {
		select {
		case env := <-bus.ch:
			bus.dispatch(env)
		default:
			return
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.subMu.RLock()
	subs := make([]func(any), len(bus.subscribers[env.event]))
	copy(subs, bus.subscribers[env.event])
	bus.subMu.RUnlock()

	for _, fn := range subs {
		bus.call(env, fn)
	}
}

func (bus *EventBus) call(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.subMu.Lock()
	bus.subscribers[event] = append(bus.subscribers[event], fn)
	bus.subMu.Unlock()
	bus.runOnSubscribe(event)
}

// PublishReviewOpened publishes EventReviewOpened.
func (bus *EventBus) PublishReviewOpened(p ReviewOpenedPayload) {
	bus.send(EventReviewOpened, p)
}

// SubscribeReviewOpened registers fn for EventReviewOpened.
func (bus *EventBus) SubscribeReviewOpened(fn func(ReviewOpenedPayload)) {
	bus.subscribe(EventReviewOpened, func(p any) { fn(p.(ReviewOpenedPayload)) })
}

// PublishReviewClosed publishes EventReviewClosed.
func (bus *EventBus) PublishReviewClosed(p ReviewClosedPayload) {
	bus.send(EventReviewClosed, p)
}

// SubscribeReviewClosed registers fn for EventReviewClosed.
func (bus *EventBus) SubscribeReviewClosed(fn func(ReviewClosedPayload)) {
	bus.subscribe(EventReviewClosed, func(p any) { fn(p.(ReviewClosedPayload)) })
}

// PublishSuggestionViewed publishes EventSuggestionViewed.
func (bus *EventBus) PublishSuggestionViewed(p SuggestionViewedPayload) {
	bus.send(EventSuggestionViewed, p)
}

// SubscribeSuggestionViewed registers fn for EventSuggestionViewed.
func (bus *EventBus) SubscribeSuggestionViewed(fn func(SuggestionViewedPayload)) {
	bus.subscribe(EventSuggestionViewed, func(p any) { fn(p.(SuggestionViewedPayload)) })
}

// PublishSuggestionAccepted publishes EventSuggestionAccepted.
func (bus *EventBus) PublishSuggestionAccepted(p SuggestionDecisionPayload) {
	bus.send(EventSuggestionAccepted, p)
}

// SubscribeSuggestionAccepted registers fn for EventSuggestionAccepted.
func (bus *EventBus) SubscribeSuggestionAccepted(fn func(SuggestionDecisionPayload)) {
	bus.subscribe(EventSuggestionAccepted, func(p any) { fn(p.(SuggestionDecisionPayload)) })
}

// PublishSuggestionRejected publishes EventSuggestionRejected.
func (bus *EventBus) PublishSuggestionRejected(p SuggestionDecisionPayload) {
	bus.send(EventSuggestionRejected, p)
}

// SubscribeSuggestionRejected registers fn for EventSuggestionRejected.
func (bus *EventBus) SubscribeSuggestionRejected(fn func(SuggestionDecisionPayload)) {
	bus.subscribe(EventSuggestionRejected, func(p any) { fn(p.(SuggestionDecisionPayload)) })
}

// PublishSuggestionResolved publishes EventSuggestionResolved.
func (bus *EventBus) PublishSuggestionResolved(p SuggestionResolvedPayload) {
	bus.send(EventSuggestionResolved, p)
}

// SubscribeSuggestionResolved registers fn for EventSuggestionResolved.
func (bus *EventBus) SubscribeSuggestionResolved(fn func(SuggestionResolvedPayload)) {
	bus.subscribe(EventSuggestionResolved, func(p any) { fn(p.(SuggestionResolvedPayload)) })
}

// PublishNotificationPublished publishes EventNotificationPublished.
func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}

// SubscribeNotificationPublished registers fn for EventNotificationPublished.
func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	bus.subscribe(EventNotificationPublished, func(p any) { fn(p.(NotificationPublishedPayload)) })
}

// hooks holds the lifecycle hook state for the EventBus.
type hooks struct {
	mu          sync.RWMutex
	onPublish   []func(Event, any)
	onDrop      []func(Event, any)
	onSubscribe []func(Event)
	onPanic     []func(Event, any, any)
}

// OnPublish registers a hook that fires after an event is successfully enqueued.
func (bus *EventBus) OnPublish(fn func(Event, any)) {
	bus.hooks.mu.Lock()
	bus.hooks.onPublish = append(bus.hooks.onPublish, fn)
	bus.hooks.mu.Unlock()
}

// OnDrop registers a hook that fires when an event is dropped due to a full buffer.
func (bus *EventBus) OnDrop(fn func(Event, any)) {
	bus.hooks.mu.Lock()
	bus.hooks.onDrop = append(bus.hooks.onDrop, fn)
	bus.hooks.mu.Unlock()
}

// OnSubscribe registers a hook that fires after a subscriber is registered.
func (bus *EventBus) OnSubscribe(fn func(Event)) {
	bus.hooks.mu.Lock()
	bus.hooks.onSubscribe = append(bus.hooks.onSubscribe, fn)
	bus.hooks.mu.Unlock()
}

// OnPanic registers a hook that fires when a subscriber panics.
func (bus *EventBus) OnPanic(fn func(Event, any, any)) {
	bus.hooks.mu.Lock()
	bus.hooks.onPanic = append(bus.hooks.onPanic, fn)
	bus.hooks.mu.Unlock()
}

func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		bus.hooks.mu.RLock()
		fns := append([]func(Event, any){}, bus.hooks.onPublish...)
		bus.hooks.mu.RUnlock()
		for _, fn := range fns {
			fn(event, payload)
		}
	default:
		bus.hooks.mu.RLock()
		fns := append([]func(Event, any){}, bus.hooks.onDrop...)
		bus.hooks.mu.RUnlock()
		for _, fn := range fns {
			fn(event, payload)
		}
	}
}

func (bus *EventBus) runOnSubscribe(event Event) {
	bus.hooks.mu.RLock()
	fns := append([]func(Event){}, bus.hooks.onSubscribe...)
	bus.hooks.mu.RUnlock()
	for _, fn := range fns {
		fn(event)
	}
}

func (bus *EventBus) runOnPanic(event Event, payload any, recovered any) {
	bus.hooks.mu.RLock()
	fns := append([]func(Event, any, any){}, bus.hooks.onPanic...)
	bus.hooks.mu.RUnlock()
	for _, fn := range fns {
		func() {
			defer func() { recover() }() //nolint:errcheck
			fn(event, payload, recovered)
		}()
	}
}
