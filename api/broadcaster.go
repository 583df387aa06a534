package api

import (
	"sync"

	"github.com/rv32isim/rv32i-emulator/vm"
)

// EventType discriminates the two kinds of event a session can push to its
// WebSocket subscribers.
type EventType string

const (
	// EventTypeState carries a full register/PC/cycle snapshot.
	EventTypeState EventType = "state"
	// EventTypeExecution carries a step/run/breakpoint/halt outcome.
	EventTypeExecution EventType = "event"
)

// StateSnapshot is the register file, PC, and cycle count at the moment of
// broadcast.
type StateSnapshot struct {
	PC     uint32                  `json:"pc"`
	Cycles uint64                  `json:"cycles"`
	Regs   [vm.NumRegisters]uint32 `json:"regs"`
}

// ExecutionOutcome describes why a run, step, or load just happened.
// Reason holds values like "loaded", "stepped", "halted", "breakpoint",
// or a RunUntil stop reason such as "cycle limit reached".
type ExecutionOutcome struct {
	Reason string `json:"reason"`
	Steps  int    `json:"steps"`
	PC     uint32 `json:"pc"`
	Words  int    `json:"words,omitempty"`
}

// BroadcastEvent is one message pushed to WebSocket subscribers. Exactly
// one of State or Execution is populated, matching Type.
type BroadcastEvent struct {
	Type      EventType         `json:"type"`
	SessionID string            `json:"sessionId"`
	State     *StateSnapshot    `json:"state,omitempty"`
	Execution *ExecutionOutcome `json:"execution,omitempty"`
}

// Subscription is a client's filtered view onto the event stream: an empty
// SessionID matches every session, and an empty EventTypes set matches
// every event type.
type Subscription struct {
	SessionID  string
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans RV32I session events out to every matching subscriber.
// Registration, unregistration, and delivery all run on a single goroutine
// so the subscriber map never needs external locking beyond SubscriptionCount.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster creates and starts a broadcaster.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()

		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()

		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if !sub.matches(event) {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
					// subscriber too slow, drop this event rather than stall the fan-out
				}
			}
			b.mu.RUnlock()

		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

func (s *Subscription) matches(event BroadcastEvent) bool {
	if s.SessionID != "" && s.SessionID != event.SessionID {
		return false
	}
	if len(s.EventTypes) > 0 && !s.EventTypes[event.Type] {
		return false
	}
	return true
}

// Subscribe opens a subscription. sessionID == "" subscribes to every
// session; an empty eventTypes subscribes to every event type.
func (b *Broadcaster) Subscribe(sessionID string, eventTypes []EventType) *Subscription {
	eventTypeSet := make(map[EventType]bool, len(eventTypes))
	for _, et := range eventTypes {
		eventTypeSet[et] = true
	}

	sub := &Subscription{
		SessionID:  sessionID,
		EventTypes: eventTypeSet,
		Channel:    make(chan BroadcastEvent, 64),
	}

	b.register <- sub
	return sub
}

// Unsubscribe tears down a subscription and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Broadcast queues an event for delivery. A full queue drops the event
// rather than blocking the caller mid-interpreter-step.
func (b *Broadcaster) Broadcast(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// BroadcastState pushes a register/PC/cycle snapshot for sessionID.
func (b *Broadcaster) BroadcastState(sessionID string, regs [vm.NumRegisters]uint32, pc uint32, cycles uint64) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeState,
		SessionID: sessionID,
		State:     &StateSnapshot{PC: pc, Cycles: cycles, Regs: regs},
	})
}

// BroadcastExecution pushes a step/run/load outcome for sessionID.
func (b *Broadcaster) BroadcastExecution(sessionID string, outcome ExecutionOutcome) {
	b.Broadcast(BroadcastEvent{
		Type:      EventTypeExecution,
		SessionID: sessionID,
		Execution: &outcome,
	})
}

// Close shuts down the broadcaster and every open subscription.
func (b *Broadcaster) Close() {
	close(b.done)
}

// SubscriptionCount reports how many clients are currently subscribed.
func (b *Broadcaster) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscriptions)
}
