package broadcast

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/aretw0/modelo/internal/arena"
)

// Listener reacts to emitted events.
type Listener interface {
	React(event any, phase Phase) Result
}

type funcListener struct {
	fn func(event any, phase Phase) Result
}

func (f *funcListener) React(event any, phase Phase) Result {
	return f.fn(event, phase)
}

// ListenerFunc adapts a function to a Listener. Each call returns a distinct
// listener, so subscribing the result twice keeps a single subscription only
// when the same value is reused.
func ListenerFunc(fn func(event any, phase Phase) Result) Listener {
	return &funcListener{fn: fn}
}

// Option configures an Emitter.
type Option func(*Emitter)

// Internal marks the emitter as internal, allowing listeners to reject
// during PhaseInternalPre.
func Internal() Option {
	return func(e *Emitter) {
		e.internal = true
	}
}

// Emitter keeps track of listeners and emits events for them to react.
type Emitter struct {
	internal  bool
	listeners *arena.Arena[*Token]
	index     map[Listener]arena.Handle

	emitting bool
	event    any
	phase    Phase
	pending  []arena.Handle
	forced   Result
}

// NewEmitter creates an emitter.
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{
		listeners: arena.New[*Token](),
		index:     make(map[Listener]arena.Handle),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// IsInternal reports whether the emitter accepts rejections.
func (e *Emitter) IsInternal() bool { return e.internal }

// Len returns the number of live subscriptions.
func (e *Emitter) Len() int { return e.listeners.Len() }

// Emitting returns the event and phase being emitted, if any.
func (e *Emitter) Emitting() (event any, phase Phase, ok bool) {
	return e.event, e.phase, e.emitting
}

// SubscribeOption configures a subscription.
type SubscribeOption func(*subscribeConfig)

type subscribeConfig struct {
	immediate bool
}

// Immediately makes a listener subscribed during an emission react to it too.
func Immediately() SubscribeOption {
	return func(c *subscribeConfig) {
		c.immediate = true
	}
}

func hashable(l Listener) bool {
	t := reflect.TypeOf(l)
	return t != nil && t.Comparable()
}

// Subscribe registers l and returns its token. Subscribing a listener that
// is already registered returns the existing token. A nil listener is never
// registered and gets an inactive token.
func (e *Emitter) Subscribe(l Listener, opts ...SubscribeOption) *Token {
	if l == nil {
		return &Token{id: uuid.New(), emitter: e}
	}
	var cfg subscribeConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if hashable(l) {
		if h, ok := e.index[l]; ok {
			tok, _ := e.listeners.Get(h)
			return tok
		}
	}
	tok := &Token{id: uuid.New(), emitter: e, listener: l}
	tok.handle = e.listeners.Alloc(tok)
	if hashable(l) {
		e.index[l] = tok.handle
	}
	if cfg.immediate && e.emitting {
		e.pending = append(e.pending, tok.handle)
	}
	return tok
}

// Token returns the subscription token of l, if subscribed.
func (e *Emitter) Token(l Listener) (*Token, bool) {
	if !hashable(l) {
		return nil, false
	}
	h, ok := e.index[l]
	if !ok {
		return nil, false
	}
	return e.listeners.Get(h)
}

func (e *Emitter) release(tok *Token) bool {
	if !e.listeners.Free(tok.handle) {
		return false
	}
	if hashable(tok.listener) {
		delete(e.index, tok.listener)
	}
	e.dropPending(tok.handle)
	return true
}

func (e *Emitter) dropPending(h arena.Handle) bool {
	for i, p := range e.pending {
		if p == h {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Emit delivers event to every listener. It returns false when a listener
// rejected the event.
func (e *Emitter) Emit(event any, phase Phase) (accepted bool, err error) {
	if event == nil {
		return false, ErrNilEvent
	}
	if e.emitting {
		return false, fmt.Errorf("%w %T, cannot emit %T", ErrAlreadyEmitting, e.event, event)
	}

	e.emitting = true
	e.event = event
	e.phase = phase
	e.forced = Continue
	e.pending = e.pending[:0]
	e.listeners.All(func(h arena.Handle, _ *Token) bool {
		e.pending = append(e.pending, h)
		return true
	})

	var cleanup func()
	defer func() {
		e.emitting = false
		e.event = nil
		e.pending = e.pending[:0]
		e.forced = Continue
		if cleanup != nil {
			cleanup()
		}
	}()

	for len(e.pending) > 0 {
		h := e.pending[0]
		e.pending = e.pending[1:]
		tok, ok := e.listeners.Get(h)
		if !ok {
			continue
		}
		res := tok.listener.React(event, phase)
		if res.IsContinue() {
			res = e.forced
		}
		e.forced = Continue

		switch {
		case res.IsStop():
			return true, nil
		case res.IsReject():
			if !e.internal || phase != PhaseInternalPre {
				return false, fmt.Errorf("%w (got %s on %s emitter)", ErrPhase, phase, e.kind())
			}
			cleanup = res.cleanup
			return false, nil
		}
	}
	return true, nil
}

func (e *Emitter) kind() string {
	if e.internal {
		return "internal"
	}
	return "public"
}

// Token identifies a subscription.
type Token struct {
	id       uuid.UUID
	emitter  *Emitter
	handle   arena.Handle
	listener Listener
}

// ID returns the unique id of the subscription.
func (t *Token) ID() uuid.UUID { return t.id }

// Listener returns the subscribed listener.
func (t *Token) Listener() Listener { return t.listener }

// Active reports whether the subscription is still live.
func (t *Token) Active() bool { return t.emitter.listeners.Valid(t.handle) }

// Release unsubscribes the listener. It is dropped from an emission in
// progress as well.
func (t *Token) Release() bool {
	return t.emitter.release(t)
}

// Wait makes the token's listener react now if it has not reacted to the
// current emission yet. A Stop or Reject it returns is applied once the
// calling listener returns Continue.
func (t *Token) Wait() Result {
	e := t.emitter
	if !e.emitting || !e.listeners.Valid(t.handle) {
		return Continue
	}
	if !e.dropPending(t.handle) {
		return Continue
	}
	res := t.listener.React(e.event, e.phase)
	if !res.IsContinue() && e.forced.IsContinue() {
		e.forced = res
	}
	return res
}
