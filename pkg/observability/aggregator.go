package observability

import (
	"github.com/aretw0/modelo/pkg/broadcast"
)

// Record is one event observed by an Aggregator.
type Record struct {
	Source string
	Phase  broadcast.Phase
	Event  any
}

// Aggregator combines the events of several emitters into a single log.
// With a limit set, the oldest records are evicted first.
type Aggregator struct {
	limit   int
	records []Record
	tokens  []*broadcast.Token
}

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithLimit bounds the number of records kept. Zero keeps everything.
func WithLimit(n int) AggregatorOption {
	return func(a *Aggregator) {
		a.limit = max(n, 0)
	}
}

// NewAggregator creates an empty aggregator.
func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Watch subscribes to e, tagging its records with source.
func (a *Aggregator) Watch(source string, e *broadcast.Emitter) *broadcast.Token {
	tok := e.Subscribe(broadcast.ListenerFunc(func(event any, phase broadcast.Phase) broadcast.Result {
		a.add(Record{Source: source, Phase: phase, Event: event})
		return broadcast.Continue
	}))
	a.tokens = append(a.tokens, tok)
	return tok
}

func (a *Aggregator) add(r Record) {
	a.records = append(a.records, r)
	if a.limit > 0 && len(a.records) > a.limit {
		a.records = a.records[len(a.records)-a.limit:]
	}
}

// Records returns a copy of the recorded events, oldest first.
func (a *Aggregator) Records() []Record {
	return append([]Record(nil), a.records...)
}

// Len returns the number of records kept.
func (a *Aggregator) Len() int { return len(a.records) }

// Reset drops every record.
func (a *Aggregator) Reset() { a.records = nil }

// Close releases every subscription.
func (a *Aggregator) Close() {
	for _, tok := range a.tokens {
		tok.Release()
	}
	a.tokens = nil
}
