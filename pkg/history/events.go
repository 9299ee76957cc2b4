package history

// IndexChangedEvent is emitted on the history emitter for every single step
// of an index change.
type IndexChangedEvent struct {
	History *History
	Old     int
	New     int
}

// Equal compares the history by identity and the indices by value.
func (e IndexChangedEvent) Equal(o IndexChangedEvent) bool {
	return e.History == o.History && e.Old == o.Old && e.New == o.New
}

// Hooks lets callers observe history activity without subscribing to events.
type Hooks struct {
	OnRun         func(name string, undoable bool)
	OnFlush       func(discarded int)
	OnIndexChange func(old, new int)
}
