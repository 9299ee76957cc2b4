package attribute

import (
	"fmt"
	"reflect"
)

// SlotKind tags the content of a Slot.
type SlotKind uint8

const (
	// Missing means the attribute never had a value, or a getter could not
	// compute one.
	Missing SlotKind = iota
	// Deleted means the value was explicitly removed.
	Deleted
	// Present means the slot holds a value.
	Present
)

func (k SlotKind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Deleted:
		return "deleted"
	case Present:
		return "present"
	default:
		return fmt.Sprintf("slot(%d)", k)
	}
}

// Slot holds an attribute value or the reason there is none.
// The zero Slot is Missing.
type Slot struct {
	kind  SlotKind
	value any
}

// Value returns a Present slot holding v. A nil v is a valid value.
func Value(v any) Slot {
	return Slot{kind: Present, value: v}
}

// DeletedSlot returns a Deleted slot.
func DeletedSlot() Slot {
	return Slot{kind: Deleted}
}

// Kind returns the slot tag.
func (s Slot) Kind() SlotKind { return s.kind }

// Get returns the value and whether the slot holds one.
func (s Slot) Get() (any, bool) {
	return s.value, s.kind == Present
}

// IsPresent reports whether the slot holds a value.
func (s Slot) IsPresent() bool { return s.kind == Present }

func (s Slot) String() string {
	if s.kind == Present {
		return fmt.Sprintf("%v", s.value)
	}
	return "<" + s.kind.String() + ">"
}

// Equal compares two slots by tag and, when present, by value.
func (s Slot) Equal(o Slot) bool {
	if s.kind != o.kind {
		return false
	}
	if s.kind != Present {
		return true
	}
	return Equal(s.value, o.value)
}

// Equal compares attribute values. Comparable values use ==, which means
// pointers (and therefore model objects) compare by identity; everything else
// falls back to reflect.DeepEqual.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return safeEqual(a, b)
	}
	return reflect.DeepEqual(a, b)
}

// safeEqual guards against interface-typed fields holding uncomparable values.
func safeEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return a == b
}
