// Package schema provides the value constraints used by model attributes.
//
// A Type decides whether a value may be stored. Built-ins cover the scalar
// kinds (string, int, float, bool) and slices; Of and Exactly match against a
// Go type (assignable vs. identical dynamic type); OneOf builds a type set and
// Nullable additionally accepts nil.
//
//	age := schema.Nullable(schema.Int())
//	name := schema.OneOf(schema.String(), schema.Exactly[time.Duration]())
//
// Type expressions used in YAML declarations are resolved with ParseType:
//
//	t, err := schema.ParseType("?[string]") // nullable slice of strings
//
// Custom names can be made resolvable with Register. AggregateError is shared
// with the attribute builder, which reports every declaration problem at once.
package schema
