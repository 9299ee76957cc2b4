// Package attribute implements typed object attributes and the transactional
// engine that keeps derived attributes in sync.
//
// Attributes are declared with a fluent Builder and placed on a class:
//
//	person := attribute.NewClass("Person").
//		Add("first", attribute.Plain().Type(schema.String())).
//		Add("last", attribute.Plain().Type(schema.String())).
//		Add("full_name", attribute.Delegated().Getter(func(a *attribute.Access) (any, error) {
//			first, err := a.Get("first")
//			if err != nil {
//				return nil, err
//			}
//			last, err := a.Get("last")
//			if err != nil {
//				return nil, err
//			}
//			return first.(string) + " " + last.(string), nil
//		}, attribute.Gets("first", "last"))).
//		MustBuild()
//
// Build validates every declaration up front, rejects getter dependency
// cycles and resolves constants (getters that depend on nothing but other
// constants).
//
// A State holds the slots of one object. Mutations happen in two steps:
// Prepare stages an ordered list of requests, running setter and deleter
// delegates against an Access view limited to their declared dependencies
// and recomputing every dependent getter; Commit applies the result. Nothing
// changes until Commit, so a failing delegate or type check leaves the state
// untouched. Writes that leave a slot equal to its committed value are
// dropped from the Update.
//
// When several delegates in one Prepare write the same attribute, requests
// are applied in order and the last write wins.
package attribute
