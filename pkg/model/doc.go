/*
Package model binds attribute state, the hierarchy, the broadcaster and the
history into models whose every change goes through Base.Dispatch.

A Graph owns the hierarchy. Objects are created from an attribute class,
lists hold ordered values:

	g := model.NewGraph()
	ada, _ := g.NewObject(person, attribute.Set("first", "Ada"), attribute.Set("last", "Byron"))
	ada.Set("full_name", "Ada Lovelace")

Listeners on InternalEvents may reject a change at PhaseInternalPre, leaving
the model untouched. Listeners on Events observe PhasePre and PhasePost
around the mutation, including the ones replayed by undo and redo.
*/
package model
