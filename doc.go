/*
Package modelo is a reactive object model: objects whose attributes are declared once, observed through phase-tagged events and changed through undoable commands.

It separates the declaration of a class (Attributes) from the live objects built from it (Models) and from the record of their changes (History). Every mutation is dispatched the same way, so listeners, the parent/child hierarchy and undo/redo stay consistent no matter which attribute or list operation triggered it.

# Concept

A class lists plain attributes, which store values, and delegated attributes, whose getter, setter and deleter functions declare the attributes they read and write. Objects of a class live in a graph that tracks which object owns which: assigning a model to a parent attribute adopts it, and a model can have one parent at a time. Changes are announced on an internal emitter, where listeners may veto them, and on a public emitter, where they are observed before and after they apply.

# Key Features

  - Atomic Updates: A batch of sets and deletes validates completely before anything changes.
  - Derived Values: Delegated attributes recompute from their declared dependencies.
  - Veto Listeners: Internal listeners can reject a change before it happens.
  - Undo and Redo: Changes are recorded as commands, grouped into batches when needed.
  - Declarations as Data: Classes can be loaded from YAML or JSON files bound to registered Go functions.

# Usage

Create a Runtime, load or register classes, then edit objects. The shared history records every change made after an object is created.

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/modelo"
		"github.com/aretw0/modelo/pkg/attribute"
	)

	func main() {
		counter := attribute.NewClass("Counter").
			Add("count", attribute.Plain().Default(0)).
			MustBuild()

		rt, err := modelo.New(modelo.WithClasses(counter))
		if err != nil {
			log.Fatal(err)
		}

		c, err := rt.NewObject("Counter")
		if err != nil {
			log.Fatal(err)
		}
		_ = c.Set("count", 1)
		_ = rt.Undo()
		fmt.Println(c) // Counter(count=0)
	}
*/
package modelo
