// Package hierarchy maintains the parent/child ownership tree of model
// objects.
//
// Nodes live in a generational arena. A node references its parent (and the
// last parent it ever had) by Handle, so freeing a parent never keeps it
// alive through its children: their parent handle simply stops resolving.
// Children are owned by the parent node.
//
// Changes are two-phase. PrepareChildren validates a multiset of adoptions
// (+1) and releases (-1) against the single-parent and no-cycle invariants
// without touching the tree; UpdateChildren applies the resulting
// ChildrenUpdates. Tree is NOT safe for concurrent use.
package hierarchy
