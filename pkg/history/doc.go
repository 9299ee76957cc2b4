// Package history records commands in bounded undo/redo stacks.
//
// Running an undoable command clears the redo stack, executes it and pushes
// it onto the undo stack, evicting the oldest commands beyond the size bound.
// Running a command that cannot be undone discards the whole history, since
// nothing recorded before it can be reverted safely anymore. Any failure
// while executing flushes the history as well, so a half-applied command is
// never reachable through undo or redo.
//
// Batch groups the commands run inside a callback into one undo step.
// SetIndex walks one command at a time and announces each step on Emitter.
package history
