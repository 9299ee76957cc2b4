// Package broadcast implements phase-tagged event emission with veto.
//
// An Emitter delivers each event to every subscribed Listener once per phase.
// Listeners steer the emission through the Result they return: Continue,
// Stop (skip the remaining listeners) or Reject (veto the action; only legal
// on an internal emitter during PhaseInternalPre). A rejection's cleanup
// callback runs after the emission unwinds.
//
// Subscriptions are held in a generational arena: releasing a Token makes
// the listener unreachable immediately, including for an emission already in
// progress. Emitter is NOT safe for concurrent use.
package broadcast
