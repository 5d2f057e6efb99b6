// Package harness runs friendship scenarios against the real graph engine.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	users:
//	  - username: alice
//	    firstname: Alice
//	    friends: [bob]
//	flow:
//	  - op: send
//	    actor: alice
//	    target: carol
//	    expect:
//	      applied: true
//	      to: outgoing
//	  - op: send
//	    actor: alice
//	    target: dave
//	    fail_target_write: true
//	    expect:
//	      error: partial_write
//	  - op: retry
//	assertions:
//	  - type: lists
//	    user: alice
//	    sent: [carol, dave]
//	  - type: consistent
//
// A step without an expect clause must succeed. fail_target_write makes the
// second storage write of that step fail, leaving the pair one-sided; the
// retry op then finishes the most recent partial write.
//
// # Assertion Types
//
//   - lists: compares a user's friends, sent and/or received lists exactly
//   - suggestions: compares the usernames suggested to a user, in order
//   - state: compares the relationship state of user toward other
//   - consistent: requires the final collection to have no anomalies
//
// # Deterministic Testing
//
// Every scenario runs in a fresh in-memory SQLite store with sequential
// operation ids (op-1, op-2, ...) and a logical clock stamping each step, so
// two runs produce identical traces for golden comparison.
package harness
