// Package poll implements the language vote: a fixed set of choices, a
// pick counter per choice, and an append-only log of every vote.
//
// Recording a vote and clearing the history each touch two tables; both run
// inside a single transaction so the counters and the log never disagree.
package poll
