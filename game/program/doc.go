// Package program defines the typed program trees a learner assembles in
// the external block editor: sequences of actions, counted and conditional
// repeats, and branches over a small boolean condition vocabulary.
//
// Trees are immutable values consumed by the interpreter in game/vm. The
// JSON codec in this package is the ingestion point for the editor's closed
// vocabulary; unknown node or condition kinds are rejected at decode time,
// so the rest of the core treats trees as well-formed by construction.
package program
