// Package solver searches program-space for a program that satisfies a
// level, using the evaluator as its oracle.
//
// The strategy is a breadth-bounded beam search over flat action sequences:
// keep the top-K candidates per depth, expand each by every vocabulary
// action, evaluate all children, and truncate. Budgets cover attempts,
// wall-clock time, and program length. Tie-breaking is by stable insertion
// order and child evaluation writes into an indexed slice, so the program
// returned is independent of how many workers ran the evaluations.
package solver
