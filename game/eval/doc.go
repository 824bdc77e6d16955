// Package eval runs a program through the simulation engine to completion
// and reduces the trajectory to a fitness score, milestone events, and a
// downsampled preview trace.
//
// The Runner couples one VM per robot to one simulation; Evaluate wraps a
// Runner with the scoring fold the solver uses as its oracle. Both are pure
// with respect to their inputs: evaluating the same program against the same
// level always produces the same result, which is what makes concurrent
// solver evaluations safe.
package eval
