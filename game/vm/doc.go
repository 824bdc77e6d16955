// Package vm interprets program trees one action at a time.
//
// Every robot runs its own VM over the same shared program. A VM is an
// explicit, clonable frame-stack value: structural control nodes resolve
// eagerly and cost nothing, only action leaves consume a step and yield
// control back to the simulation. Exhausting the step budget parks the VM in
// the step_limit status; running off the end of the program parks it in
// done. Either way the robot simply stops contributing actions.
package vm
