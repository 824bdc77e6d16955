package eval

import (
	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/program"
	"github.com/wricardo/gridbots/game/vm"
)

// Runner binds one program to one simulation: every robot gets its own VM
// over the shared program tree, created lazily when the robot first needs an
// action and kept for the robot's lifetime.
type Runner struct {
	Level      *engine.LevelConfig
	State      *engine.SimState
	Program    *program.Program
	VMMaxSteps int
	vms        map[int]*vm.VM
}

// NewRunner creates a runner with a fresh simulation state for the level.
// A nil program is allowed; robots then simply wait.
func NewRunner(level *engine.LevelConfig, prog *program.Program, vmMaxSteps int) *Runner {
	if vmMaxSteps <= 0 {
		vmMaxSteps = vm.DefaultMaxSteps
	}
	return &Runner{
		Level:      level,
		State:      engine.InitSimStateFromConfig(level),
		Program:    prog,
		VMMaxSteps: vmMaxSteps,
		vms:        make(map[int]*vm.VM),
	}
}

// Tick collects one action per living robot from its VM and advances the
// simulation one step.
func (r *Runner) Tick() {
	if r.State.Status != engine.StatusRunning {
		return
	}

	actions := make(map[int]engine.Action)
	for _, robot := range r.State.Robots {
		if !robot.Blocking() {
			continue
		}
		machine := r.vms[robot.ID]
		if machine == nil {
			machine = vm.New(r.Program, r.VMMaxSteps)
			r.vms[robot.ID] = machine
		}
		if action, ok := machine.Step(vm.Context{State: r.State, Robot: robot}); ok {
			actions[robot.ID] = action
		}
	}

	r.State.Tick(actions)
}

// VMStatus returns the VM status for a robot. Robots whose VM has not been
// created yet report running, since they have a whole program ahead of them.
func (r *Runner) VMStatus(robotID int) vm.Status {
	if machine, ok := r.vms[robotID]; ok {
		return machine.Status
	}
	return vm.StatusRunning
}

// ControllersIdle reports whether no further state change is possible:
// every blocking robot's VM has finished, no spawns remain, and no raft is
// still ferrying a rider or owing a return trip. Callers use it to cut runs
// short instead of idling to the tick ceiling. The raft condition matters:
// a robot whose program ends while riding is still being carried, and the
// run must not be cut before the raft delivers it.
func (r *Runner) ControllersIdle() bool {
	if r.State.SpawnsRemaining() {
		return false
	}
	if !r.State.RaftsSettled() {
		return false
	}
	for _, robot := range r.State.Robots {
		if !robot.Blocking() {
			continue
		}
		machine, ok := r.vms[robot.ID]
		if !ok || machine.Status == vm.StatusRunning {
			return false
		}
	}
	return true
}

// Reset rebuilds the simulation and discards all VM state, keeping the
// current program.
func (r *Runner) Reset() {
	r.State = engine.InitSimStateFromConfig(r.Level)
	r.vms = make(map[int]*vm.VM)
}

// SetProgram swaps the program and resets the run.
func (r *Runner) SetProgram(prog *program.Program) {
	r.Program = prog
	r.Reset()
}
