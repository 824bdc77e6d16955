package solver

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/eval"
	"github.com/wricardo/gridbots/game/program"
)

// Search defaults
const (
	DefaultMaxAttempts   = 2000
	DefaultMaxTimeMs     = 10000
	DefaultMaxDepth      = 24
	DefaultBeamWidth     = 16
	DefaultProgressEvery = 50
	DefaultWorkers       = 4
)

// Options budgets and shapes the beam search.
type Options struct {
	MaxAttempts   int `json:"max_attempts,omitempty" yaml:"max_attempts"`
	MaxTimeMs     int `json:"max_time_ms,omitempty" yaml:"max_time_ms"`
	MaxDepth      int `json:"max_depth,omitempty" yaml:"max_depth"`
	BeamWidth     int `json:"beam_width,omitempty" yaml:"beam_width"`
	ProgressEvery int `json:"progress_every,omitempty" yaml:"progress_every"`
	Workers       int `json:"workers,omitempty" yaml:"workers"`
}

// withDefaults fills unset fields.
func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.MaxTimeMs <= 0 {
		o.MaxTimeMs = DefaultMaxTimeMs
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.BeamWidth <= 0 {
		o.BeamWidth = DefaultBeamWidth
	}
	if o.ProgressEvery <= 0 {
		o.ProgressEvery = DefaultProgressEvery
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	return o
}

// Progress is an advisory snapshot streamed to the caller during a search.
// Reporting never changes the search outcome.
type Progress struct {
	Attempts    int               `json:"attempts"`
	Depth       int               `json:"depth"`
	BestScore   int               `json:"best_score"`
	Solved      bool              `json:"solved"`
	ElapsedMs   int64             `json:"elapsed_ms"`
	BestProgram *program.Program  `json:"best_program,omitempty"`
	TraceLite   []eval.TraceFrame `json:"trace_lite,omitempty"`
}

// ProgressFunc receives progress snapshots. May be nil.
type ProgressFunc func(Progress)

// Result is the terminal outcome of a search. BestProgram is always the
// fully-evaluated best candidate seen, even when the budget ran out.
type Result struct {
	Solved      bool             `json:"solved"`
	BestProgram *program.Program `json:"best_program,omitempty"`
	BestScore   int              `json:"best_score"`
	Attempts    int              `json:"attempts"`
	ElapsedMs   int64            `json:"elapsed_ms"`
}

// candidate pairs an action sequence with its evaluation.
type candidate struct {
	actions []engine.Action
	result  *eval.Result
}

// Search discovers a program satisfying the level by beam search over flat
// action sequences. The frontier starts as the empty program; each depth
// expands every frontier entry by each vocabulary action, evaluates all
// children, and keeps the top beam-width by score with ties broken by
// stable insertion order, so reruns with identical inputs are reproducible.
//
// Child evaluations fan out over a fixed worker pool writing into an
// indexed slice: the returned program is independent of the parallelism
// degree. Cancellation is cooperative, checked at candidate boundaries.
func Search(ctx context.Context, level *engine.LevelConfig, evalOpts eval.Options, opts Options, onProgress ProgressFunc) *Result {
	opts = opts.withDefaults()
	start := time.Now()
	deadline := start.Add(time.Duration(opts.MaxTimeMs) * time.Millisecond)

	outOfTime := func() bool {
		return ctx.Err() != nil || time.Now().After(deadline)
	}

	attempts := 0
	lastReport := 0

	best := &candidate{
		actions: nil,
		result:  eval.Evaluate(level, program.FromActions(nil), evalOpts),
	}
	attempts++

	report := func(depth int, force bool) {
		if onProgress == nil {
			return
		}
		if !force && attempts-lastReport < opts.ProgressEvery {
			return
		}
		lastReport = attempts
		onProgress(Progress{
			Attempts:    attempts,
			Depth:       depth,
			BestScore:   best.result.Score,
			Solved:      best.result.Solved,
			ElapsedMs:   time.Since(start).Milliseconds(),
			BestProgram: program.FromActions(best.actions),
			TraceLite:   best.result.TraceLite,
		})
	}

	finish := func() *Result {
		report(0, true)
		return &Result{
			Solved:      best.result.Solved,
			BestProgram: program.FromActions(best.actions),
			BestScore:   best.result.Score,
			Attempts:    attempts,
			ElapsedMs:   time.Since(start).Milliseconds(),
		}
	}

	if best.result.Solved {
		return finish()
	}

	frontier := []*candidate{best}

	for depth := 1; depth <= opts.MaxDepth; depth++ {
		if outOfTime() || attempts >= opts.MaxAttempts {
			break
		}

		// Expand every frontier entry by every vocabulary action, in
		// stable order. The attempt budget truncates the layer from the
		// back, never reorders it.
		children := make([]*candidate, 0, len(frontier)*len(engine.Vocabulary))
		for _, parent := range frontier {
			for _, action := range engine.Vocabulary {
				extended := make([]engine.Action, 0, len(parent.actions)+1)
				extended = append(extended, parent.actions...)
				extended = append(extended, action)
				children = append(children, &candidate{actions: extended})
			}
		}
		if remaining := opts.MaxAttempts - attempts; len(children) > remaining {
			children = children[:remaining]
		}
		if len(children) == 0 {
			break
		}

		evaluated := evaluateAll(children, level, evalOpts, opts.Workers, outOfTime)
		attempts += evaluated

		// Merge in insertion order: a strictly better score replaces the
		// best, a tie keeps the earlier candidate.
		var solvedChild *candidate
		for _, child := range children {
			if child.result == nil {
				continue
			}
			if child.result.Score > best.result.Score {
				best = child
			}
			if child.result.Solved && solvedChild == nil {
				solvedChild = child
			}
		}
		if solvedChild != nil {
			best = solvedChild
			return finish()
		}

		report(depth, false)

		// Next frontier: top beam-width by score, stable.
		next := make([]*candidate, 0, len(children))
		for _, child := range children {
			if child.result != nil {
				next = append(next, child)
			}
		}
		if len(next) == 0 {
			break
		}
		sort.SliceStable(next, func(i, j int) bool {
			return next[i].result.Score > next[j].result.Score
		})
		if len(next) > opts.BeamWidth {
			next = next[:opts.BeamWidth]
		}
		frontier = next
	}

	return finish()
}

// evaluateAll runs the candidates through the evaluator on a fixed worker
// pool. Results land in each candidate by index, so the outcome does not
// depend on scheduling. Returns the number of candidates evaluated; once
// the stop signal fires, remaining candidates are left unevaluated.
func evaluateAll(children []*candidate, level *engine.LevelConfig, evalOpts eval.Options, workers int, stop func() bool) int {
	if workers > len(children) {
		workers = len(children)
	}

	var stopped atomic.Bool
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if stopped.Load() {
					continue
				}
				child := children[idx]
				child.result = eval.Evaluate(level, program.FromActions(child.actions), evalOpts)
			}
		}()
	}

	for i := range children {
		if stop() {
			stopped.Store(true)
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	evaluated := 0
	for _, child := range children {
		if child.result != nil {
			evaluated++
		}
	}
	return evaluated
}
