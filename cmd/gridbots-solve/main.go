// Command gridbots-solve runs the beam-search solver against a level file
// from the shell, without going through the HTTP server. It also replays a
// program JSON file tick by tick so solver output can be inspected visually.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/eval"
	"github.com/wricardo/gridbots/game/program"
	"github.com/wricardo/gridbots/game/solver"
)

func main() {
	cmd := &cli.Command{
		Name:  "gridbots-solve",
		Usage: "search for and replay gridbots programs",
		Commands: []*cli.Command{
			{
				Name:      "solve",
				Usage:     "beam-search a program for a level file",
				ArgsUsage: "<level.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "tuning",
						Usage: "YAML tuning file for search and eval budgets",
					},
					&cli.IntFlag{
						Name:  "beam",
						Usage: "beam width (overrides tuning)",
					},
					&cli.IntFlag{
						Name:  "depth",
						Usage: "maximum program length (overrides tuning)",
					},
					&cli.IntFlag{
						Name:  "attempts",
						Usage: "evaluation budget (overrides tuning)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "worker pool size (overrides tuning)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "emit the result as JSON instead of text",
					},
					&cli.BoolFlag{
						Name:  "quiet",
						Usage: "suppress progress lines",
					},
				},
				Action: runSolve,
			},
			{
				Name:      "replay",
				Usage:     "replay a program JSON file against a level, printing each tick",
				ArgsUsage: "<level.json> <program.json>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max-ticks",
						Usage: "tick cap for the replay (defaults to the level budget)",
					},
				},
				Action: runReplay,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runSolve(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one level file argument")
	}

	level, err := engine.LoadLevelConfig(cmd.Args().Get(0))
	if err != nil {
		return err
	}

	var searchOpts solver.Options
	var evalOpts eval.Options
	if path := cmd.String("tuning"); path != "" {
		tuning, err := solver.LoadTuning(path)
		if err != nil {
			return err
		}
		searchOpts = tuning.Search
		evalOpts = tuning.EvalOptions()
	}

	// Flag overrides beat the tuning file
	if v := cmd.Int("beam"); v > 0 {
		searchOpts.BeamWidth = v
	}
	if v := cmd.Int("depth"); v > 0 {
		searchOpts.MaxDepth = v
	}
	if v := cmd.Int("attempts"); v > 0 {
		searchOpts.MaxAttempts = v
	}
	if v := cmd.Int("workers"); v > 0 {
		searchOpts.Workers = v
	}

	var onProgress solver.ProgressFunc
	if !cmd.Bool("quiet") && !cmd.Bool("json") {
		onProgress = func(p solver.Progress) {
			fmt.Printf("[solve] attempts=%d depth=%d best=%d elapsed=%dms\n",
				p.Attempts, p.Depth, p.BestScore, p.ElapsedMs)
		}
	}

	result := solver.Search(ctx, level, evalOpts, searchOpts, onProgress)

	if cmd.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("\nLevel: %s\n", level.Name)
	if result.Solved {
		fmt.Println("Result: SOLVED")
	} else {
		fmt.Println("Result: not solved within budget")
	}
	fmt.Printf("Score: %d\nAttempts: %d\nElapsed: %dms\n", result.BestScore, result.Attempts, result.ElapsedMs)
	if result.BestProgram != nil {
		fmt.Printf("Program: %s\n", result.BestProgram.String())
		data, err := json.MarshalIndent(result.BestProgram, "", "  ")
		if err == nil {
			fmt.Printf("\nProgram JSON:\n%s\n", data)
		}
	}

	if !result.Solved {
		os.Exit(2)
	}
	return nil
}

func runReplay(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected level and program file arguments")
	}

	level, err := engine.LoadLevelConfig(cmd.Args().Get(0))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cmd.Args().Get(1))
	if err != nil {
		return err
	}
	prog, err := program.Decode(data)
	if err != nil {
		return err
	}

	runner := eval.NewRunner(level, prog, 0)
	state := runner.State

	maxTicks := cmd.Int("max-ticks")
	if maxTicks <= 0 {
		maxTicks = state.MaxSteps
	}

	fmt.Printf("Level: %s\nProgram: %s\n", level.Name, prog.String())
	printFrame(state)

	for state.Status == engine.StatusRunning && state.StepCount < maxTicks {
		runner.Tick()
		printFrame(state)
		if state.Status == engine.StatusRunning && runner.ControllersIdle() {
			fmt.Println("All controllers idle, stopping replay.")
			break
		}
	}

	switch state.Status {
	case engine.StatusWon:
		fmt.Printf("SOLVED in %d ticks (%d/%d saved)\n", state.StepCount, state.SavedCount(), state.RequiredSaved)
	case engine.StatusLost:
		fmt.Printf("FAILED after %d ticks (%d/%d saved)\n", state.StepCount, state.SavedCount(), state.RequiredSaved)
	default:
		fmt.Printf("Stopped after %d ticks, still running (%d/%d saved)\n", state.StepCount, state.SavedCount(), state.RequiredSaved)
	}
	return nil
}

// printFrame renders one tick: the grid with robots overlaid as their facing
// letter, plus a one-line status.
func printFrame(state *engine.SimState) {
	fmt.Printf("--- tick %d ---\n", state.StepCount)

	rows := engine.LayoutFromGrid(state.Grid)
	overlay := make([][]byte, len(rows))
	for y, row := range rows {
		overlay[y] = []byte(row)
	}
	for _, r := range state.Robots {
		if !r.Blocking() {
			continue
		}
		if r.Pos.Y >= 0 && r.Pos.Y < len(overlay) && r.Pos.X >= 0 && r.Pos.X < len(overlay[r.Pos.Y]) {
			overlay[r.Pos.Y][r.Pos.X] = r.Dir.String()[0]
		}
	}
	for _, row := range overlay {
		fmt.Println(string(row))
	}

	fmt.Printf("saved=%d/%d active=%d status=%s\n",
		state.SavedCount(), state.RequiredSaved, state.ActiveCount(), state.Status)
}
