package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/gridbots/game/engine"
	"github.com/wricardo/gridbots/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Gridbots Puzzle Game",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Gridbots Puzzle Game - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Write a block program that guides every robot from the spawner to an exit.
All robots run the SAME program in parallel, one action per tick.

AVAILABLE TOOLS:
- list_levels: List available levels
- describe_level: Show a level's layout and rules
- create_session: Create a new game session for a level
- get_session: Get session details with the rendered grid
- list_sessions: List all active sessions
- set_program: Install a block program (resets the simulation)
- step: Advance exactly one tick
- run_program: Run the program to completion
- reset_session: Rewind the session to its initial state
- solve_level: Start a background solver search for a level
- solver_status: Poll a running solver job
- cancel_solver: Cancel a running solver job
- list_progress: Show completed-level records
- program_reference: Full reference for the block program language

NOTE: The 'intent' parameter on set_program serves as rubber duck debugging - explain your reasoning!`),
	)

	// Register all tools
	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional level selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Level to load (optional, defaults to the classic level)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session including the rendered grid",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Program and execution
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_program",
		Description: "Install a block program on a session. The simulation resets so the new program starts from tick zero. Use program_reference for the node format.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"program": map[string]interface{}{
					"type":        "array",
					"description": "Program as an array of block nodes (see program_reference)",
					"items": map[string]interface{}{
						"type": "object",
					},
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of what this program is trying to do (serves as a rubber duck to help explain your reasoning)",
				},
			},
			Required: []string{"session_id", "program"},
		},
	}, c.handleSetProgram)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: "Advance the simulation by exactly one tick. Every robot executes one action of the installed program.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "run_program",
		Description: "Run the installed program until the level is won, lost, the tick budget runs out, or every robot controller goes idle",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"max_ticks": map[string]interface{}{
					"type":        "integer",
					"description": "Optional tick cap for this run (defaults to the level's budget)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleRun)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_session",
		Description: "Reset the session to its initial state, keeping the installed program",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	// Levels
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_level",
		Description: "Show a level's layout, spawner, exits, and win condition. Useful before writing a program.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Level to describe",
				},
			},
			Required: []string{"level_id"},
		},
	}, c.handleDescribeLevel)

	// Solver
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solve_level",
		Description: "Start a background beam-search solver job for a level. Returns a job ID to poll with solver_status.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level_id": map[string]interface{}{
					"type":        "string",
					"description": "Level to solve",
				},
				"beam_width": map[string]interface{}{
					"type":        "integer",
					"description": "Beam width (optional)",
				},
				"max_depth": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum program length to search (optional)",
				},
				"max_attempts": map[string]interface{}{
					"type":        "integer",
					"description": "Evaluation budget (optional)",
				},
			},
			Required: []string{"level_id"},
		},
	}, c.handleSolveLevel)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "solver_status",
		Description: "Poll a solver job for its current best program and score",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"job_id": map[string]interface{}{
					"type":        "string",
					"description": "Solver job ID",
				},
			},
			Required: []string{"job_id"},
		},
	}, c.handleSolverStatus)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "cancel_solver",
		Description: "Cancel a running solver job",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"job_id": map[string]interface{}{
					"type":        "string",
					"description": "Solver job ID",
				},
			},
			Required: []string{"job_id"},
		},
	}, c.handleCancelSolver)

	// Progress
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_progress",
		Description: "List completed levels with best tick counts and program sizes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListProgress)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "program_reference",
		Description: "Get the complete reference for the block program language: actions, conditions, and control nodes",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleProgramReference)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	levelID, _ := args["level_id"].(string)

	body := map[string]string{}
	if levelID != "" {
		body["level_id"] = levelID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %s\n\n%s",
		session.ID, session.LevelID, formatSimState(session.SimState))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Level: %s, Created: %s)\n",
			s.ID, s.LevelID, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSetProgram(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	prog := args["program"]
	intent, _ := args["intent"].(string)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"program": prog,
	}

	var session service.SessionInfo
	err := c.apiCall("PUT", fmt.Sprintf("/api/sessions/%s/program", sessionID), body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Program installed. Simulation reset to tick 0.\n\n" + formatSimState(session.SimState)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var result service.StepResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/step", sessionID), nil, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatStepResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleRun(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	body := map[string]interface{}{}
	if maxTicks, ok := args["max_ticks"].(float64); ok {
		body["max_ticks"] = int(maxTicks)
	}

	var result service.RunResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/run", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatRunResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string           `json:"message"`
		State   *engine.SimState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatSimState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	err := c.apiCall("GET", "/api/levels", nil, &levels)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Levels:\n\n"
	for _, level := range levels {
		result += fmt.Sprintf("• %s\n  %s\n  Grid: %dx%d, Robots: %d, Save: %d, Tick budget: %d\n\n",
			level.LevelID, level.Description,
			level.Width, level.Height, level.RobotCount, level.RequiredSaved, level.MaxTicks)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleDescribeLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	levelID, _ := args["level_id"].(string)

	var level engine.LevelConfig
	err := c.apiCall("GET", fmt.Sprintf("/api/levels/%s", levelID), nil, &level)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatLevel(&level)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSolveLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	levelID, _ := args["level_id"].(string)

	search := map[string]interface{}{}
	if v, ok := args["beam_width"].(float64); ok {
		search["beam_width"] = int(v)
	}
	if v, ok := args["max_depth"].(float64); ok {
		search["max_depth"] = int(v)
	}
	if v, ok := args["max_attempts"].(float64); ok {
		search["max_attempts"] = int(v)
	}

	body := map[string]interface{}{
		"level_id": levelID,
		"search":   search,
	}

	var job service.SolverJobInfo
	err := c.apiCall("POST", "/api/solve", body, &job)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Solver job started.\nJob ID: %s\nLevel: %s\nStatus: %s\n\nPoll with solver_status.",
		job.ID, job.LevelID, job.Status)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSolverStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	jobID, _ := args["job_id"].(string)

	var job service.SolverJobInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/solve/%s", jobID), nil, &job)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSolverJob(&job)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleCancelSolver(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	jobID, _ := args["job_id"].(string)

	err := c.apiCall("DELETE", fmt.Sprintf("/api/solve/%s", jobID), nil, nil)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Cancellation requested for job %s", jobID)), nil
}

func (c *Client) handleListProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var records []service.LevelProgress
	err := c.apiCall("GET", "/api/progress", nil, &records)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(records) == 0 {
		return mcp.NewToolResultText("No levels completed yet."), nil
	}

	result := "Completed Levels:\n\n"
	for _, r := range records {
		result += fmt.Sprintf("• %s — best %d ticks, program size %d (completed %s)\n",
			r.LevelID, r.BestTicks, r.ProgramSize, r.CompletedAt.Format("2006-01-02 15:04"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleProgramReference(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reference := `Gridbots Block Program Reference

A program is a JSON array of block nodes. Every robot runs the SAME
program in parallel; each tick every robot executes exactly one action.

ACTIONS (node: {"type": "action", "action": "<name>"}):
• advance - Step one cell in the facing direction. Blocked steps waste the tick.
• turn_left / turn_right - Rotate 90 degrees in place.
• wait - Do nothing this tick.
• signal_on / signal_off - Set or clear the shared global signal.

CONDITIONS (used by if and repeat_until nodes):
• ahead_clear - The cell in front can be entered (doors count as blocked until unlocked).
• left_clear / right_clear - Same check for the cells beside the robot.
• hazard_ahead - The cell in front is lethal (hazard or open water).
• on_goal - Standing on an exit cell.
• on_plate - Standing on a pressure plate.
• on_raft - Riding a raft.
• signal_on - The shared global signal is set.
• not / and / or - Combinators: {"type": "not", "cond": <cond>},
  {"type": "and", "conds": [<cond>, ...]}, same for "or".

CONTROL NODES:
• {"type": "action", "action": "advance"} - One action.
• {"type": "repeat", "times": 3, "body": [<nodes>]} - Fixed repetition.
• {"type": "repeat_until", "cond": <cond>, "body": [<nodes>]} -
  Loop until the condition holds. Checked before every iteration.
• {"type": "if", "cond": <cond>, "then": [<nodes>], "else": [<nodes>]} -
  Branch once. The else branch is optional.

EXECUTION MODEL:
• One action per robot per tick. Control nodes cost nothing.
• Each robot has its own program cursor; robots drift apart when
  conditions evaluate differently at their positions.
• A robot whose program finishes goes idle and just occupies its cell.
• Programs are capped by a per-robot step budget; runaway loops park
  the robot in a step_limit state.

GRID LEGEND:
• . - Empty floor (passable)
• # - Wall (impassable)
• G - Goal/exit (a robot stepping here is saved and leaves the grid)
• X - Hazard (blocks advance)
• W - Water (lethal to walk into; rafts float on it)
• P - Pressure plate (any robot standing on it unlocks doors)
• D - Door (blocked until a plate is pressed; stays open once unlocked)
• R - Raft (step aboard, it ferries you across water to a jetty)
• J - Jetty (raft stop)

WIN / LOSE:
• Win: the level's required number of robots reaches an exit in time.
• Lose: the tick budget runs out, or every robot is dead with no
  spawns remaining and the save target unmet.

TIPS:
• Start with a straight-line program and step through it tick by tick.
• Use repeat_until with on_goal or not ahead_clear to write programs
  that work for every robot regardless of spawn timing.
• The global signal is shared: one robot on a plate can signal the
  others to start moving.`

	return mcp.NewToolResultText(reference), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	header := fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\n",
		session.ID, session.LevelID,
		session.CreatedAt.Format("2006-01-02 15:04:05"))
	if session.Program != nil {
		header += fmt.Sprintf("Program: %s\n", session.Program.String())
	} else {
		header += "Program: (none installed)\n"
	}
	return header + "\n" + formatSimState(session.SimState)
}

func formatSimState(state *engine.SimState) string {
	if state == nil {
		return "No simulation state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Tick: %d/%d | Saved: %d/%d | Active: %d | Status: %s\n",
		state.StepCount, state.MaxSteps,
		state.SavedCount(), state.RequiredSaved,
		state.ActiveCount(), state.Status))
	if state.DoorUnlocked {
		result.WriteString("Door: open\n")
	}
	if state.GlobalSignal {
		result.WriteString("Signal: on\n")
	}
	result.WriteString("\n")

	// Grid with robots overlaid as their facing letter
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
		result.Write(row)
		result.WriteString("\n")
	}

	// Per-robot lines
	if len(state.Robots) > 0 {
		result.WriteString("\nRobots:\n")
		for _, r := range state.Robots {
			switch {
			case r.ReachedGoal:
				result.WriteString(fmt.Sprintf("- #%d saved\n", r.ID))
			case !r.Alive:
				result.WriteString(fmt.Sprintf("- #%d dead at (%d,%d)\n", r.ID, r.Pos.X, r.Pos.Y))
			default:
				result.WriteString(fmt.Sprintf("- #%d at (%d,%d) facing %s\n", r.ID, r.Pos.X, r.Pos.Y, r.Dir))
			}
		}
	}
	if state.SpawnsRemaining() {
		result.WriteString(fmt.Sprintf("Spawns remaining: %d\n", state.Spawner.Count-state.SpawnedCount))
	}

	switch state.Status {
	case engine.StatusWon:
		result.WriteString("\n🎉 LEVEL SOLVED!")
	case engine.StatusLost:
		result.WriteString("\n💀 LEVEL FAILED")
	}

	return result.String()
}

func formatStepResult(result *service.StepResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Tick %d executed\n", result.SimState.StepCount))
	if len(result.Robots) > 0 {
		b.WriteString("Controllers: ")
		parts := make([]string, 0, len(result.Robots))
		for _, r := range result.Robots {
			parts = append(parts, fmt.Sprintf("#%d=%s", r.RobotID, r.VMStatus))
		}
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("\n")
	}
	if result.Message != "" {
		b.WriteString(result.Message)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(formatSimState(result.SimState))
	return b.String()
}

func formatRunResult(result *service.RunResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Ran %d ticks\n", result.TicksExecuted))
	if result.Solved {
		b.WriteString("Result: SOLVED\n")
	} else {
		b.WriteString(fmt.Sprintf("Result: not solved (status %s)\n", result.SimState.Status))
	}
	if result.Message != "" {
		b.WriteString(result.Message)
		b.WriteString("\n")
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- tick %d: %s\n", event.Tick, event.Type))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatSimState(result.SimState))
	return b.String()
}

func formatLevel(level *engine.LevelConfig) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Level: %s\n", level.Name))
	if level.Description != "" {
		b.WriteString(level.Description + "\n")
	}
	b.WriteString("\nLayout:\n")
	for _, row := range level.Layout {
		b.WriteString(row + "\n")
	}

	b.WriteString(fmt.Sprintf("\nSpawner: (%d,%d) facing %s, %d robot(s)",
		level.Spawner.X, level.Spawner.Y, level.Spawner.Direction, level.Spawner.Count))
	if level.Spawner.IntervalTicks > 0 {
		b.WriteString(fmt.Sprintf(", one every %d tick(s)", level.Spawner.IntervalTicks))
	} else {
		b.WriteString(", all at tick 0")
	}
	b.WriteString("\n")

	required := level.RequiredSaved
	if required == 0 {
		required = engine.DefaultRequiredSaved
	}
	maxTicks := level.MaxTicks
	if maxTicks == 0 {
		maxTicks = engine.DefaultMaxTicks
	}
	b.WriteString(fmt.Sprintf("Win: save %d robot(s) within %d ticks\n", required, maxTicks))

	if len(level.Exits) > 0 {
		b.WriteString("Exits:")
		for _, e := range level.Exits {
			b.WriteString(fmt.Sprintf(" (%d,%d)", e.X, e.Y))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func formatSolverJob(job *service.SolverJobInfo) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Job: %s\nLevel: %s\nStatus: %s\n", job.ID, job.LevelID, job.Status))
	b.WriteString(fmt.Sprintf("Attempts: %d | Depth: %d | Best score: %d | Elapsed: %dms\n",
		job.Attempts, job.Depth, job.BestScore, job.ElapsedMs))

	if job.BestProgram != nil {
		b.WriteString(fmt.Sprintf("\nBest program: %s\n", job.BestProgram.String()))
	}
	if job.Solved {
		b.WriteString("\nThe level is solved - install the best program with set_program.")
	}

	return b.String()
}
