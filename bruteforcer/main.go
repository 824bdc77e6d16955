// Command bruteforcer plays the gridbots REST API from the outside: it
// creates a session, then submits candidate programs one after another until
// one of them wins the level. It talks only HTTP and shares no code with the
// server, so it doubles as an end-to-end exercise of the public API.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type SimState struct {
	Status        string  `json:"status"`
	StepCount     int     `json:"step_count"`
	MaxSteps      int     `json:"max_steps"`
	RequiredSaved int     `json:"required_saved"`
	Robots        []Robot `json:"robots"`
	LevelName     string  `json:"level_name"`
}

type Robot struct {
	ID          int  `json:"id"`
	Alive       bool `json:"alive"`
	ReachedGoal bool `json:"reached_goal"`
}

func (s *SimState) SavedCount() int {
	count := 0
	for _, r := range s.Robots {
		if r.ReachedGoal {
			count++
		}
	}
	return count
}

type SessionResponse struct {
	ID       string    `json:"id"`
	LevelID  string    `json:"level_id"`
	SimState *SimState `json:"sim_state"`
}

type RunResponse struct {
	SimState      *SimState `json:"sim_state"`
	TicksExecuted int       `json:"ticks_executed"`
	Solved        bool      `json:"solved"`
	Message       string    `json:"message"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) CreateSession(levelID string) (*SimState, error) {
	var reqBody []byte
	var err error

	if levelID != "" {
		reqBody, err = json.Marshal(map[string]string{"level_id": levelID})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return session.SimState, nil
}

func (c *Client) SetProgram(prog []Node) (*SimState, error) {
	body, err := json.Marshal(map[string]interface{}{"program": prog})
	if err != nil {
		return nil, fmt.Errorf("marshal program: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/program", c.baseURL, c.sessionID)
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("set program: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("set program failed: %s - %s", resp.Status, string(respBody))
	}

	var session SessionResponse
	if err := json.Unmarshal(respBody, &session); err != nil {
		return nil, fmt.Errorf("parse program response: %w", err)
	}

	return session.SimState, nil
}

func (c *Client) Run() (*RunResponse, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/run", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBufferString("{}"))
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("run failed: %s - %s", resp.Status, string(body))
	}

	var runResp RunResponse
	if err := json.Unmarshal(body, &runResp); err != nil {
		return nil, fmt.Errorf("parse run response: %w", err)
	}

	return &runResp, nil
}

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "Game server URL")
	levelID := flag.String("level", "", "Level to attack (default: server default)")
	maxDepth := flag.Int("max-depth", 8, "Maximum flat program length to enumerate")
	maxAttempts := flag.Int("max-attempts", 5000, "Maximum programs to try before giving up")
	verbose := flag.Bool("v", false, "Verbose output")
	delayMs := flag.Int("delay", 0, "Delay between attempts in milliseconds (0 = no delay)")
	flag.Parse()

	log.Printf("Connecting to game server at %s", *serverURL)
	client := NewClient(*serverURL)

	state, err := client.CreateSession(*levelID)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	log.Printf("✨ Session created: %s (level %q)", client.sessionID, state.LevelName)
	log.Printf("Win condition: save %d within %d ticks", state.RequiredSaved, state.MaxSteps)

	strategy := NewSystematicStrategy(*maxDepth)

	bestSaved := 0
	attemptNum := 0
	for attemptNum < *maxAttempts {
		prog, ok := strategy.Next()
		if !ok {
			log.Printf("⚠️  Enumeration exhausted at depth %d", *maxDepth)
			break
		}
		attemptNum++

		if _, err := client.SetProgram(prog); err != nil {
			log.Fatalf("Failed to install program: %v", err)
		}

		result, err := client.Run()
		if err != nil {
			log.Fatalf("Failed to run program: %v", err)
		}

		saved := result.SimState.SavedCount()
		if saved > bestSaved {
			bestSaved = saved
			log.Printf("📈 Attempt %d: new best, %d/%d saved with %s",
				attemptNum, saved, result.SimState.RequiredSaved, describeProgram(prog))
		} else if *verbose && attemptNum%100 == 0 {
			log.Printf("Attempt %d: status=%s ticks=%d (best saved %d)",
				attemptNum, result.SimState.Status, result.TicksExecuted, bestSaved)
		}

		if result.Solved {
			log.Printf("\n🎉 SOLVED in attempt %d after %d ticks!", attemptNum, result.TicksExecuted)
			log.Printf("Program: %s", describeProgram(prog))
			data, _ := json.Marshal(prog)
			fmt.Println(string(data))
			os.Exit(0)
		}

		if *delayMs > 0 {
			time.Sleep(time.Duration(*delayMs) * time.Millisecond)
		}
	}

	log.Printf("\n❌ Failed to solve after %d attempts (best: %d saved)", attemptNum, bestSaved)
	log.Printf("Session: %s", client.sessionID)
	os.Exit(1)
}
