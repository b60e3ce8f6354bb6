package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/pokerarena/internal/game"
)

// Agent kinds a seat can be driven by
const (
	AgentHeuristic = "heuristic"
	AgentRemote    = "remote"
	AgentCalling   = "calling"
	AgentFolder    = "folder"
	AgentRandom    = "random"
)

// MaxSeats is the largest table the engine deals for
const MaxSeats = 10

var (
	ErrNoSeats       = errors.New("at least two seats must be configured")
	ErrTooManySeats  = fmt.Errorf("at most %d seats can be configured", MaxSeats)
	ErrUnknownAgent  = errors.New("unknown agent")
	ErrDuplicateSeat = errors.New("duplicate seat name")
)

// Config is a complete tournament description
type Config struct {
	Table  *Table  `hcl:"table,block"`
	Remote *Remote `hcl:"remote,block"`
	Seats  []Seat  `hcl:"seat,block"`
}

// Table holds the rules and pacing of the tournament
type Table struct {
	SmallBlind    int    `hcl:"small_blind,optional"`
	StartingChips int    `hcl:"starting_chips,optional"`
	PhaseDelay    string `hcl:"phase_delay,optional"`
	ActionDelay   string `hcl:"action_delay,optional"`
	ShowdownDelay string `hcl:"showdown_delay,optional"`
	Seed          int64  `hcl:"seed,optional"`
	SidePots      *bool  `hcl:"side_pots,optional"`
	EquityTrials  int    `hcl:"equity_trials,optional"`
	MaxHands      int    `hcl:"max_hands,optional"`
}

// Seat describes one player and what drives its decisions
type Seat struct {
	Name        string `hcl:"name,label"`
	Agent       string `hcl:"agent,optional"`
	Model       string `hcl:"model,optional"`
	Personality string `hcl:"personality,optional"`
	ThinkTime   string `hcl:"think_time,optional"`
}

// Remote configures the OpenAI-compatible endpoint used by remote seats
type Remote struct {
	BaseURL     string  `hcl:"base_url,optional"`
	APIKeyEnv   string  `hcl:"api_key_env,optional"`
	Model       string  `hcl:"model,optional"`
	Timeout     string  `hcl:"timeout,optional"`
	Temperature float64 `hcl:"temperature,optional"`
	MaxTokens   int     `hcl:"max_tokens,optional"`
}

// Default returns the four-seat heuristic table used when no file is given
func Default() *Config {
	c := &Config{}
	for i := 0; i < 4; i++ {
		c.Seats = append(c.Seats, Seat{Name: fmt.Sprintf("Player %d", i+1)})
	}
	c.applyDefaults()
	return c
}

// Load reads an HCL configuration file. A missing file yields Default.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and fills in defaults
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := game.DefaultConfig()

	if c.Table == nil {
		c.Table = &Table{}
	}
	t := c.Table
	if t.SmallBlind == 0 {
		t.SmallBlind = defaults.MinBet
	}
	if t.StartingChips == 0 {
		t.StartingChips = 100
	}
	if t.PhaseDelay == "" {
		t.PhaseDelay = defaults.PhaseDelay.String()
	}
	if t.ActionDelay == "" {
		t.ActionDelay = defaults.ActionDelay.String()
	}
	if t.ShowdownDelay == "" {
		t.ShowdownDelay = defaults.ShowdownDelay.String()
	}
	if t.SidePots == nil {
		on := defaults.SidePots
		t.SidePots = &on
	}
	if t.EquityTrials == 0 {
		t.EquityTrials = 500
	}

	if c.Remote == nil {
		c.Remote = &Remote{}
	}
	r := c.Remote
	if r.BaseURL == "" {
		r.BaseURL = "https://api.openai.com/v1"
	}
	if r.APIKeyEnv == "" {
		r.APIKeyEnv = "OPENAI_API_KEY"
	}
	if r.Timeout == "" {
		r.Timeout = "30s"
	}
	if r.Temperature == 0 {
		r.Temperature = 0.7
	}
	if r.MaxTokens == 0 {
		r.MaxTokens = 2000
	}

	for i := range c.Seats {
		s := &c.Seats[i]
		if s.Agent == "" {
			s.Agent = AgentHeuristic
		}
		s.Agent = strings.ToLower(s.Agent)
		if s.Agent == AgentRemote && s.Model == "" {
			s.Model = r.Model
		}
	}
}

// Validate checks the configuration is playable
func (c *Config) Validate() error {
	if len(c.Seats) < 2 {
		return ErrNoSeats
	}
	if len(c.Seats) > MaxSeats {
		return ErrTooManySeats
	}

	if c.Table == nil {
		c.applyDefaults()
	}
	t := c.Table
	if t.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", t.SmallBlind)
	}
	if t.StartingChips < 2*t.SmallBlind {
		return fmt.Errorf("starting chips %d cannot cover the big blind %d", t.StartingChips, 2*t.SmallBlind)
	}
	if t.EquityTrials < 0 {
		return fmt.Errorf("equity trials must not be negative, got %d", t.EquityTrials)
	}
	if t.MaxHands < 0 {
		return fmt.Errorf("max hands must not be negative, got %d", t.MaxHands)
	}
	for name, value := range map[string]string{
		"phase_delay":    t.PhaseDelay,
		"action_delay":   t.ActionDelay,
		"showdown_delay": t.ShowdownDelay,
	} {
		if _, err := parseDuration(value); err != nil {
			return fmt.Errorf("table %s: %w", name, err)
		}
	}
	if c.Remote != nil {
		if _, err := parseDuration(c.Remote.Timeout); err != nil {
			return fmt.Errorf("remote timeout: %w", err)
		}
	}

	valid := map[string]bool{
		AgentHeuristic: true,
		AgentRemote:    true,
		AgentCalling:   true,
		AgentFolder:    true,
		AgentRandom:    true,
	}
	seen := make(map[string]bool)
	for _, s := range c.Seats {
		if seen[s.Name] {
			return fmt.Errorf("seat %q: %w", s.Name, ErrDuplicateSeat)
		}
		seen[s.Name] = true

		if !valid[s.Agent] {
			return fmt.Errorf("seat %q: %w %q", s.Name, ErrUnknownAgent, s.Agent)
		}
		if s.Agent == AgentRemote && s.Model == "" {
			return fmt.Errorf("seat %q: remote agent needs a model", s.Name)
		}
		if _, err := parseDuration(s.ThinkTime); err != nil {
			return fmt.Errorf("seat %q think_time: %w", s.Name, err)
		}
	}
	return nil
}

// Engine converts the table block into engine settings
func (c *Config) Engine() game.Config {
	if c.Table == nil {
		c.applyDefaults()
	}
	t := c.Table
	cfg := game.Config{
		MinBet:   t.SmallBlind,
		MaxHands: t.MaxHands,
		SidePots: t.SidePots == nil || *t.SidePots,
	}
	cfg.PhaseDelay, _ = parseDuration(t.PhaseDelay)
	cfg.ActionDelay, _ = parseDuration(t.ActionDelay)
	cfg.ShowdownDelay, _ = parseDuration(t.ShowdownDelay)
	return cfg
}

// GameSeats returns the engine seat list in table order
func (c *Config) GameSeats() []game.Seat {
	seats := make([]game.Seat, len(c.Seats))
	for i, s := range c.Seats {
		label := s.Agent
		if s.Model != "" {
			label = s.Model
		}
		seats[i] = game.Seat{Name: s.Name, Personality: s.Personality, Agent: label}
	}
	return seats
}

// ThinkDuration returns the seat's artificial think time
func (s Seat) ThinkDuration() time.Duration {
	d, _ := parseDuration(s.ThinkTime)
	return d
}

// TimeoutDuration returns the HTTP timeout for remote calls
func (r Remote) TimeoutDuration() time.Duration {
	d, _ := parseDuration(r.Timeout)
	return d
}

// APIKey reads the key from the configured environment variable
func (r Remote) APIKey() string {
	return strings.TrimSpace(os.Getenv(r.APIKeyEnv))
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q must not be negative", s)
	}
	return d, nil
}
