package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerarena/internal/game"
)

// ErrBadResponse is returned when the model's reply cannot be turned into a
// decision.
var ErrBadResponse = errors.New("unusable model response")

// RemoteConfig describes an OpenAI-compatible chat completions endpoint
type RemoteConfig struct {
	BaseURL     string        // e.g. https://api.openai.com/v1
	APIKey      string        // Sent as a bearer token when set
	Model       string        // Model name passed through to the endpoint
	Temperature float64       // Sampling temperature
	MaxTokens   int           // Completion token limit; 0 leaves it to the server
	Timeout     time.Duration // Per-request timeout; 0 means no extra limit
	RecentLog   int           // Activity log entries included in the prompt
}

// Remote asks a language model for each decision
type Remote struct {
	cfg    RemoteConfig
	client *http.Client
	logger *log.Logger
	clock  quartz.Clock
}

// RemoteOption configures a Remote agent
type RemoteOption func(*Remote)

// WithHTTPClient sets the client used for requests
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *Remote) {
		r.client = client
	}
}

// WithRemoteLogger sets the logger
func WithRemoteLogger(logger *log.Logger) RemoteOption {
	return func(r *Remote) {
		r.logger = logger.WithPrefix("remote")
	}
}

// WithRemoteClock sets the clock used to time requests
func WithRemoteClock(clock quartz.Clock) RemoteOption {
	return func(r *Remote) {
		r.clock = clock
	}
}

// NewRemote creates a remote model agent
func NewRemote(cfg RemoteConfig, opts ...RemoteOption) *Remote {
	if cfg.RecentLog == 0 {
		cfg.RecentLog = 12
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	r := &Remote{cfg: cfg}
	for _, opt := range opts {
		opt(r)
	}
	if r.client == nil {
		r.client = &http.Client{}
	}
	if r.logger == nil {
		r.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if r.clock == nil {
		r.clock = quartz.NewReal()
	}
	return r
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat map[string]any `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// modelDecision accepts both the camelCase fields the prompt asks for and the
// snake_case and "decision" spellings models tend to produce.
type modelDecision struct {
	Action            string          `json:"action"`
	Decision          string          `json:"decision"`
	BetAmount         json.RawMessage `json:"betAmount"`
	Amount            json.RawMessage `json:"amount"`
	ChainOfThought    string          `json:"chainOfThought"`
	Reasoning         string          `json:"reasoning"`
	ReasoningSummary  string          `json:"reasoningSummary"`
	ReasoningSummary2 string          `json:"reasoning_summary"`
	Emotion           string          `json:"emotion"`
}

// Decide sends the seat's view to the model and parses its reply
func (r *Remote) Decide(ctx context.Context, seat game.Player, state game.GameState) (game.Decision, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	start := r.clock.Now()
	content, err := r.complete(ctx, BuildPrompt(seat, state, r.cfg.RecentLog))
	if err != nil {
		return game.Decision{}, err
	}

	d, err := ParseDecision(content)
	if err != nil {
		return game.Decision{}, err
	}
	r.logger.Debug("Model decision",
		"player", seat.Name,
		"model", r.cfg.Model,
		"action", d.Action,
		"amount", d.BetAmount,
		"elapsed", r.clock.Since(start))
	return d, nil
}

func (r *Remote) complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: r.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    r.cfg.Temperature,
		MaxTokens:      r.cfg.MaxTokens,
		ResponseFormat: map[string]any{"type": "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read model response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("model http %d: %s", resp.StatusCode, truncate(string(data), 400))
	}

	var cc chatResponse
	if err := json.Unmarshal(data, &cc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrBadResponse)
	}
	return cc.Choices[0].Message.Content, nil
}

// ParseDecision extracts a decision from model output. The JSON object may be
// wrapped in prose or a code fence.
func ParseDecision(content string) (game.Decision, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return game.Decision{}, fmt.Errorf("%w: no JSON object in %q", ErrBadResponse, truncate(content, 200))
	}

	var md modelDecision
	if err := json.Unmarshal([]byte(content[start:end+1]), &md); err != nil {
		return game.Decision{}, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	text := md.Action
	if text == "" {
		text = md.Decision
	}
	action, ok := game.ParseAction(text)
	if !ok {
		action, ok = actionFromProse(text)
	}
	if !ok {
		return game.Decision{}, fmt.Errorf("%w: unknown action %q", ErrBadResponse, text)
	}

	amount := parseAmount(md.BetAmount)
	if amount == 0 {
		amount = parseAmount(md.Amount)
	}
	thoughts := md.ChainOfThought
	if thoughts == "" {
		thoughts = md.Reasoning
	}
	summary := md.ReasoningSummary
	if summary == "" {
		summary = md.ReasoningSummary2
	}

	return game.Decision{
		Action:           action,
		BetAmount:        amount,
		ChainOfThought:   thoughts,
		ReasoningSummary: summary,
		Emotion:          game.ParseEmotion(md.Emotion),
	}, nil
}

// actionFromProse finds an action word in a sentence such as "I will call."
func actionFromProse(text string) (game.Action, bool) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "all in") || strings.Contains(lower, "all-in") {
		return game.AllIn, true
	}
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	}) {
		if a, ok := game.ParseAction(word); ok {
			return a, true
		}
	}
	return "", false
}

// parseAmount accepts a number, a numeric string or null
func parseAmount(raw json.RawMessage) int {
	if len(raw) == 0 || string(raw) == "null" {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return max(int(f), 0)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimPrefix(strings.TrimSpace(s), "$")
		var v int
		if _, err := fmt.Sscanf(s, "%d", &v); err == nil {
			return max(v, 0)
		}
	}
	return 0
}

// truncate shortens s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "…"
}
