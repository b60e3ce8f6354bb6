package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerarena/internal/deck"
	"github.com/lox/pokerarena/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// modelServer answers every chat completion with content
func modelServer(t *testing.T, content string, requests *[]chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if requests != nil {
			*requests = append(*requests, req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func flopTable() (game.Player, game.GameState) {
	s := game.NewGameState([]game.Seat{{Name: "Ada", Personality: "analytical"}, {Name: "Bo"}}, 500, 10)
	s.Phase = game.PhaseFlop
	s.Round = 3
	s.CommunityCards = deck.MustParseCards("Ah7d2c")
	s.Players[0].Hand = deck.MustParseCards("AsKd")
	s.Players[1].Hand = deck.MustParseCards("QhQs")
	s.Players[1].CurrentBet = 40
	s.Pot = 100
	s.ActivityLog = game.NewActivityLog(game.LogEntry{PlayerName: "Bo", Action: game.Bet, Description: "Bets $40"})
	return s.Players[0], s
}

func TestRemoteDecide(t *testing.T) {
	var requests []chatRequest
	content := "```json\n" + `{"action":"Raise","betAmount":60,"chainOfThought":"Top pair top kicker.","reasoningSummary":"Value raise","emotion":"confident"}` + "\n```"
	srv := modelServer(t, content, &requests)

	r := NewRemote(RemoteConfig{BaseURL: srv.URL + "/v1/", APIKey: "sk-test", Model: "test-model", Temperature: 0.2, MaxTokens: 300})
	seat, state := flopTable()

	d, err := r.Decide(context.Background(), seat, state)
	require.NoError(t, err)
	assert.Equal(t, game.Raise, d.Action)
	assert.Equal(t, 60, d.BetAmount)
	assert.Equal(t, "Top pair top kicker.", d.ChainOfThought)
	assert.Equal(t, "Value raise", d.ReasoningSummary)
	assert.Equal(t, game.Confident, d.Emotion)

	require.Len(t, requests, 1)
	req := requests[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, 300, req.MaxTokens)
	assert.Equal(t, "json_object", req.ResponseFormat["type"])
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)

	prompt := req.Messages[1].Content
	assert.Contains(t, prompt, "You are Ada, a analytical player")
	assert.Contains(t, prompt, "Your cards: A♠ K♦ (AKo)")
	assert.Contains(t, prompt, "Board: A♥ 7♦ 2♣")
	assert.Contains(t, prompt, "Your best hand: Pair of Aces")
	assert.Contains(t, prompt, "To call: $40")
	assert.Contains(t, prompt, "Bo: Bets $40")
	assert.NotContains(t, prompt, "Q♥", "opponent cards stay hidden")
}

func TestRemoteTimesRequestsWithClock(t *testing.T) {
	srv := modelServer(t, `{"action":"call"}`, nil)
	mock := quartz.NewMock(t)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	r := NewRemote(RemoteConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "m"},
		WithRemoteLogger(logger),
		WithRemoteClock(mock))
	seat, state := flopTable()

	d, err := r.Decide(context.Background(), seat, state)
	require.NoError(t, err)
	assert.Equal(t, game.Call, d.Action)
	assert.Contains(t, buf.String(), "elapsed=0s")
}

func TestTruncateKeepsRunes(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc…", truncate("abcdef", 3))

	// Each suit symbol is three bytes
	got := truncate("A♠K♦", 3)
	assert.True(t, utf8.ValidString(got), "got %q", got)
	assert.Equal(t, "A…", got)
	assert.Equal(t, "A♠…", truncate("A♠K♦", 4))
}

func TestRemoteHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	r := NewRemote(RemoteConfig{BaseURL: srv.URL, Model: "m"})
	seat, state := flopTable()
	_, err := r.Decide(context.Background(), seat, state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model http 429")
}

func TestRemoteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	r := NewRemote(RemoteConfig{BaseURL: srv.URL, Model: "m", Timeout: 50 * time.Millisecond})
	seat, state := flopTable()
	_, err := r.Decide(context.Background(), seat, state)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestRemoteUnusableContent(t *testing.T) {
	srv := modelServer(t, "I am not sure what to do here.", nil)
	r := NewRemote(RemoteConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "m"})
	seat, state := flopTable()

	_, err := r.Decide(context.Background(), seat, state)
	require.ErrorIs(t, err, ErrBadResponse)
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    game.Decision
		wantErr bool
	}{
		{
			name:    "plain",
			content: `{"action":"call","emotion":"nervous"}`,
			want:    game.Decision{Action: game.Call, Emotion: game.Nervous},
		},
		{
			name:    "all in alias with string amount",
			content: `{"action":"all in","betAmount":"$250"}`,
			want:    game.Decision{Action: game.AllIn, BetAmount: 250, Emotion: game.Neutral},
		},
		{
			name:    "decision prose and snake case",
			content: `Here you go: {"decision":"I will call.","reasoning":"Odds are fine","reasoning_summary":"Call","emotion":"Poker-Face"}`,
			want:    game.Decision{Action: game.Call, ChainOfThought: "Odds are fine", ReasoningSummary: "Call", Emotion: game.PokerFace},
		},
		{
			name:    "amount field",
			content: `{"action":"bet","amount":45.0,"emotion":"smug"}`,
			want:    game.Decision{Action: game.Bet, BetAmount: 45, Emotion: game.Neutral},
		},
		{
			name:    "null amount",
			content: `{"action":"ALLIN","betAmount":null}`,
			want:    game.Decision{Action: game.AllIn, Emotion: game.Neutral},
		},
		{name: "unknown action", content: `{"action":"meditate"}`, wantErr: true},
		{name: "no json", content: `fold`, wantErr: true},
		{name: "broken json", content: `{"action": }`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecision(tt.content)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrBadResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildPromptOmitsLogWhenEmpty(t *testing.T) {
	seat, state := flopTable()
	state.ActivityLog = game.ActivityLog{}
	prompt := BuildPrompt(seat, state, 5)
	assert.False(t, strings.Contains(prompt, "Recent action"))
	assert.Contains(t, prompt, "Legal actions: fold, allIn, call, raise")
}
