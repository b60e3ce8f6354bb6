package spectator

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lox/pokerarena/internal/game"
)

// Router returns the spectator HTTP API:
//
//	GET /ws         live state messages over WebSocket
//	GET /state      latest state as JSON
//	GET /log        activity log entries, optionally ?since=N
//	GET /health     liveness and spectator count
func (h *Hub) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/ws", h.handleWebSocket)
	r.Get("/state", h.handleState)
	r.Get("/log", h.handleLog)
	r.Get("/health", h.handleHealth)
	return r
}

// ListenAndServe serves Router on addr until ctx is done
func (h *Hub) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return h.Serve(ctx, ln)
}

// Serve serves Router on ln until ctx is done, then disconnects spectators
// and shuts the server down.
func (h *Hub) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("Serving spectators", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		h.Close()
		return err
	case <-ctx.Done():
	}

	h.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	c := newClient(h, conn)
	if !h.register(c) {
		_ = conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (h *Hub) handleState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Latest()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no hand has started yet")
		return
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

func (h *Hub) handleLog(w http.ResponseWriter, r *http.Request) {
	since := 0
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "since must be a non-negative integer")
			return
		}
		since = n
	}

	s, _ := h.Latest()
	entries := s.ActivityLog.Since(since)
	if entries == nil {
		entries = []game.LogEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total":   s.ActivityLog.Len(),
		"entries": entries,
	})
}

func (h *Hub) handleHealth(w http.ResponseWriter, r *http.Request) {
	s, _ := h.Latest()
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"spectators": h.Clients(),
		"version":    s.Version,
		"phase":      s.Phase,
	})
}

func (h *Hub) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("Request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
