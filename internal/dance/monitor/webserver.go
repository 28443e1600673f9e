package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/dancefloor/internal/dance/storage/sqlite"
	"github.com/banshee-data/dancefloor/internal/monitoring"
)

// WebServer serves recorded runs as JSON and HTML charts.
type WebServer struct {
	address string
	db      *sqlite.DB
	store   *sqlite.RunStore
	server  *http.Server
}

// WebServerConfig configures NewWebServer.
type WebServerConfig struct {
	Address string
	DB      *sqlite.DB
}

// NewWebServer builds the server and its routes.
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address: config.Address,
		db:      config.DB,
		store:   sqlite.NewRunStore(config.DB),
	}
	ws.server = &http.Server{
		Addr:              ws.address,
		Handler:           ws.setupRoutes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return ws
}

// Handler exposes the routes for embedding and tests.
func (ws *WebServer) Handler() http.Handler { return ws.server.Handler }

func (ws *WebServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/debug/dance/runs", ws.handleRuns)
	mux.HandleFunc("/debug/dance/contacts", ws.handleContactChart)
	mux.HandleFunc("/debug/dance/jerk", ws.handleJerkChart)
	if err := ws.db.AttachAdminRoutes(mux); err != nil {
		monitoring.Logf("[monitor] admin routes disabled: %v", err)
	}
	return mux
}

// Start serves until ctx is cancelled, then shuts down.
func (ws *WebServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		monitoring.Logf("[monitor] HTTP server listening on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve %s: %w", ws.address, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := ws.server.Shutdown(shutdownCtx); err != nil {
		monitoring.Logf("[monitor] HTTP server shutdown error: %v", err)
		if err := ws.server.Close(); err != nil {
			monitoring.Logf("[monitor] HTTP server force close error: %v", err)
		}
	}
	monitoring.Logf("[monitor] HTTP server stopped")
	return nil
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (ws *WebServer) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ws.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			ws.writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	runs, err := ws.store.ListRuns(limit)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []*sqlite.Run{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// runStats resolves ?run_id= and loads its frame stats, writing the error
// response itself when it returns false.
func (ws *WebServer) runStats(w http.ResponseWriter, r *http.Request) (*sqlite.Run, []sqlite.FrameStat, bool) {
	id := r.URL.Query().Get("run_id")
	if id == "" {
		ws.writeJSONError(w, http.StatusBadRequest, "missing run_id parameter")
		return nil, nil, false
	}
	run, err := ws.store.GetRun(id)
	if errors.Is(err, sqlite.ErrRunNotFound) {
		ws.writeJSONError(w, http.StatusNotFound, "run not found")
		return nil, nil, false
	}
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	stats, err := ws.store.ListFrameStats(id)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return nil, nil, false
	}
	return run, stats, true
}

func writeHTML(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (ws *WebServer) handleContactChart(w http.ResponseWriter, r *http.Request) {
	run, stats, ok := ws.runStats(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := RenderContactChart(&buf, "run="+run.RunID, stats); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeHTML(w, &buf)
}

func (ws *WebServer) handleJerkChart(w http.ResponseWriter, r *http.Request) {
	run, stats, ok := ws.runStats(w, r)
	if !ok {
		return
	}
	lead := make([]float64, len(stats))
	follow := make([]float64, len(stats))
	for i, s := range stats {
		lead[i] = s.LeadIntensity
		follow[i] = s.FollowIntensity
	}
	var buf bytes.Buffer
	if err := RenderJerkChart(&buf, "run="+run.RunID, []string{"lead", "follow"}, [][]float64{lead, follow}); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeHTML(w, &buf)
}
