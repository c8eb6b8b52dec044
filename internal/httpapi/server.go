package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/harshil1002/website-monitor/internal/domain"
	"github.com/harshil1002/website-monitor/internal/engine"
	"github.com/harshil1002/website-monitor/internal/history"
	"github.com/harshil1002/website-monitor/internal/state"
)

const defaultHistoryLimit = 50

// Server exposes the daemon's read-only view: current snapshot, the
// latest pass result, and recent probe history.
type Server struct {
	Logger     *zap.Logger
	State      *state.Store
	History    history.Store // nil when history is disabled
	LastResult func() (engine.Result, time.Time, bool)
}

func NewServer(l *zap.Logger, st *state.Store, hist history.Store, lastResult func() (engine.Result, time.Time, bool)) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, State: st, History: hist, LastResult: lastResult}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/status", s.handleStatus)
	r.Get("/api/reports", s.handleReports)
	r.Get("/api/history", s.handleHistory)

	return r
}

type statusResponse struct {
	Status    domain.Snapshot  `json:"status"`
	DownSince domain.DownSince `json:"downSince"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, down := s.State.Load()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(statusResponse{Status: snap, DownSince: down})
}

type reportsResponse struct {
	CompletedAt time.Time              `json:"completedAt"`
	AnyDown     bool                   `json:"anyDown"`
	Alerts      []string               `json:"alerts"`
	Recoveries  []domain.RecoveryAlert `json:"recoveries"`
	SlowAlerts  []domain.SlowAlert     `json:"slowAlerts"`
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	res, at, ok := s.LastResult()
	if !ok {
		http.Error(w, "no completed run yet", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(reportsResponse{
		CompletedAt: at,
		AnyDown:     res.AnyDown,
		Alerts:      res.Alerts,
		Recoveries:  res.Recoveries,
		SlowAlerts:  res.SlowAlerts,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		http.Error(w, "history disabled", http.StatusNotFound)
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	recs, err := s.History.Recent(r.Context(), limit)
	if err != nil {
		s.Logger.Warn("history_query_error", zap.Error(err))
		http.Error(w, "history error", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(recs)
}
