package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/liveboard/internal/core/domain"
	"github.com/vietddude/liveboard/internal/resilience/boundary"
)

// Server provides the HTTP surface for the dashboard gateway.
type Server struct {
	gateway *Gateway
	server  *http.Server
}

// NewServer creates the gateway HTTP server.
func NewServer(gateway *Gateway, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		gateway: gateway,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/panels", s.handlePanels)
	mux.HandleFunc("/panels/", s.handlePanel)
	mux.Handle("/metrics", promhttp.Handler())

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.gateway.Health(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if !report.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	json.NewEncoder(w).Encode(report)
}

// panelState is the JSON shape of one boundary snapshot.
type panelState struct {
	Feature         string     `json:"feature"`
	HasError        bool       `json:"has_error"`
	Category        string     `json:"category,omitempty"`
	Status          string     `json:"status"`
	Attempts        int        `json:"attempts"`
	MaxAttempts     int        `json:"max_attempts"`
	LastConnectedAt *time.Time `json:"last_connected_at,omitempty"`
	PollingMode     bool       `json:"polling_mode"`
}

func toPanelState(snap boundary.Snapshot) panelState {
	return panelState{
		Feature:         snap.Feature,
		HasError:        snap.HasError,
		Category:        string(snap.Category),
		Status:          string(snap.Status),
		Attempts:        snap.Attempts,
		MaxAttempts:     snap.MaxAttempts,
		LastConnectedAt: snap.LastConnectedAt,
		PollingMode:     snap.PollingMode,
	}
}

func (s *Server) handlePanels(w http.ResponseWriter, r *http.Request) {
	snaps := s.gateway.Snapshots()
	out := make([]panelState, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toPanelState(snap))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// handlePanel routes /panels/{id} and its action sub-paths:
//
//	GET  /panels/{id}          render the panel view
//	GET  /panels/{id}/reports  stored error reports
//	POST /panels/{id}/retry    immediate reconnect attempt
//	POST /panels/{id}/poll     switch to polling mode
//	POST /panels/{id}/refresh  host reload primitive
func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/panels/")
	parts := strings.SplitN(rest, "/", 2)
	if parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := domain.PanelID(parts[0])

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch action {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		view, err := s.gateway.RenderPanel(r.Context(), id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(view)

	case "reports":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		reports, err := s.gateway.Reports(r.Context(), id, limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reports)

	case "retry", "poll", "refresh":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var err error
		switch action {
		case "retry":
			err = s.gateway.RetryPanel(id)
		case "poll":
			err = s.gateway.PollPanel(id)
		case "refresh":
			err = s.gateway.RefreshPanel(id)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "accepted"})

	default:
		http.NotFound(w, r)
	}
}
