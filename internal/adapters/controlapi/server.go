// Package controlapi exposes the operator-facing control plane around the
// single-threaded core handler (spec.md §5): whitelist/blacklist/SSID
// mutation over HTTP and a live diagnostic feed over WebSocket. Grounded
// in the teacher's internal/adapters/web/server/server.go (mux + otelhttp
// wiring) and internal/adapters/web/websocket/ws_manager.go (the
// broadcaster pattern). It never calls into Handler.Update itself - it
// only mutates FilterState and observes diagnostics the driver loop
// already emits.
package controlapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/lcalzada-xor/airbridge/internal/core/domain"
)

// FilterMutator is the subset of Handler's API the control surface needs.
// Handler itself satisfies this; tests can substitute a fake.
type FilterMutator interface {
	SetWhitelist(list []domain.MAC)
	SetBlacklist(list []domain.MAC)
	SetSSIDFilter(list []string)
	AddWhitelist(mac domain.MAC)
	AddBlacklist(mac domain.MAC)
	ClearWhitelist()
	ClearBlacklist()
}

// Server is the HTTP control-API process, one per running session.
type Server struct {
	addr string
	h    FilterMutator
	feed *Feed
	srv  *http.Server
}

// New constructs a Server bound to h's filter-mutation methods, broadcasting
// diagnostics received via Feed.Emit to connected WebSocket clients. feed
// is typically constructed first and handed to the Handler as its
// ports.DiagnosticSink, then passed here so the control API and the
// handler share the same broadcaster.
func New(addr string, h FilterMutator, feed *Feed) *Server {
	return &Server{addr: addr, h: h, feed: feed}
}

// Feed returns the diagnostic broadcaster, suitable as a ports.DiagnosticSink.
func (s *Server) Feed() *Feed { return s.feed }

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/whitelist", s.handleSetWhitelist).Methods(http.MethodPut)
	r.HandleFunc("/whitelist/{mac}", s.handleAddWhitelist).Methods(http.MethodPost)
	r.HandleFunc("/whitelist", s.handleClearWhitelist).Methods(http.MethodDelete)
	r.HandleFunc("/blacklist", s.handleSetBlacklist).Methods(http.MethodPut)
	r.HandleFunc("/blacklist/{mac}", s.handleAddBlacklist).Methods(http.MethodPost)
	r.HandleFunc("/blacklist", s.handleClearBlacklist).Methods(http.MethodDelete)
	r.HandleFunc("/ssid-filter", s.handleSetSSIDFilter).Methods(http.MethodPut)
	r.HandleFunc("/diagnostics", s.feed.HandleWebSocket)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Run starts the HTTP listener, instrumented with otelhttp, and blocks
// until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	instrumented := otelhttp.NewHandler(s.routes(), "airbridge-control-api")
	s.srv = &http.Server{
		Addr:              s.addr,
		Handler:           instrumented,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

type macListRequest struct {
	MACs []string `json:"macs"`
}

type ssidListRequest struct {
	SSIDs []string `json:"ssids"`
}

func (s *Server) handleSetWhitelist(w http.ResponseWriter, r *http.Request) {
	s.setMACList(w, r, s.h.SetWhitelist)
}

func (s *Server) handleSetBlacklist(w http.ResponseWriter, r *http.Request) {
	s.setMACList(w, r, s.h.SetBlacklist)
}

func (s *Server) setMACList(w http.ResponseWriter, r *http.Request, set func([]domain.MAC)) {
	var req macListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	macs, err := parseMACs(req.MACs)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	set(macs)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetSSIDFilter(w http.ResponseWriter, r *http.Request) {
	var req ssidListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s.h.SetSSIDFilter(req.SSIDs)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddWhitelist(w http.ResponseWriter, r *http.Request) {
	s.addMAC(w, r, s.h.AddWhitelist)
}

func (s *Server) handleAddBlacklist(w http.ResponseWriter, r *http.Request) {
	s.addMAC(w, r, s.h.AddBlacklist)
}

func (s *Server) addMAC(w http.ResponseWriter, r *http.Request, add func(domain.MAC)) {
	mac, err := domain.ParseMAC(mux.Vars(r)["mac"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	add(mac)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearWhitelist(w http.ResponseWriter, _ *http.Request) {
	s.h.ClearWhitelist()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearBlacklist(w http.ResponseWriter, _ *http.Request) {
	s.h.ClearBlacklist()
	w.WriteHeader(http.StatusNoContent)
}

func parseMACs(raw []string) ([]domain.MAC, error) {
	out := make([]domain.MAC, 0, len(raw))
	for _, s := range raw {
		m, err := domain.ParseMAC(s)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
