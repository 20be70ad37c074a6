package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/danielkucera/goflexit/flexit"
)

// server serializes every aggregate call between the poll loop and the
// HTTP handlers.
type server struct {
	mu      sync.Mutex
	agg     flexit.CommonDeviceAPI
	log     *zap.Logger
	metrics *Metrics
}

func newServer(agg flexit.CommonDeviceAPI, metrics *Metrics, log *zap.Logger) *server {
	return &server{agg: agg, metrics: metrics, log: log}
}

// poll collects one snapshot and updates the gauges.
func (s *server) poll() Status {
	s.mu.Lock()
	agg := s.agg
	agg.Update()
	st := collectStatus(agg)
	modes := agg.VentModes()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Update(st, modes)
	}
	s.log.Debug("poll complete",
		zap.String("model", st.Model),
		zap.Int("missing", len(st.Missing)),
		zap.Int("non_finite", len(st.NonFinite)),
		zap.Int("errors", len(st.Errors)))
	return st
}

func (s *server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/register", s.handleRegister)
	mux.HandleFunc("/api/setpoint", s.handleSetpoint)
	mux.HandleFunc("/api/vent-mode", s.handleVentMode)
}

type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Name    string `json:"name,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// writeJSON encodes v before sending the header, so an unencodable value
// becomes a 500 instead of an empty 200.
func (s *server) writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
		buf.Reset()
		code = http.StatusInternalServerError
		buf.WriteString(`{"success":false,"error":"internal encode error"}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Debug("write response", zap.Error(err))
	}
}

// finite reports whether v can be represented in JSON.
func finite(v any) bool {
	var f float64
	switch x := v.(type) {
	case float32:
		f = float64(x)
	case float64:
		f = x
	default:
		return true
	}
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s *server) fail(w http.ResponseWriter, err error) {
	s.writeJSON(w, statusFor(err), response{Error: err.Error()})
}

// statusFor maps caller mistakes to 400 and everything else, including
// device failures, to 502.
func statusFor(err error) int {
	var (
		unknown  *flexit.UnknownRegisterError
		readOnly *flexit.ReadOnlyRegisterError
		mode     *flexit.InvalidModeNameError
		encode   *flexit.EncodeError
	)
	switch {
	case errors.As(err, &unknown), errors.As(err, &readOnly),
		errors.As(err, &mode), errors.As(err, &encode):
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSON(w, http.StatusMethodNotAllowed, response{Error: "GET required"})
		return
	}
	s.writeJSON(w, http.StatusOK, s.poll())
}

func (s *server) handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		name := r.URL.Query().Get("name")
		if name == "" {
			s.writeJSON(w, http.StatusBadRequest, response{Error: "name required"})
			return
		}
		s.mu.Lock()
		v, err := s.agg.Get(name)
		s.mu.Unlock()
		if err != nil {
			s.fail(w, err)
			return
		}
		if v == nil {
			s.writeJSON(w, http.StatusBadGateway, response{Name: name, Error: flexit.ErrNoData.Error()})
			return
		}
		if !finite(v) {
			s.writeJSON(w, http.StatusBadGateway, response{Name: name, Error: fmt.Sprintf("register %s holds non-finite value %v", name, v)})
			return
		}
		s.writeJSON(w, http.StatusOK, response{Success: true, Name: name, Value: v})

	case http.MethodPost:
		var req struct {
			Name  string `json:"name"`
			Value any    `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, response{Error: "invalid JSON"})
			return
		}
		if req.Name == "" || req.Value == nil {
			s.writeJSON(w, http.StatusBadRequest, response{Error: "name and value required"})
			return
		}
		s.log.Info("register write requested", zap.String("register", req.Name), zap.Any("value", req.Value))
		s.mu.Lock()
		err := s.agg.Set(req.Name, req.Value)
		s.mu.Unlock()
		if err != nil {
			s.log.Warn("register write failed", zap.String("register", req.Name), zap.Error(err))
			s.fail(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, response{Success: true, Message: req.Name + " updated"})

	default:
		s.writeJSON(w, http.StatusMethodNotAllowed, response{Error: "GET or POST required"})
	}
}

func (s *server) handleSetpoint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSON(w, http.StatusMethodNotAllowed, response{Error: "POST required"})
		return
	}
	var req struct {
		Value *float64 `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		s.writeJSON(w, http.StatusBadRequest, response{Error: "numeric value required"})
		return
	}
	s.mu.Lock()
	err := s.agg.SetAirTempSetpoint(*req.Value)
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("setpoint write failed", zap.Float64("value", *req.Value), zap.Error(err))
		s.fail(w, err)
		return
	}
	s.log.Info("setpoint updated", zap.Float64("value", *req.Value))
	s.writeJSON(w, http.StatusOK, response{Success: true, Message: "setpoint updated"})
}

func (s *server) handleVentMode(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		mode, err := s.agg.VentMode()
		s.mu.Unlock()
		if err != nil {
			s.fail(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, response{Success: true, Name: "vent_mode", Value: mode})

	case http.MethodPost:
		var req struct {
			Mode string `json:"mode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeJSON(w, http.StatusBadRequest, response{Error: "invalid JSON"})
			return
		}
		s.mu.Lock()
		err := s.agg.SetVentMode(req.Mode)
		s.mu.Unlock()
		if err != nil {
			s.log.Warn("vent mode write failed", zap.String("mode", req.Mode), zap.Error(err))
			s.fail(w, err)
			return
		}
		s.log.Info("vent mode updated", zap.String("mode", req.Mode))
		s.writeJSON(w, http.StatusOK, response{Success: true, Message: "vent mode set to " + req.Mode})

	default:
		s.writeJSON(w, http.StatusMethodNotAllowed, response{Error: "GET or POST required"})
	}
}
