package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rileyhilliard/perimeter/internal/status"
)

// demoSnapshot returns random readings. The fence alarm fires one time in four.
func (s *Server) demoSnapshot() status.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	fence := 0
	if s.rng.Intn(4) == 0 {
		fence = 1
	}
	return status.Snapshot{
		Status: status.StatusSuccess,
		ControlRoom: status.ControlRoom{
			PeopleCount: s.rng.Intn(11),
			DoorOpen:    s.rng.Intn(2),
			FenceAlert:  fence,
		},
		Sensors: status.Sensors{
			Temperature: status.Float(24 + s.rng.Float64()*5),
			Humidity:    status.Float(45 + s.rng.Float64()*10),
		},
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.demoSnapshot())
}

// Health is the body of GET /api/health.
type Health struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
	Demo   bool      `json:"demo"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, Health{Status: "ok", Time: s.now().UTC(), Demo: true})
}

func (s *Server) handleGetLockdown(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Lockdown())
}

func (s *Server) handlePostLockdown(w http.ResponseWriter, r *http.Request) {
	var cmd status.LockdownCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "malformed lockdown command"})
		return
	}
	if !cmd.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "state must be armed or locked"})
		return
	}
	if cmd.RequestedAt.IsZero() {
		cmd.RequestedAt = s.now().UTC()
	}

	s.mu.Lock()
	s.lockdown = cmd
	s.mu.Unlock()

	s.metrics.lockdowns.WithLabelValues(cmd.State).Inc()
	if cmd.State == status.LockdownLocked {
		s.metrics.lockdownState.Set(1)
	} else {
		s.metrics.lockdownState.Set(0)
	}
	s.log.Info("lockdown %s", cmd.State)

	writeJSON(w, http.StatusAccepted, cmd)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
