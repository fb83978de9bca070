package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/neurago/asagraph/pkg/neuro"
	"github.com/neurago/asagraph/pkg/registry"
)

// Server holds the API server state
type Server struct {
	registry *registry.Manager
	config   ServerConfig
	metrics  *Metrics
}

// NewServer creates a new API server
func NewServer(reg *registry.Manager, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		registry: reg,
		config:   config,
		metrics:  metrics,
	}
}

// requireAPIKey rejects requests whose X-API-Key header does not carry the
// configured key.
func requireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Header.Get("X-API-Key") {
			case "":
				writeErr(w, http.StatusUnauthorized, "authentication required: set the X-API-Key header")
			case key:
				next.ServeHTTP(w, r)
			default:
				writeErr(w, http.StatusUnauthorized, "API key rejected")
			}
		})
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

func writeErr(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: false, Error: message})
}

func neuronView(n neuro.Neuron) NeuronView {
	id := n.ID()
	return NeuronView{
		ID:         id.ID,
		ParentID:   id.ParentID,
		Counter:    n.Counter(),
		Activation: n.Activation(),
	}
}

func neuronViews(neurons map[neuro.NeuronID]neuro.Neuron) []NeuronView {
	views := make([]NeuronView, 0, len(neurons))
	for _, n := range neurons {
		views = append(views, neuronView(n))
	}
	return views
}

func (s *Server) recordOperation(operation, sensor string, success bool, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordSensorOperation(operation, sensor, success, time.Since(start))
}

func (s *Server) sensor(w http.ResponseWriter, r *http.Request) (*registry.Entry, bool) {
	name := chi.URLParam(r, "name")
	entry, err := s.registry.Get(name)
	if err != nil {
		writeErr(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return entry, true
}

// handleHealth reports service health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.metrics != nil {
		s.metrics.RecordHealthCheck(true)
	}
	writeJSON(w, map[string]string{"status": "healthy"})
}

// handleListSensors lists the registered sensors
func (s *Server) handleListSensors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.registry.Names())
}

// handleSensorStats reports a sensor's shape
func (s *Server) handleSensorStats(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.sensor(w, r)
	if !ok {
		return
	}
	stats := entry.Stats()
	if s.metrics != nil {
		s.metrics.UpdateSensorStats(entry.Name(), stats.Unique, stats.Aggregated)
	}
	writeJSON(w, stats)
}

// handleInsert inserts a value into a sensor
func (s *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entry, ok := s.sensor(w, r)
	if !ok {
		return
	}

	var req InsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == "" {
		s.recordOperation("insert", entry.Name(), false, start)
		writeErr(w, http.StatusBadRequest, "Request body must carry a non-empty value")
		return
	}

	neuron, err := entry.Insert(req.Value)
	if err != nil {
		s.recordOperation("insert", entry.Name(), false, start)
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	s.recordOperation("insert", entry.Name(), true, start)
	writeJSON(w, neuronView(neuron))
}

// handleSearch looks a value up in a sensor
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entry, ok := s.sensor(w, r)
	if !ok {
		return
	}

	value := chi.URLParam(r, "value")
	neuron, found, err := entry.Search(value)
	if err != nil {
		s.recordOperation("search", entry.Name(), false, start)
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if !found {
		s.recordOperation("search", entry.Name(), false, start)
		writeErr(w, http.StatusNotFound, "Value not found")
		return
	}

	s.recordOperation("search", entry.Name(), true, start)
	writeJSON(w, neuronView(neuron))
}

// handleActivate stimulates the neuron holding a value
func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entry, ok := s.sensor(w, r)
	if !ok {
		return
	}

	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == "" {
		s.recordOperation("activate", entry.Name(), false, start)
		writeErr(w, http.StatusBadRequest, "Request body must carry a non-empty value")
		return
	}

	neurons, err := entry.Activate(req.Value, req.Signal, req.PropagateHorizontal, req.PropagateVertical)
	if err != nil {
		s.recordOperation("activate", entry.Name(), false, start)
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.recordOperation("activate", entry.Name(), true, start)
	writeJSON(w, neuronViews(neurons))
}

// handleDeactivate resets the neuron holding a value
func (s *Server) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entry, ok := s.sensor(w, r)
	if !ok {
		return
	}

	var req DeactivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == "" {
		s.recordOperation("deactivate", entry.Name(), false, start)
		writeErr(w, http.StatusBadRequest, "Request body must carry a non-empty value")
		return
	}

	if err := entry.Deactivate(req.Value, req.PropagateHorizontal, req.PropagateVertical); err != nil {
		s.recordOperation("deactivate", entry.Name(), false, start)
		writeErr(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.recordOperation("deactivate", entry.Name(), true, start)
	writeJSON(w, map[string]string{"status": "deactivated"})
}

// handleReset deactivates a whole sensor
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entry, ok := s.sensor(w, r)
	if !ok {
		return
	}

	entry.Reset()
	s.recordOperation("reset", entry.Name(), true, start)
	writeJSON(w, map[string]string{"status": "reset"})
}

// handleTree dumps a sensor's tree in the level-order print format
func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.sensor(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = entry.WriteTree(w)
}
