package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// InsertRequest carries a value to insert into a sensor
type InsertRequest struct {
	Value string `json:"value"`
}

// ActivateRequest carries an activation request for a sensor value
type ActivateRequest struct {
	Value               string  `json:"value"`
	Signal              float64 `json:"signal"`
	PropagateHorizontal bool    `json:"propagate_horizontal"`
	PropagateVertical   bool    `json:"propagate_vertical"`
}

// DeactivateRequest carries a deactivation request for a sensor value
type DeactivateRequest struct {
	Value               string `json:"value"`
	PropagateHorizontal bool   `json:"propagate_horizontal"`
	PropagateVertical   bool   `json:"propagate_vertical"`
}

// NeuronView is the wire representation of a neuron
type NeuronView struct {
	ID         string  `json:"id"`
	ParentID   string  `json:"parent_id"`
	Counter    int     `json:"counter"`
	Activation float64 `json:"activation"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Bind   string
	Port   int
	APIKey string
}
