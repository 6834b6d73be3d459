package common

// ErrorResponse is the error envelope every route returns on failure
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Info    string `json:"info,omitempty"`
}

// HealthResponse reports liveness and database reachability
type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	Environment string `json:"environment"`
}

// StatusResponse acknowledges an accepted request
type StatusResponse struct {
	Status string `json:"status"`
}
