package web

type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	UptimeS    int64  `json:"uptime_s"`
	BackendURL string `json:"backend_url"`
	Analyzing  bool   `json:"analyzing"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
