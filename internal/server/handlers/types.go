package handlers

// ForecastRequest is the query of GET /forecast. Coordinates are pointers so
// that the equator and the prime meridian still pass the required check.
type ForecastRequest struct {
	Lat     *float64 `form:"lat" json:"lat" validate:"required,latitude"`
	Lon     *float64 `form:"lon" json:"lon" validate:"required,longitude"`
	Lang    string   `form:"lang" json:"lang" validate:"omitempty,min=2,max=11"`
	Units   string   `form:"units" json:"units" validate:"omitempty,oneof=auto ca si uk2 us"`
	Exclude string   `form:"exclude" json:"exclude" validate:"omitempty,max=64"`
	Extend  bool     `form:"extend" json:"extend"`
	Time    *int64   `form:"time" json:"time" validate:"omitempty,gte=0"`
	Raw     bool     `form:"raw" json:"raw"`
}

// ErrorResponse represents an error response with validation
type ErrorResponse struct {
	Error   string `json:"error" validate:"required,min=1,max=500"`
	Code    string `json:"code,omitempty" validate:"omitempty,min=1,max=50"`
	Details any    `json:"details,omitempty"`
}

// HealthResponse represents health check response with validation
type HealthResponse struct {
	Status    string `json:"status" validate:"required,oneof=ok alive ready degraded unavailable"`
	Uptime    string `json:"uptime" validate:"required"`
	Timestamp string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}
