package httpserver

import "net/http"

// Routes defines HTTP endpoints.
type Routes struct {
	EnergyValveData http.HandlerFunc
	HourlyHeatmap   http.HandlerFunc
	ImportRuns      http.HandlerFunc
	Health          http.HandlerFunc
	Metrics         http.Handler
}

// NewRouter sets up HTTP routing. Every endpoint is read-only.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.EnergyValveData != nil {
		mux.Handle("/api/energy-valve-data/{$}", method(http.MethodGet, routes.EnergyValveData))
	}
	if routes.HourlyHeatmap != nil {
		mux.Handle("/api/hourly-heatmap/{$}", method(http.MethodGet, routes.HourlyHeatmap))
	}
	if routes.ImportRuns != nil {
		mux.Handle("/api/import-runs/{$}", method(http.MethodGet, routes.ImportRuns))
	}
	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	if routes.Metrics != nil {
		mux.Handle("/metrics", method(http.MethodGet, routes.Metrics.ServeHTTP))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
