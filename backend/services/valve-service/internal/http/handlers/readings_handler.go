package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"ecovalve/backend/services/valve-service/internal/service"
)

// NewEnergyValveDataHandler returns GET /api/energy-valve-data/ handler.
func NewEnergyValveDataHandler(svc *service.ReadingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		readings, err := svc.ListReadings(r.Context())
		if err != nil {
			logger.Error("failed to fetch energy valve data", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to fetch energy valve data")
			return
		}
		writeJSON(w, http.StatusOK, readings)
	}
}

// NewHourlyHeatmapHandler returns GET /api/hourly-heatmap/ handler.
func NewHourlyHeatmapHandler(svc *service.ReadingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		heatmap, err := svc.HourlyHeatmap(r.Context())
		if err != nil {
			logger.Error("failed to build hourly heatmap", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to build hourly heatmap")
			return
		}
		writeJSON(w, http.StatusOK, heatmap)
	}
}

// NewImportRunsHandler returns GET /api/import-runs/ handler.
func NewImportRunsHandler(svc *service.ReadingsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runs, err := svc.ListImportRuns(r.Context())
		if errors.Is(err, service.ErrRunsUnavailable) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		if err != nil {
			logger.Error("failed to fetch import runs", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to fetch import runs")
			return
		}
		writeJSON(w, http.StatusOK, runs)
	}
}
