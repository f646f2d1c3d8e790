package handler

import (
	"net/http"

	"stock-analyst-agent/internal/config"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(container *config.Container) http.Handler {
	router := mux.NewRouter()

	// Health check endpoint, served at the path deployment probes expect
	router.HandleFunc("/_stcore/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"stock-analyst-agent"}`))
	}).Methods("GET")

	// API prefix
	api := router.PathPrefix("/api/v1").Subrouter()

	// Initialize handlers
	analysisHandler := NewAnalysisHandler(container.AnalystService, container.Logger)
	providerHandler := NewProviderHandler(container.Registry)
	reportHandler := NewReportHandler(container.ReportService, container.ExportService, container.Logger)

	// Analysis routes
	api.HandleFunc("/analyses", analysisHandler.AnalyzeStock).Methods("POST")

	// Provider catalog
	api.HandleFunc("/providers", providerHandler.GetProviders).Methods("GET")

	// Report cache routes
	api.HandleFunc("/reports", reportHandler.ListReports).Methods("GET")
	api.HandleFunc("/reports", reportHandler.ClearReports).Methods("DELETE")
	api.HandleFunc("/reports/{id}", reportHandler.GetReport).Methods("GET")
	api.HandleFunc("/reports/{id}", reportHandler.DeleteReport).Methods("DELETE")
	api.HandleFunc("/reports/{id}/export", reportHandler.ExportReport).Methods("POST")
	api.HandleFunc("/exports", reportHandler.ListExports).Methods("GET")

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 300,
	})

	handler := RequestIDMiddleware(router)
	handler = LoggingMiddleware(container.Logger)(handler)
	return c.Handler(handler)
}
