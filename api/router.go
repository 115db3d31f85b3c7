package api

import (
	"log/slog"

	"github.com/gorilla/mux"

	"receipt-processor/internal/config"
	"receipt-processor/internal/metrics"
	"receipt-processor/internal/receipt"
)

// NewRouter wires the receipt routes, request logging and, when enabled,
// the /metrics endpoint onto a gorilla mux router.
func NewRouter(repo receipt.ReceiptRepository, cfg *config.Config, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter() // uses gorilla mux for handling dynamic routing
	router.Use(LoggingMiddleware(logger))

	NewReceiptApi(repo, cfg.Receipts.UnknownID, logger).InitializeRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle("/metrics", metrics.Handler())
	}
	return router
}
