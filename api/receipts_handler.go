package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"receipt-processor/internal/config"
	"receipt-processor/internal/metrics"
	"receipt-processor/internal/receipt"
)

// ReceiptApi - Receipt api
type ReceiptApi struct {
	repo      receipt.ReceiptRepository
	unknownID string
	logger    *slog.Logger
}

// NewReceiptApi - instance of ReceiptApi backed by repo
// unknownID is config.UnknownIDZero or config.UnknownIDNotFound.
func NewReceiptApi(repo receipt.ReceiptRepository, unknownID string, logger *slog.Logger) *ReceiptApi {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReceiptApi{
		repo:      repo,
		unknownID: unknownID,
		logger:    logger,
	}
}

// InitializeRoutes defines the routes for the receipts
func (api *ReceiptApi) InitializeRoutes(router *mux.Router) {
	router.HandleFunc("/receipts/process", api.receiptProcessor)
	router.HandleFunc("/receipts/{id}/points", api.getPointsByID)
	router.HandleFunc("/receipts/{id}/breakdown", api.getBreakdownByID)
	router.HandleFunc("/receipts/{id}", api.getReceiptByID)
	router.HandleFunc("/healthz", api.health)
}

// receiptProcessor REST endpoint /receipts/process
// takes in a receipt object, validates it and stores it
// returns {"id": "<uuid>"}
func (api *ReceiptApi) receiptProcessor(w http.ResponseWriter, r *http.Request) {
	if methodTypeNotAllowed(w, r, http.MethodPost) {
		return
	}

	var currentReceipt receipt.Receipt
	if err := json.NewDecoder(r.Body).Decode(&currentReceipt); err != nil {
		metrics.RecordReceipt(metrics.OutcomeRejected)
		jsonErr(w, http.StatusBadRequest, "invalid json in body")
		return
	}

	if err := receipt.Validate(currentReceipt); err != nil {
		metrics.RecordReceipt(metrics.OutcomeRejected)
		api.logger.Debug("receipt rejected", "err", err)
		writeError(w, err)
		return
	}

	receiptID, err := api.repo.CreateReceipt(currentReceipt)
	if err != nil {
		api.logger.Error("store receipt", "err", err)
		writeError(w, err)
		return
	}

	metrics.RecordReceipt(metrics.OutcomeAccepted)
	api.logger.Info("receipt processed", "id", receiptID, "items", len(currentReceipt.Items))
	jsonResp(w, http.StatusOK, ProcessResponse{ID: receiptID})
}

// getPointsByID REST endpoint /receipts/{id}/points
// takes in a dynamic string: id
// return int: points - amount of points for the receipt
func (api *ReceiptApi) getPointsByID(w http.ResponseWriter, r *http.Request) {
	if methodTypeNotAllowed(w, r, http.MethodGet) {
		return
	}

	receiptID := mux.Vars(r)["id"]
	stored, err := api.repo.GetReceiptByID(receiptID)
	if errors.Is(err, receipt.ErrNotFound) && api.unknownID == config.UnknownIDZero {
		// unknown ids score zero rather than 404
		api.logger.Debug("points for unknown receipt", "id", receiptID)
		jsonResp(w, http.StatusOK, PointsResponse{Points: 0})
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	points, err := receipt.Points(stored)
	if err != nil {
		api.logger.Error("score stored receipt", "id", receiptID, "err", err)
		jsonErr(w, http.StatusInternalServerError, "could not score receipt")
		return
	}

	metrics.ObservePoints(points)
	jsonResp(w, http.StatusOK, PointsResponse{Points: points})
}

// getBreakdownByID REST endpoint /receipts/{id}/breakdown
// returns the total points and each rule's share
func (api *ReceiptApi) getBreakdownByID(w http.ResponseWriter, r *http.Request) {
	if methodTypeNotAllowed(w, r, http.MethodGet) {
		return
	}

	stored, err := api.repo.GetReceiptByID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	rules, err := receipt.Breakdown(stored)
	if err != nil {
		jsonErr(w, http.StatusInternalServerError, "could not score receipt")
		return
	}
	resp := BreakdownResponse{Rules: rules}
	for _, rule := range rules {
		resp.Points += rule.Points
	}
	jsonResp(w, http.StatusOK, resp)
}

// getReceiptByID REST endpoint /receipts/{id}
// returns the receipt as it was submitted
func (api *ReceiptApi) getReceiptByID(w http.ResponseWriter, r *http.Request) {
	if methodTypeNotAllowed(w, r, http.MethodGet) {
		return
	}

	stored, err := api.repo.GetReceiptByID(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	jsonResp(w, http.StatusOK, stored)
}

// health REST endpoint /healthz
func (api *ReceiptApi) health(w http.ResponseWriter, r *http.Request) {
	if methodTypeNotAllowed(w, r, http.MethodGet) {
		return
	}

	n, err := api.repo.Count()
	if err != nil {
		api.logger.Error("count receipts", "err", err)
		jsonErr(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok", Receipts: n})
}

func methodTypeNotAllowed(w http.ResponseWriter, r *http.Request, methodType string) bool {
	if r.Method != methodType {
		w.Header().Set("Allow", methodType)
		jsonErr(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed))
		return true
	}
	return false
}

// writeError maps err to a status code and writes a JSON error body
func writeError(w http.ResponseWriter, err error) {
	var ve *receipt.ValidationError
	if errors.As(err, &ve) {
		jsonResp(w, http.StatusBadRequest, errorResponse{Error: "invalid receipt", Fields: ve.Fields})
		return
	}
	code := errorCodeAssigner(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = http.StatusText(code)
	}
	jsonErr(w, code, msg)
}

func errorCodeAssigner(err error) int {
	switch {
	case errors.Is(err, receipt.ErrNotFound):
		return http.StatusNotFound
	case receipt.IsValidationError(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
