package api

import "receipt-processor/internal/receipt"

// ProcessResponse is the payload for POST /receipts/process.
type ProcessResponse struct {
	ID string `json:"id"`
}

// PointsResponse is the payload for GET /receipts/{id}/points.
type PointsResponse struct {
	Points int `json:"points"`
}

// BreakdownResponse is the payload for GET /receipts/{id}/breakdown.
type BreakdownResponse struct {
	Points int                  `json:"points"`
	Rules  []receipt.RuleResult `json:"rules"`
}

// HealthResponse is the payload for GET /healthz.
type HealthResponse struct {
	Status   string `json:"status"`
	Receipts int    `json:"receipts"`
}

type errorResponse struct {
	Error  string               `json:"error"`
	Fields []receipt.FieldError `json:"fields,omitempty"`
}
