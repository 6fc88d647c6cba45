package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pashubazaar/settlement-service/internal/domain"
)

type JSONResponse map[string]any

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to write json response", "status", status, "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, JSONResponse{"error": message})
}

// writeDomainError maps the error taxonomy onto HTTP statuses: validation
// and decline rules are client errors, retryable payment failures are 502
// so the UI can offer a retry, invariant breaches are 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, JSONResponse{
			"error":  "bid rejected",
			"reason": ve.Reason,
		})
		return
	}

	var pe *domain.PaymentAttemptError
	if errors.As(err, &pe) {
		writeJSON(w, http.StatusBadGateway, JSONResponse{
			"error":     "payment attempt failed",
			"retryable": true,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrWindowClosed),
		errors.Is(err, domain.ErrDeclineNotAllowed),
		errors.Is(err, domain.ErrSettlementFinalized),
		errors.Is(err, domain.ErrSettlementExists),
		errors.Is(err, domain.ErrAuctionNotClosed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrWindowNotFound),
		errors.Is(err, domain.ErrSettlementNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("request failed", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
