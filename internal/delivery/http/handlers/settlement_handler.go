package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pashubazaar/settlement-service/internal/delivery/http/dto/response"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/logger"
	"github.com/pashubazaar/settlement-service/internal/usecase/settlement"
)

type SettlementHandler struct {
	engine      settlement.SettlementUsecase
	eventLogger logger.SettlementEventLogger
}

func NewSettlementHandler(engine settlement.SettlementUsecase, eventLogger logger.SettlementEventLogger) *SettlementHandler {
	return &SettlementHandler{
		engine:      engine,
		eventLogger: eventLogger,
	}
}

func (h *SettlementHandler) StartSettlement(w http.ResponseWriter, r *http.Request) {
	auctionID := chi.URLParam(r, "auctionID")
	requestID := middleware.GetReqID(r.Context())

	out, err := h.engine.StartSettlement(r.Context(), auctionID)
	if err != nil {
		if h.eventLogger != nil {
			h.eventLogger.LogSettlementFailed(r.Context(), logger.SettlementFailedEvent{
				RequestID: requestID,
				AuctionID: auctionID,
				Reason:    err.Error(),
				Currency:  "INR",
				Timestamp: time.Now(),
			})
		}
		writeDomainError(w, err)
		return
	}

	if h.eventLogger != nil {
		h.eventLogger.LogSettlementStarted(r.Context(), logger.SettlementStartedEvent{
			RequestID:    requestID,
			SettlementID: out.SettlementID,
			AuctionID:    out.AuctionID,
			RefCode:      out.RefCode,
			Currency:     "INR",
			Timestamp:    time.Now(),
		})
	}

	writeJSON(w, http.StatusCreated, response.ToSettlementResponse(out))
}

func (h *SettlementHandler) GetSettlementState(w http.ResponseWriter, r *http.Request) {
	auctionID := chi.URLParam(r, "auctionID")

	out, err := h.engine.GetSettlementState(r.Context(), auctionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response.ToSettlementStateResponse(out))
}

func (h *SettlementHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	auctionID := chi.URLParam(r, "auctionID")

	outcomes, err := h.engine.GetAuditTrail(r.Context(), auctionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, JSONResponse{
		"auction_id": auctionID,
		"outcomes":   response.ToWindowOutcomeResponses(outcomes),
	})
}

func (h *SettlementHandler) AttemptPayment(w http.ResponseWriter, r *http.Request) {
	windowID := chi.URLParam(r, "windowID")

	if err := h.engine.AttemptPayment(r.Context(), windowID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, JSONResponse{"window_id": windowID, "status": "PAID"})
}

func (h *SettlementHandler) DeclineWindow(w http.ResponseWriter, r *http.Request) {
	windowID := chi.URLParam(r, "windowID")

	if err := h.engine.DeclineWindow(r.Context(), windowID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, JSONResponse{"window_id": windowID, "status": "DECLINED"})
}

func (h *SettlementHandler) CancelSettlement(w http.ResponseWriter, r *http.Request) {
	auctionID := chi.URLParam(r, "auctionID")

	if err := h.engine.CancelSettlement(r.Context(), auctionID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, JSONResponse{"auction_id": auctionID, "status": "CANCELLED"})
}
