package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pashubazaar/settlement-service/internal/delivery/http/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the bid ledger and settlement endpoints. Payment windows
// get their own top-level route because a window ID alone identifies the
// window regardless of auction.
func NewRouter(bidHandler *handlers.BidHandler, settlementHandler *handlers.SettlementHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auctions/{auctionID}", func(r chi.Router) {
			r.Post("/bids", bidHandler.SubmitBid)
			r.Get("/bids", bidHandler.ListBids)
			r.Get("/bids/ranked", bidHandler.RankedList)

			r.Post("/settlement", settlementHandler.StartSettlement)
			r.Get("/settlement", settlementHandler.GetSettlementState)
			r.Get("/settlement/audit", settlementHandler.GetAuditTrail)
			r.Post("/settlement/cancel", settlementHandler.CancelSettlement)
		})

		r.Route("/windows/{windowID}", func(r chi.Router) {
			r.Post("/pay", settlementHandler.AttemptPayment)
			r.Post("/decline", settlementHandler.DeclineWindow)
		})
	})

	return r
}
