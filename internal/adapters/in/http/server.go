// Package http exposes the dispatch and trust use cases over a JSON API.
package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/commands"
	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/queries"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/partner"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DispatchEnqueuer hands a cascade run to a background worker.
type DispatchEnqueuer interface {
	EnqueueDispatch(ctx context.Context, cmd commands.DispatchOrderCommand) error
}

// Handlers groups the use cases the server exposes.
type Handlers struct {
	DispatchOrder          commands.DispatchOrderCommandHandler
	RespondToOffer         commands.RespondToOfferCommandHandler
	UpdatePartnerLocation  commands.UpdatePartnerLocationCommandHandler
	SetPartnerAvailability commands.SetPartnerAvailabilityCommandHandler
	RefreshTrustScore      commands.RefreshTrustScoreCommandHandler
	RecordOrderOutcome     commands.RecordOrderOutcomeCommandHandler

	GetDispatchStatus        queries.GetDispatchStatusQueryHandler
	GetNearbyPartners        queries.GetNearbyPartnersQueryHandler
	GetTrustScore            queries.GetTrustScoreQueryHandler
	GetPaymentMethods        queries.GetPaymentMethodsQueryHandler
	GetPincodeRisk           queries.GetPincodeRiskQueryHandler
	DetectSuspiciousCheckout queries.DetectSuspiciousCheckoutQueryHandler
}

// Server coordinates between HTTP requests and the application use cases.
//
// Dispatch runs inline unless an enqueuer is set; then the cascade is handed to
// the worker and the request returns 202 Accepted at once.
type Server struct {
	handlers Handlers
	enqueuer DispatchEnqueuer
	logger   *zap.Logger
}

// NewServer creates the server. enqueuer may be nil.
func NewServer(handlers Handlers, enqueuer DispatchEnqueuer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handlers: handlers,
		enqueuer: enqueuer,
		logger:   logger.With(zap.String("component", "http_server")),
	}
}

// DispatchOrder handles POST /api/v1/dispatch/orders/:orderId.
func (s *Server) DispatchOrder(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return s.fail(c, err)
	}

	var req DispatchRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Vendor == nil || req.Customer == nil {
		return badRequest(c, "vendorLocation and customerLocation are required")
	}
	vendor, err := req.Vendor.toDomain()
	if err != nil {
		return s.fail(c, err)
	}
	customer, err := req.Customer.toDomain()
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewDispatchOrderCommand(orderID, vendor, customer)
	if err != nil {
		return s.fail(c, err)
	}

	ctx := c.Request().Context()
	if s.enqueuer != nil {
		if err = s.enqueuer.EnqueueDispatch(ctx, cmd); err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusAccepted, DispatchQueued{OrderID: orderID.String(), Status: "QUEUED"})
	}

	outcome, err := s.handlers.DispatchOrder.Handle(ctx, cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, outcomeOf(outcome))
}

// GetDispatchStatus handles GET /api/v1/dispatch/orders/:orderId.
func (s *Server) GetDispatchStatus(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetDispatchStatusQuery(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	summary, err := s.handlers.GetDispatchStatus.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, statusOf(orderID, summary))
}

// RespondToOffer handles POST /api/v1/dispatch/offers/:offerId/response.
func (s *Server) RespondToOffer(c echo.Context) error {
	offerID, err := kernel.UUIDFromString(c.Param("offerId"))
	if err != nil {
		return s.fail(c, err)
	}
	var req OfferResponseRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Accept == nil {
		return badRequest(c, "accept is required")
	}
	partnerID, err := kernel.UUIDFromString(req.PartnerID)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRespondToOfferCommand(offerID, partnerID, *req.Accept)
	if err != nil {
		return s.fail(c, err)
	}
	offer, err := s.handlers.RespondToOffer.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, offerOf(offer))
}

// GetNearbyPartners handles GET /api/v1/partners/nearby?latitude=&longitude=&radiusKm=&types=.
func (s *Server) GetNearbyPartners(c echo.Context) error {
	lat, latErr := strconv.ParseFloat(c.QueryParam("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("longitude"), 64)
	if latErr != nil || lngErr != nil {
		return badRequest(c, "latitude and longitude are required numbers")
	}
	origin, err := kernel.NewLocation(lat, lng)
	if err != nil {
		return s.fail(c, err)
	}

	var radius float64
	if raw := c.QueryParam("radiusKm"); raw != "" {
		if radius, err = strconv.ParseFloat(raw, 64); err != nil {
			return badRequest(c, "radiusKm must be a number")
		}
	}

	var types []partner.Type
	if raw := c.QueryParam("types"); raw != "" {
		for _, name := range strings.Split(raw, ",") {
			t, parseErr := partner.ParseType(strings.ToUpper(strings.TrimSpace(name)))
			if parseErr != nil {
				return s.fail(c, parseErr)
			}
			types = append(types, t)
		}
	}

	query, err := queries.NewGetNearbyPartnersQuery(origin, radius, types)
	if err != nil {
		return s.fail(c, err)
	}
	partners, err := s.handlers.GetNearbyPartners.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, nearbyOf(partners))
}

// UpdatePartnerLocation handles PUT /api/v1/partners/:partnerId/location.
func (s *Server) UpdatePartnerLocation(c echo.Context) error {
	partnerID, err := kernel.UUIDFromString(c.Param("partnerId"))
	if err != nil {
		return s.fail(c, err)
	}
	var req Location
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	location, err := req.toDomain()
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewUpdatePartnerLocationCommand(partnerID, location)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.UpdatePartnerLocation.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetPartnerAvailability handles PUT /api/v1/partners/:partnerId/availability.
func (s *Server) SetPartnerAvailability(c echo.Context) error {
	partnerID, err := kernel.UUIDFromString(c.Param("partnerId"))
	if err != nil {
		return s.fail(c, err)
	}
	var req AvailabilityRequest
	if err = c.Bind(&req); err != nil || req.Available == nil {
		return badRequest(c, "available is required")
	}

	cmd, err := commands.NewSetPartnerAvailabilityCommand(partnerID, *req.Available)
	if err != nil {
		return s.fail(c, err)
	}
	if err = s.handlers.SetPartnerAvailability.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetTrustScore handles GET /api/v1/buyers/:buyerId/trust-score.
func (s *Server) GetTrustScore(c echo.Context) error {
	buyerID, err := kernel.UUIDFromString(c.Param("buyerId"))
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetTrustScoreQuery(buyerID)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetTrustScore.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, trustScoreOf(view))
}

// RefreshTrustScore handles POST /api/v1/buyers/:buyerId/trust-score/refresh.
func (s *Server) RefreshTrustScore(c echo.Context) error {
	buyerID, err := kernel.UUIDFromString(c.Param("buyerId"))
	if err != nil {
		return s.fail(c, err)
	}
	var req RefreshTrustScoreRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	code, err := pincode.Parse(req.Pincode)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRefreshTrustScoreCommand(buyerID, code)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.RefreshTrustScore.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, RefreshedTrustScore{
		BuyerID:    buyerID.String(),
		TrustScore: result.TrustScore,
		Category:   result.Category.String(),
		FailedOpen: result.FailedOpen,
	})
}

// GetPaymentMethods handles GET /api/v1/buyers/:buyerId/payment-methods.
func (s *Server) GetPaymentMethods(c echo.Context) error {
	buyerID, err := kernel.UUIDFromString(c.Param("buyerId"))
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetPaymentMethodsQuery(buyerID)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetPaymentMethods.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, paymentMethodsOf(view))
}

// GetPincodeRisk handles GET /api/v1/pincodes/:pincode/risk.
func (s *Server) GetPincodeRisk(c echo.Context) error {
	code, err := pincode.Parse(c.Param("pincode"))
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetPincodeRiskQuery(code)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetPincodeRisk.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, pincodeRiskOf(view))
}

// RecordOrderOutcome handles POST /api/v1/orders/:orderId/outcome.
func (s *Server) RecordOrderOutcome(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("orderId"))
	if err != nil {
		return s.fail(c, err)
	}
	var req OrderOutcomeRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewRecordOrderOutcomeCommand(orderID, req.WasReturned, req.WasCancelled)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.handlers.RecordOrderOutcome.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, orderOutcomeOf(result))
}

// DetectSuspiciousCheckout handles POST /api/v1/checkouts/screen.
func (s *Server) DetectSuspiciousCheckout(c echo.Context) error {
	var req SuspiciousCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.CheckoutTimeSeconds == nil {
		return badRequest(c, "checkoutTimeSeconds is required")
	}
	buyerID, err := kernel.UUIDFromString(req.BuyerID)
	if err != nil {
		return s.fail(c, err)
	}

	checkout := time.Duration(*req.CheckoutTimeSeconds * float64(time.Second))
	query, err := queries.NewDetectSuspiciousCheckoutQuery(buyerID, checkout)
	if err != nil {
		return s.fail(c, err)
	}
	view, err := s.handlers.DetectSuspiciousCheckout.Handle(query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, suspiciousCheckoutOf(view))
}
