package http

import (
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/commands"
	"github.com/abhijeetraiiit/nccart/internal/core/application/usecases/queries"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/dispatch"
	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/kernel"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (l Location) toDomain() (kernel.Location, error) {
	return kernel.NewLocation(l.Latitude, l.Longitude)
}

func locationOf(l kernel.Location) Location {
	return Location{Latitude: l.Latitude(), Longitude: l.Longitude()}
}

type DispatchRequest struct {
	Vendor   *Location `json:"vendorLocation"`
	Customer *Location `json:"customerLocation"`
}

type DispatchOutcome struct {
	Success             bool       `json:"success"`
	FinalStage          string     `json:"finalStage"`
	PartnerID           *string    `json:"partnerId,omitempty"`
	PartnerName         string     `json:"partnerName,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"estimatedDeliveryAt,omitempty"`
	Message             string     `json:"message"`
}

func outcomeOf(o dispatch.Outcome) DispatchOutcome {
	out := DispatchOutcome{
		Success:             o.Success,
		FinalStage:          o.FinalStage.String(),
		PartnerName:         o.PartnerName,
		EstimatedDeliveryAt: o.EstimatedDeliveryAt,
		Message:             o.Message,
	}
	if o.PartnerID != nil {
		id := o.PartnerID.String()
		out.PartnerID = &id
	}
	return out
}

type DispatchQueued struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type DispatchAttempt struct {
	ID               string     `json:"id"`
	Sequence         int        `json:"sequence"`
	Stage            string     `json:"stage"`
	PartnerID        *string    `json:"partnerId,omitempty"`
	VendorLocation   Location   `json:"vendorLocation"`
	CustomerLocation Location   `json:"customerLocation"`
	DistanceKm       float64    `json:"distanceKm"`
	Accepted         bool       `json:"accepted"`
	PingedAt         time.Time  `json:"pingedAt"`
	RespondedAt      *time.Time `json:"respondedAt,omitempty"`
}

type DispatchStatus struct {
	OrderID       string            `json:"orderId"`
	TotalAttempts int               `json:"totalAttempts"`
	Stages        []string          `json:"stages"`
	Accepted      bool              `json:"accepted"`
	FinalStage    string            `json:"finalStage"`
	Attempts      []DispatchAttempt `json:"attempts"`
}

func statusOf(orderID kernel.UUID, s dispatch.Summary) DispatchStatus {
	out := DispatchStatus{
		OrderID:       orderID.String(),
		TotalAttempts: s.TotalAttempts,
		Stages:        make([]string, 0, len(s.Stages)),
		Accepted:      s.Accepted,
		FinalStage:    s.FinalStage.String(),
		Attempts:      make([]DispatchAttempt, 0, len(s.Attempts)),
	}
	for _, stage := range s.Stages {
		out.Stages = append(out.Stages, stage.String())
	}
	for _, a := range s.Attempts {
		attempt := DispatchAttempt{
			ID:               a.ID().String(),
			Sequence:         a.Sequence(),
			Stage:            a.Stage().String(),
			VendorLocation:   locationOf(a.Vendor()),
			CustomerLocation: locationOf(a.Customer()),
			DistanceKm:       a.DistanceKm(),
			Accepted:         a.Accepted(),
			PingedAt:         a.PingedAt(),
		}
		if id, ok := a.PartnerID(); ok {
			pid := id.String()
			attempt.PartnerID = &pid
		}
		if at, ok := a.RespondedAt(); ok {
			attempt.RespondedAt = &at
		}
		out.Attempts = append(out.Attempts, attempt)
	}
	return out
}

type OfferResponseRequest struct {
	PartnerID string `json:"partnerId"`
	Accept    *bool  `json:"accept"`
}

type Offer struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"orderId"`
	PartnerID   string     `json:"partnerId"`
	Stage       string     `json:"stage"`
	State       string     `json:"state"`
	OfferedAt   time.Time  `json:"offeredAt"`
	Deadline    time.Time  `json:"deadline"`
	RespondedAt *time.Time `json:"respondedAt,omitempty"`
}

func offerOf(o *dispatch.Offer) Offer {
	out := Offer{
		ID:        o.ID().String(),
		OrderID:   o.OrderID().String(),
		PartnerID: o.PartnerID().String(),
		Stage:     o.Stage().String(),
		State:     o.State().String(),
		OfferedAt: o.OfferedAt(),
		Deadline:  o.Deadline(),
	}
	if at, ok := o.RespondedAt(); ok {
		out.RespondedAt = &at
	}
	return out
}

type NearbyPartner struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Location   Location `json:"location"`
	Rating     float64  `json:"rating"`
	DistanceKm float64  `json:"distanceKm"`
}

func nearbyOf(partners []queries.NearbyPartner) []NearbyPartner {
	out := make([]NearbyPartner, 0, len(partners))
	for _, p := range partners {
		out = append(out, NearbyPartner{
			ID:         p.ID.String(),
			Name:       p.Name,
			Type:       p.Type.String(),
			Location:   locationOf(p.Location),
			Rating:     p.Rating,
			DistanceKm: p.DistanceKm,
		})
	}
	return out
}

type AvailabilityRequest struct {
	Available *bool `json:"available"`
}

type TrustScore struct {
	BuyerID            string     `json:"buyerId"`
	TrustScore         float64    `json:"trustScore"`
	Category           string     `json:"category"`
	TotalOrders        int        `json:"totalOrders"`
	ReturnedOrders     int        `json:"returnedOrders"`
	CancelledOrders    int        `json:"cancelledOrders"`
	SuccessRatePercent float64    `json:"successRatePercent"`
	AccountAgeDays     int        `json:"accountAgeDays"`
	LastScoreUpdate    *time.Time `json:"lastScoreUpdate,omitempty"`
}

func trustScoreOf(v queries.TrustScoreView) TrustScore {
	return TrustScore{
		BuyerID:            v.BuyerID.String(),
		TrustScore:         v.TrustScore,
		Category:           v.Category.String(),
		TotalOrders:        v.TotalOrders,
		ReturnedOrders:     v.ReturnedOrders,
		CancelledOrders:    v.CancelledOrders,
		SuccessRatePercent: v.SuccessRatePercent,
		AccountAgeDays:     v.AccountAgeDays,
		LastScoreUpdate:    v.LastScoreUpdate,
	}
}

type PaymentMethods struct {
	BuyerID       string   `json:"buyerId"`
	TrustScore    float64  `json:"trustScore"`
	Category      string   `json:"category"`
	Methods       []string `json:"methods"`
	CODAvailable  bool     `json:"codAvailable"`
	CommitmentFee string   `json:"commitmentFee"`
	Message       string   `json:"message"`
	FailedOpen    bool     `json:"failedOpen,omitempty"`
}

func paymentMethodsOf(v queries.PaymentMethodsView) PaymentMethods {
	out := PaymentMethods{
		BuyerID:       v.BuyerID.String(),
		TrustScore:    v.TrustScore,
		Category:      v.Category.String(),
		Methods:       make([]string, 0, len(v.Methods)),
		CommitmentFee: v.CommitmentFee.StringFixed(2),
		Message:       v.Message,
		FailedOpen:    v.FailedOpen,
	}
	for _, m := range v.Methods {
		out.Methods = append(out.Methods, m.String())
		out.CODAvailable = out.CODAvailable || m.IsCashOnDelivery()
	}
	return out
}

type RefreshTrustScoreRequest struct {
	Pincode string `json:"pincode"`
}

type RefreshedTrustScore struct {
	BuyerID    string  `json:"buyerId"`
	TrustScore float64 `json:"trustScore"`
	Category   string  `json:"category"`
	FailedOpen bool    `json:"failedOpen,omitempty"`
}

type PincodeRisk struct {
	Pincode           string     `json:"pincode"`
	RiskScore         float64    `json:"riskScore"`
	Category          string     `json:"category"`
	HasHistory        bool       `json:"hasHistory"`
	TotalOrders       int        `json:"totalOrders"`
	ReturnedOrders    int        `json:"returnedOrders"`
	CancelledOrders   int        `json:"cancelledOrders"`
	ReturnRatePercent float64    `json:"returnRatePercent"`
	LastUpdated       *time.Time `json:"lastUpdated,omitempty"`
}

func pincodeRiskOf(v queries.PincodeRiskView) PincodeRisk {
	return PincodeRisk{
		Pincode:           v.Pincode.String(),
		RiskScore:         v.RiskScore,
		Category:          v.Category.String(),
		HasHistory:        v.HasHistory,
		TotalOrders:       v.TotalOrders,
		ReturnedOrders:    v.ReturnedOrders,
		CancelledOrders:   v.CancelledOrders,
		ReturnRatePercent: v.ReturnRatePercent,
		LastUpdated:       v.LastUpdated,
	}
}

type OrderOutcomeRequest struct {
	WasReturned  bool `json:"wasReturned"`
	WasCancelled bool `json:"wasCancelled"`
}

type OrderOutcome struct {
	OrderID       string  `json:"orderId"`
	BuyerID       string  `json:"buyerId"`
	NewTrustScore float64 `json:"newTrustScore"`
	PincodeRisk   float64 `json:"pincodeRisk"`
	WasReturned   bool    `json:"wasReturned"`
	WasCancelled  bool    `json:"wasCancelled"`
	FailedOpen    bool    `json:"failedOpen,omitempty"`
}

func orderOutcomeOf(r commands.RecordOrderOutcomeResult) OrderOutcome {
	return OrderOutcome{
		OrderID:       r.OrderID.String(),
		BuyerID:       r.BuyerID.String(),
		NewTrustScore: r.NewTrustScore,
		PincodeRisk:   r.PincodeRisk,
		WasReturned:   r.WasReturned,
		WasCancelled:  r.WasCancelled,
		FailedOpen:    r.FailedOpen,
	}
}

type SuspiciousCheckoutRequest struct {
	BuyerID             string   `json:"buyerId"`
	CheckoutTimeSeconds *float64 `json:"checkoutTimeSeconds"`
}

type SuspiciousCheckout struct {
	BuyerID             string  `json:"buyerId"`
	CheckoutTimeSeconds float64 `json:"checkoutTimeSeconds"`
	ThresholdSeconds    float64 `json:"thresholdSeconds"`
	Suspicious          bool    `json:"suspicious"`
}

func suspiciousCheckoutOf(v queries.SuspiciousCheckoutView) SuspiciousCheckout {
	return SuspiciousCheckout{
		BuyerID:             v.BuyerID.String(),
		CheckoutTimeSeconds: v.CheckoutTime.Seconds(),
		ThresholdSeconds:    v.Threshold.Seconds(),
		Suspicious:          v.Suspicious,
	}
}
