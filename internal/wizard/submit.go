package wizard

import (
	"context"

	"ecovoz/internal/domain"
	apperrors "ecovoz/internal/errors"
	"ecovoz/internal/infrastructure/backend"
	"ecovoz/internal/pricing"

	"go.uber.org/zap"
)

type SubmitOutcome string

const (
	// OutcomeSuccess means the order exists; go to the success view.
	OutcomeSuccess SubmitOutcome = "success"
	// OutcomeRedirect means the user must complete payment externally.
	OutcomeRedirect SubmitOutcome = "redirect"
)

type SubmissionResult struct {
	Outcome         SubmitOutcome       `json:"outcome"`
	ConfirmationURL string              `json:"confirmationUrl,omitempty"`
	OrderID         int64               `json:"orderId,omitempty"`
	AddressID       int64               `json:"addressId"`
	Quote           domain.DisplayQuote `json:"quote"`
}

// Orchestrator resolves a confirmed draft into the external-write
// sequence: address creation first, then order or payment creation.
type Orchestrator struct {
	gateway BackendGateway
	logger  *zap.Logger
}

func NewOrchestrator(gateway BackendGateway, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{gateway: gateway, logger: logger}
}

// Submit executes the write sequence. The caller must have claimed the
// session's submission flag; mutations are rejected while it is held.
//
// The sequencing is a hard dependency: the address identifier must be
// known before any order or payment call. Address creation is not rolled
// back when a later call fails; the created address is an accepted
// harmless side effect.
func (o *Orchestrator) Submit(ctx context.Context, s *Session) (*SubmissionResult, error) {
	draft := s.Draft
	logger := o.logger.With(zap.String("sessionId", s.ID), zap.String("tariff", string(draft.TariffID)))

	created, err := o.gateway.CreateAddress(ctx, s.Token, addressRequest(draft))
	if err != nil {
		logger.Warn("address creation failed", zap.Error(err))
		return nil, backendError(err)
	}
	logger.Info("address created", zap.Int64("addressId", created.ID))

	orderReq := backend.CreateOrderRequest{
		AddressID:  created.ID,
		Date:       draft.DeliveryDate.Format("2006-01-02"),
		TimeSlot:   draft.Time.WireString(),
		IsUrgent:   draft.Time.Urgent,
		Comment:    courierComment(draft),
		TariffType: string(draft.TariffID),
	}

	quote := s.Engine.Quote(draft.TariffID, pricing.QuoteParams{
		Urgent:          draft.Time.Urgent,
		BagsCount:       draft.Volume.BagsCount,
		DurationDays:    draft.Volume.DurationDays,
		Frequency:       draft.Volume.Frequency,
		HasSubscription: s.Ref.HasActiveSubscription(),
	})

	if draft.TariffID == domain.TariffSingle {
		cost := pricing.CreditCost(draft.Time.Urgent)
		if s.Ref.BalanceLoaded && s.Ref.Balance.Credits >= cost {
			order, err := o.gateway.CreateOrder(ctx, s.Token, orderReq)
			if err != nil {
				logger.Warn("order creation failed", zap.Error(err))
				return nil, backendError(err)
			}
			logger.Info("order created against balance",
				zap.Int64("orderId", order.ID), zap.Int("creditCost", cost))
			return &SubmissionResult{
				Outcome:   OutcomeSuccess,
				OrderID:   order.ID,
				AddressID: created.ID,
				Quote:     quote,
			}, nil
		}
		// Not enough credits; fall through to the payment path.
	}

	orderReq.TariffDetails = tariffDetails(draft)
	payment, err := o.gateway.CreatePayment(ctx, s.Token, orderReq)
	if err != nil {
		logger.Warn("payment creation failed", zap.Error(err))
		return nil, backendError(err)
	}

	if payment.ConfirmationURL == "" {
		// No redirect target means the charge settled immediately.
		logger.Info("payment settled without redirect")
		return &SubmissionResult{
			Outcome:   OutcomeSuccess,
			AddressID: created.ID,
			Quote:     quote,
		}, nil
	}

	logger.Info("payment created, redirecting")
	return &SubmissionResult{
		Outcome:         OutcomeRedirect,
		ConfirmationURL: payment.ConfirmationURL,
		AddressID:       created.ID,
		Quote:           quote,
	}, nil
}

func addressRequest(draft *domain.OrderDraft) backend.CreateAddressRequest {
	return backend.CreateAddressRequest{
		ComplexID: draft.Address.ComplexID,
		Street:    draft.Address.Street,
		Building:  draft.Address.Building,
		Entrance:  orDefault(draft.Address.Entrance, "1"),
		Floor:     orDefault(draft.Address.Floor, "1"),
		Apartment: draft.Address.Apartment,
		Intercom:  orDefault(draft.Address.Intercom, "0"),
		IsDefault: draft.SaveAddress,
	}
}

func tariffDetails(draft *domain.OrderDraft) *backend.TariffDetails {
	switch draft.TariffID {
	case domain.TariffTrial:
		v := domain.DefaultVolume()
		return &backend.TariffDetails{
			BagsCount: v.BagsCount,
			Duration:  v.DurationDays,
			Frequency: string(v.Frequency),
		}
	case domain.TariffMonthly:
		return &backend.TariffDetails{
			BagsCount: draft.Volume.BagsCount,
			Duration:  draft.Volume.DurationDays,
			Frequency: string(draft.Volume.Frequency),
		}
	}
	return nil
}

func courierComment(draft *domain.OrderDraft) string {
	note := draft.PickupMethod.CourierNote()
	if draft.Comment == "" {
		return note
	}
	return note + ". " + draft.Comment
}

// backendError converts any failure of an external write into an error
// whose message is safe to show the user: the backend's own text when
// there is one, a generic notice otherwise.
func backendError(err error) error {
	if apiErr, ok := err.(*backend.APIError); ok {
		return apperrors.NewUnavailableError(apiErr.Detail, err)
	}
	return apperrors.NewUnavailableError("Не удалось оформить заказ. Попробуйте ещё раз.", err)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
