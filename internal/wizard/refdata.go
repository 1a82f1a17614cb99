package wizard

import (
	"context"

	"ecovoz/internal/infrastructure/backend"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BackendGateway is the slice of the ordering backend the wizard consumes.
type BackendGateway interface {
	GetTariffs(ctx context.Context) ([]backend.TariffInfo, error)
	GetComplexes(ctx context.Context, token string) ([]backend.Complex, error)
	GetAddresses(ctx context.Context, token string) ([]backend.SavedAddress, error)
	GetBalance(ctx context.Context, token string) (backend.Balance, error)
	GetSubscriptions(ctx context.Context, token string) ([]backend.Subscription, error)
	CreateAddress(ctx context.Context, token string, req backend.CreateAddressRequest) (backend.CreatedAddress, error)
	CreateOrder(ctx context.Context, token string, req backend.CreateOrderRequest) (backend.CreatedOrder, error)
	CreatePayment(ctx context.Context, token string, req backend.CreateOrderRequest) (backend.CreatedPayment, error)
}

// RefData is the reference data resolved once at session start. Every
// member is advisory: the backend re-validates at commit time.
type RefData struct {
	Tariffs       []backend.TariffInfo
	Complexes     []backend.Complex
	Addresses     []backend.SavedAddress
	Balance       backend.Balance
	Subscriptions []backend.Subscription

	// ComplexesLoaded distinguishes "empty list" from "fetch failed"; while
	// false the address step is treated as not yet satisfiable in complex
	// mode rather than broken.
	ComplexesLoaded bool
	BalanceLoaded   bool
}

// HasActiveSubscription is the single authoritative "existing subscriber"
// signal; it gates the trial-equivalent pricing override.
func (r RefData) HasActiveSubscription() bool {
	for _, s := range r.Subscriptions {
		if s.IsActive {
			return true
		}
	}
	return false
}

// DefaultAddress returns the saved address flagged as default, if any.
func (r RefData) DefaultAddress() (backend.SavedAddress, bool) {
	for _, a := range r.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return backend.SavedAddress{}, false
}

// LoadRefData fans out the five independent reads and joins them before
// the wizard renders. Each member fails soft: a failed fetch is logged and
// leaves its zero value, it never blocks the wizard.
func LoadRefData(ctx context.Context, gw BackendGateway, token string, logger *zap.Logger) RefData {
	var ref RefData
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tariffs, err := gw.GetTariffs(gctx)
		if err != nil {
			logger.Warn("tariff fetch failed, using embedded rates", zap.Error(err))
			return nil
		}
		ref.Tariffs = tariffs
		return nil
	})
	g.Go(func() error {
		complexes, err := gw.GetComplexes(gctx, token)
		if err != nil {
			logger.Warn("complex list fetch failed", zap.Error(err))
			return nil
		}
		ref.Complexes = complexes
		ref.ComplexesLoaded = true
		return nil
	})
	g.Go(func() error {
		addresses, err := gw.GetAddresses(gctx, token)
		if err != nil {
			logger.Warn("saved address fetch failed", zap.Error(err))
			return nil
		}
		ref.Addresses = addresses
		return nil
	})
	g.Go(func() error {
		balance, err := gw.GetBalance(gctx, token)
		if err != nil {
			logger.Warn("balance fetch failed", zap.Error(err))
			return nil
		}
		ref.Balance = balance
		ref.BalanceLoaded = true
		return nil
	})
	g.Go(func() error {
		subs, err := gw.GetSubscriptions(gctx, token)
		if err != nil {
			logger.Warn("subscription fetch failed", zap.Error(err))
			return nil
		}
		ref.Subscriptions = subs
		return nil
	})

	// Goroutines only ever return nil; Wait is the join point.
	_ = g.Wait()
	return ref
}
