package wizard

import (
	"ecovoz/internal/config"
	"ecovoz/internal/pricing"

	"go.uber.org/zap"
)

func NewModule(gateway BackendGateway, cfg *config.Config, logger *zap.Logger) *UseCase {
	store := NewStore(cfg.Wizard.SessionTTL, logger)
	orchestrator := NewOrchestrator(gateway, logger)

	return NewUseCase(
		store,
		gateway,
		orchestrator,
		pricing.DefaultRates(),
		AddressMode(cfg.Wizard.AddressMode),
		logger,
	)
}
