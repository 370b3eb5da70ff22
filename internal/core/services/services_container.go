package services

import (
	portsprov "github.com/SscSPs/currency_conversion_app/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/currency_conversion_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/currency_conversion_app/internal/core/ports/services"
	"github.com/SscSPs/currency_conversion_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, fetcher portsprov.RateFetcher) *portssvc.ServiceContainer {
	rateCache := NewRateCacheService(repos.ExchangeRateRepo, fetcher, WithRateCacheTTL(cfg.RateCacheTTL))

	return &portssvc.ServiceContainer{
		Rates: rateCache,
		Conversion: NewConversionService(
			rateCache,
			repos.ConversionRepo,
			WithHistoryLimit(cfg.ConversionHistoryLimit),
		),
	}
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.RateResolverSvc     = (*RateCacheService)(nil)
	_ portssvc.ConversionSvcFacade = (*conversionService)(nil)
)
