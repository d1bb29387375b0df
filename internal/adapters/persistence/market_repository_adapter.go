package persistence

import (
	"context"

	"github.com/nullpilot/voyager/internal/domain/market"
)

// MarketRepositoryAdapter adapts MarketRepositoryGORM's native (playerID, waypointSymbol)
// parameter order to the market.MarketRepository port's (waypointSymbol, playerID) order.
type MarketRepositoryAdapter struct {
	marketRepo *MarketRepositoryGORM
}

// NewMarketRepositoryAdapter creates a new adapter
func NewMarketRepositoryAdapter(marketRepo *MarketRepositoryGORM) *MarketRepositoryAdapter {
	return &MarketRepositoryAdapter{marketRepo: marketRepo}
}

// GetMarketData adapts the parameter order from the port to the persistence layer
func (a *MarketRepositoryAdapter) GetMarketData(ctx context.Context, waypointSymbol string, playerID int) (*market.Market, error) {
	return a.marketRepo.GetMarketData(ctx, uint(playerID), waypointSymbol)
}

// FindCheapestMarketSelling delegates directly; signatures already match.
func (a *MarketRepositoryAdapter) FindCheapestMarketSelling(ctx context.Context, goodSymbol, systemSymbol string, playerID int) (*market.CheapestMarketResult, error) {
	return a.marketRepo.FindCheapestMarketSelling(ctx, goodSymbol, systemSymbol, playerID)
}

// FindBestMarketBuying delegates directly; signatures already match.
func (a *MarketRepositoryAdapter) FindBestMarketBuying(ctx context.Context, goodSymbol, systemSymbol string, playerID int) (*market.BestMarketBuyingResult, error) {
	return a.marketRepo.FindBestMarketBuying(ctx, goodSymbol, systemSymbol, playerID)
}
