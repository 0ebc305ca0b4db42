package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"lucky-dice-bot/internal/ledger"
	"lucky-dice-bot/internal/model"
	"lucky-dice-bot/internal/pkg/metrics"
	"lucky-dice-bot/internal/shop"
)

// ShopService handles shop-related business logic
type ShopService struct {
	ledger *ledger.Ledger
}

// NewShopService creates a new ShopService instance
func NewShopService(l *ledger.Ledger) *ShopService {
	return &ShopService{ledger: l}
}

// Items returns the catalog with the player's ownership and whether each
// item is affordable right now, plus the profile they were computed from.
func (s *ShopService) Items(ctx context.Context, userID int64) ([]shop.Listing, *model.Profile, error) {
	p, err := s.ledger.Get(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile: %w", err)
	}

	items := shop.GetAllItems()
	listings := make([]shop.Listing, 0, len(items))
	for _, item := range items {
		owned := p.HasItem(string(item.Type))
		listings = append(listings, shop.Listing{
			ItemConfig: item,
			Unlocked:   owned,
			Affordable: !owned && p.LuckPoints >= item.Price,
		})
	}
	return listings, p, nil
}

// Purchase buys itemType for its catalog price. It fails with
// ErrItemNotFound, ledger.ErrAlreadyUnlocked or ledger.ErrInsufficientFunds
// without changing the profile.
func (s *ShopService) Purchase(ctx context.Context, userID int64, itemType shop.ItemType) (*model.Profile, error) {
	item, ok := shop.GetItem(itemType)
	if !ok {
		return nil, ErrItemNotFound
	}

	p, err := s.ledger.SpendPoints(ctx, userID, string(item.Type), item.Price)
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyUnlocked) || errors.Is(err, ledger.ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to purchase %s: %w", item.Type, err)
	}

	metrics.ShopPurchases.WithLabelValues(string(item.Type)).Inc()
	log.Info().
		Int64("user_id", userID).
		Str("item", string(item.Type)).
		Int64("price", item.Price).
		Msg("Shop item purchased")
	return p, nil
}
